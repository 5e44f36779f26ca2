package database

import (
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/auth"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedInstitutes(); err != nil {
		return fmt.Errorf("failed to seed institutes: %w", err)
	}

	if err := s.SeedDivisions(); err != nil {
		return fmt.Errorf("failed to seed divisions: %w", err)
	}

	if err := s.SeedWeeklyHolidays(); err != nil {
		return fmt.Errorf("failed to seed weekly holidays: %w", err)
	}

	if err := s.SeedLedgers(); err != nil {
		return fmt.Errorf("failed to seed ledgers: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	// Get admin credentials from environment variables
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		Role:         model.RoleAdmin,
		IsActive:     true,
		TokenVersion: 0,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}

// SeedInstitutes creates the managed institutes
func (s *Seeder) SeedInstitutes() error {
	var count int64
	if err := s.db.Model(&model.Institute{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Institutes already exist, skipping...")
		return nil
	}

	institutes := []model.Institute{
		{
			Name:     "Jayawant Shikshan Sanstha Polytechnic",
			Code:     "JSSP",
			Address:  "Survey 58, Handewadi Road",
			City:     "Pune",
			IsActive: true,
		},
		{
			Name:     "Jayawant Institute of Pharmacy",
			Code:     "JIP",
			Address:  "Tathawade Campus",
			City:     "Pune",
			IsActive: true,
		},
		{
			Name:     "Jayawant College of Engineering",
			Code:     "JCE",
			Address:  "Narhe Campus",
			City:     "Pune",
			IsActive: true,
		},
	}

	if err := s.db.Create(&institutes).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d institutes\n", len(institutes))
	return nil
}

// SeedDivisions creates divisions for each institute
func (s *Seeder) SeedDivisions() error {
	var count int64
	if err := s.db.Model(&model.Division{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Divisions already exist, skipping...")
		return nil
	}

	var institutes []model.Institute
	if err := s.db.Find(&institutes).Error; err != nil {
		return err
	}

	if len(institutes) == 0 {
		return fmt.Errorf("no institutes found, seed institutes first")
	}

	var divisions []model.Division
	for _, institute := range institutes {
		for year := 1; year <= 3; year++ {
			for _, name := range []string{"A", "B"} {
				divisions = append(divisions, model.Division{
					InstituteID: institute.ID,
					CourseName:  "Diploma in Pharmacy",
					Year:        year,
					Name:        name,
					Capacity:    60,
				})
			}
		}
	}

	if err := s.db.Create(&divisions).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d divisions\n", len(divisions))
	return nil
}

// SeedWeeklyHolidays marks Sunday as the default weekly holiday for
// every institute
func (s *Seeder) SeedWeeklyHolidays() error {
	var count int64
	if err := s.db.Model(&model.WeeklyHoliday{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Weekly holidays already exist, skipping...")
		return nil
	}

	var institutes []model.Institute
	if err := s.db.Find(&institutes).Error; err != nil {
		return err
	}

	var holidays []model.WeeklyHoliday
	for _, institute := range institutes {
		holidays = append(holidays, model.WeeklyHoliday{
			InstituteID: institute.ID,
			DayOfWeek:   0, // Sunday
		})
	}

	if len(holidays) == 0 {
		return nil
	}

	if err := s.db.Create(&holidays).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d weekly holidays\n", len(holidays))
	return nil
}

// SeedLedgers creates an empty bank and peticash ledger per institute
func (s *Seeder) SeedLedgers() error {
	var count int64
	if err := s.db.Model(&model.Ledger{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Ledgers already exist, skipping...")
		return nil
	}

	var institutes []model.Institute
	if err := s.db.Find(&institutes).Error; err != nil {
		return err
	}

	var ledgers []model.Ledger
	for _, institute := range institutes {
		ledgers = append(ledgers,
			model.Ledger{
				InstituteID: institute.ID,
				Kind:        model.LedgerKindBank,
				Name:        fmt.Sprintf("%s Bank Account", institute.Code),
				TotalAmount: decimal.Zero,
				TotalSpend:  decimal.Zero,
			},
			model.Ledger{
				InstituteID: institute.ID,
				Kind:        model.LedgerKindPeticash,
				Name:        fmt.Sprintf("%s Petty Cash", institute.Code),
				TotalAmount: decimal.Zero,
				TotalSpend:  decimal.Zero,
			},
		)
	}

	if len(ledgers) == 0 {
		return nil
	}

	if err := s.db.Create(&ledgers).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d ledgers\n", len(ledgers))
	return nil
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
