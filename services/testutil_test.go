package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SanmishaTech/jssp-sub003/model"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// A single connection keeps the in-memory database alive for the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.JWTTokenBlacklist{},
		&model.Institute{},
		&model.Division{},
		&model.Staff{},
		&model.Student{},
		&model.Attendance{},
		&model.Holiday{},
		&model.WeeklyHoliday{},
		&model.Ledger{},
		&model.LedgerTransaction{},
		&model.Product{},
		&model.StockLedger{},
		&model.Leave{},
		&model.Notice{},
		&model.Notification{},
		&model.CronJobLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedInstitute(t *testing.T, db *gorm.DB) model.Institute {
	t.Helper()

	institute := model.Institute{
		Name:     "Test Institute",
		Code:     "TST",
		City:     "Pune",
		IsActive: true,
	}
	if err := db.Create(&institute).Error; err != nil {
		t.Fatalf("failed to seed institute: %v", err)
	}
	return institute
}

func seedLedger(t *testing.T, db *gorm.DB, instituteID uint, kind model.LedgerKind, opening string) model.Ledger {
	t.Helper()

	ledger := model.Ledger{
		InstituteID: instituteID,
		Kind:        kind,
		Name:        "Test Ledger",
		TotalAmount: mustDecimal(t, opening),
		TotalSpend:  decimal.Zero,
	}
	if err := db.Create(&ledger).Error; err != nil {
		t.Fatalf("failed to seed ledger: %v", err)
	}
	return ledger
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func mustDate(t *testing.T, s string) datatypes.Date {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("invalid date %q: %v", s, err)
	}
	return datatypes.Date(parsed)
}
