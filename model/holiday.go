package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Holiday represents a date-range holiday in the institute calendar
type Holiday struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	Title       string         `gorm:"not null" json:"title"`
	FromDate    datatypes.Date `gorm:"not null;index" json:"from_date"`
	ToDate      datatypes.Date `gorm:"not null;index" json:"to_date"`

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
}

// WeeklyHoliday represents a recurring weekly holiday (e.g., every Sunday).
// DayOfWeek follows time.Weekday numbering: 0 = Sunday.
type WeeklyHoliday struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;uniqueIndex:idx_weekly_holiday" json:"institute_id"`
	DayOfWeek   int            `gorm:"not null;uniqueIndex:idx_weekly_holiday" json:"day_of_week"`

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for WeeklyHoliday
func (WeeklyHoliday) TableName() string {
	return "weekly_holidays"
}
