package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Exam represents an exam calendar entry for a division
type Exam struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	DivisionID  *uint          `gorm:"index" json:"division_id,omitempty"`
	Title       string         `gorm:"not null" json:"title"`
	Subject     string         `gorm:"type:varchar(150)" json:"subject"`
	ExamDate    datatypes.Date `gorm:"not null;index" json:"exam_date"`
	StartTime   string         `gorm:"type:varchar(10)" json:"start_time"` // "10:00"
	EndTime     string         `gorm:"type:varchar(10)" json:"end_time"`   // "13:00"
	Venue       string         `gorm:"type:varchar(150)" json:"venue"`

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	Division  *Division `gorm:"foreignKey:DivisionID;constraint:OnDelete:SET NULL" json:"division,omitempty"`
}
