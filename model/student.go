package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Student represents an enrolled student of an institute
type Student struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID   uint           `gorm:"not null;index" json:"institute_id"`
	DivisionID    *uint          `gorm:"index" json:"division_id,omitempty"`
	PRN           string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"prn"` // permanent registration number
	RollNumber    int            `json:"roll_number"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	Gender        string         `gorm:"type:varchar(20)" json:"gender"`
	DateOfBirth   datatypes.Date `json:"date_of_birth"`
	AdmissionDate datatypes.Date `json:"admission_date"`
	Status        string         `gorm:"type:varchar(20);default:'active'" json:"status"` // active, passed_out, dropped

	// Relationships
	Institute  Institute    `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"institute,omitempty"`
	Division   *Division    `gorm:"foreignKey:DivisionID;constraint:OnDelete:SET NULL" json:"division,omitempty"`
	Attendance []Attendance `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}
