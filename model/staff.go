package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Staff represents an employee of an institute (teaching or non-teaching)
type Staff struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID   uint           `gorm:"not null;index" json:"institute_id"`
	EmployeeCode  string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"employee_code"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"type:varchar(255);index" json:"email"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	Designation   string         `gorm:"type:varchar(100)" json:"designation"` // e.g., "Lecturer", "Clerk"
	Department    string         `gorm:"type:varchar(100)" json:"department"`
	DateOfJoining datatypes.Date `json:"date_of_joining"`
	IsTeaching    bool           `gorm:"default:true" json:"is_teaching"`
	Status        string         `gorm:"type:varchar(20);default:'active'" json:"status"` // active, resigned, retired

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"institute,omitempty"`
	Leaves    []Leave   `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"-"`
}
