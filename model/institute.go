package model

import (
	"time"

	"gorm.io/gorm"
)

// Institute represents a single institute managed by the organisation
type Institute struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null;uniqueIndex" json:"name"`
	Code          string         `gorm:"uniqueIndex;not null" json:"code"` // e.g., "JSSP", "JSPM"
	Address       string         `gorm:"type:text" json:"address"`
	City          string         `gorm:"type:varchar(100)" json:"city"`
	ContactPerson string         `gorm:"type:varchar(255)" json:"contact_person"`
	ContactEmail  string         `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone  string         `gorm:"type:varchar(20)" json:"contact_phone"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Staff     []Staff    `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"staff,omitempty"`
	Students  []Student  `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"students,omitempty"`
	Divisions []Division `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"divisions,omitempty"`
	Ledgers   []Ledger   `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
}
