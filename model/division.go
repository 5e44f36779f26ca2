package model

import (
	"time"

	"gorm.io/gorm"
)

// Division represents a class division within an institute (e.g., "FY-A")
type Division struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	CourseName  string         `gorm:"type:varchar(100);not null" json:"course_name"` // e.g., "Diploma in Pharmacy"
	Year        int            `gorm:"not null" json:"year"`                          // 1, 2, 3
	Name        string         `gorm:"type:varchar(50);not null" json:"name"`         // e.g., "A", "B"
	Capacity    int            `gorm:"default:60" json:"capacity"`

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"institute,omitempty"`
	Students  []Student `gorm:"foreignKey:DivisionID;constraint:OnDelete:SET NULL" json:"students,omitempty"`
}
