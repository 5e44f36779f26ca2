package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attendance represents a single student's attendance mark for a date.
// The key tuple is (student, date, subject, slot, time_slot); students
// without a row for a tuple are treated as unmarked.
type Attendance struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	DivisionID  uint           `gorm:"not null;index:idx_attendance_division_date" json:"division_id"`
	StudentID   uint           `gorm:"not null;index;uniqueIndex:idx_attendance_key" json:"student_id"`
	Date        datatypes.Date `gorm:"not null;index:idx_attendance_division_date;uniqueIndex:idx_attendance_key" json:"date"`
	SubjectID   *uint          `gorm:"uniqueIndex:idx_attendance_key" json:"subject_id,omitempty"`
	SlotID      *uint          `gorm:"uniqueIndex:idx_attendance_key" json:"slot_id,omitempty"`
	TimeSlot    string         `gorm:"type:varchar(50);uniqueIndex:idx_attendance_key" json:"time_slot,omitempty"`
	IsPresent   bool           `gorm:"not null" json:"is_present"`
	Remarks     string         `gorm:"type:varchar(255)" json:"remarks"`
	MarkedBy    uint           `gorm:"index" json:"marked_by"`

	// Relationships
	Student  Student  `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Division Division `gorm:"foreignKey:DivisionID;constraint:OnDelete:CASCADE" json:"-"`
	Marker   User     `gorm:"foreignKey:MarkedBy" json:"-"`
}
