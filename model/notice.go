package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notice audiences
const (
	NoticeAudienceAll      = "all"
	NoticeAudienceStaff    = "staff"
	NoticeAudienceStudents = "students"
)

// Notice represents an institute notice; creating one fans out a
// Notification row to every user in the target audience.
type Notice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID   uint           `gorm:"not null;index" json:"institute_id"`
	Title         string         `gorm:"not null" json:"title"`
	Body          string         `gorm:"type:text" json:"body"`
	NoticeDate    datatypes.Date `gorm:"not null;index" json:"notice_date"`
	Audience      string         `gorm:"type:varchar(20);default:'all'" json:"audience"` // all, staff, students
	AttachmentKey string         `gorm:"type:varchar(255)" json:"attachment_key,omitempty"`
	CreatedBy     uint           `gorm:"index" json:"created_by"`

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	Creator   User      `gorm:"foreignKey:CreatedBy" json:"-"`
}
