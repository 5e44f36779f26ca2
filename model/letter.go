package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Letter kinds
const (
	LetterInward  = "inward"
	LetterOutward = "outward"
)

// Letter represents an entry in the inward/outward letter register,
// with the scanned document stored in object storage under FileKey.
type Letter struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	Kind        string         `gorm:"type:varchar(10);not null;index" json:"kind"` // inward, outward
	ReferenceNo string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference_no"`
	Subject     string         `gorm:"not null" json:"subject"`
	Sender      string         `gorm:"type:varchar(255)" json:"sender"`
	Recipient   string         `gorm:"type:varchar(255)" json:"recipient"`
	LetterDate  datatypes.Date `gorm:"not null" json:"letter_date"`
	FileKey     string         `gorm:"type:varchar(255)" json:"file_key,omitempty"`
	UploadedBy  uint           `gorm:"index" json:"uploaded_by"`

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	Uploader  User      `gorm:"foreignKey:UploadedBy" json:"-"`
}
