package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Committee represents an institute committee (anti-ragging, library, etc.)
type Committee struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	Name        string         `gorm:"not null" json:"name"`
	Purpose     string         `gorm:"type:text" json:"purpose"`
	FormedOn    datatypes.Date `json:"formed_on"`

	// Relationships
	Institute Institute         `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	Members   []CommitteeMember `gorm:"foreignKey:CommitteeID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// CommitteeMember links a staff member to a committee with a role
type CommitteeMember struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CommitteeID uint           `gorm:"not null;uniqueIndex:idx_committee_member" json:"committee_id"`
	StaffID     uint           `gorm:"not null;uniqueIndex:idx_committee_member" json:"staff_id"`
	Role        string         `gorm:"type:varchar(50);default:'member'" json:"role"` // chairperson, secretary, member

	// Relationships
	Committee Committee `gorm:"foreignKey:CommitteeID;constraint:OnDelete:CASCADE" json:"-"`
	Staff     Staff     `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"staff,omitempty"`
}
