package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Leave statuses
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Leave represents a staff leave application
type Leave struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	StaffID     uint           `gorm:"not null;index" json:"staff_id"`
	LeaveType   string         `gorm:"type:varchar(30);not null" json:"leave_type"` // casual, medical, earned
	FromDate    datatypes.Date `gorm:"not null" json:"from_date"`
	ToDate      datatypes.Date `gorm:"not null" json:"to_date"`
	Reason      string         `gorm:"type:text" json:"reason"`
	Status      string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ApprovedBy  *uint          `gorm:"index" json:"approved_by,omitempty"`
	ApprovedAt  *time.Time     `json:"approved_at,omitempty"`
	Remark      string         `gorm:"type:varchar(255)" json:"remark"`

	// Relationships
	Institute Institute `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	Staff     Staff     `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"staff,omitempty"`
	Approver  *User     `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}
