package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// NotificationCategory represents the category of notification
type NotificationCategory string

const (
	NotificationCategoryNotice        NotificationCategory = "notice"
	NotificationCategoryLeave         NotificationCategory = "leave"
	NotificationCategoryPurchaseOrder NotificationCategory = "purchase_order"
	NotificationCategoryGeneral       NotificationCategory = "general"
)

// Notification represents a per-user notification
type Notification struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	DeletedAt gorm.DeletedAt       `gorm:"index" json:"-"`
	UserID    uint                 `gorm:"index;not null" json:"user_id"`
	NoticeID  *uint                `gorm:"index" json:"notice_id,omitempty"` // set for notice fan-out rows
	Type      NotificationType     `gorm:"type:varchar(20);not null" json:"type"`
	Category  NotificationCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title     string               `gorm:"type:varchar(255);not null" json:"title"`
	Message   string               `gorm:"type:text" json:"message"`
	Read      bool                 `gorm:"default:false" json:"read"`
	Metadata  datatypes.JSON       `json:"metadata,omitempty"`

	// Relationships
	User   User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notice *Notice `gorm:"foreignKey:NoticeID;constraint:OnDelete:SET NULL" json:"notice,omitempty"`
}

// NotificationMetadata carries optional structured context on a notification
type NotificationMetadata struct {
	InstituteID   uint   `json:"institute_id,omitempty"`
	NoticeID      uint   `json:"notice_id,omitempty"`
	LeaveID       uint   `json:"leave_id,omitempty"`
	PurchaseOrder uint   `json:"purchase_order_id,omitempty"`
	Audience      string `json:"audience,omitempty"`
}
