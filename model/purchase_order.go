package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Purchase order statuses
const (
	PurchaseOrderPending   = "pending"
	PurchaseOrderApproved  = "approved"
	PurchaseOrderRejected  = "rejected"
	PurchaseOrderCompleted = "completed"
)

// PurchaseOrder represents a purchase order raised by an institute
type PurchaseOrder struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	InstituteID  uint            `gorm:"not null;index" json:"institute_id"`
	OrderNo      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_no"`
	OrderDate    datatypes.Date  `gorm:"not null" json:"order_date"`
	VendorName   string          `gorm:"not null" json:"vendor_name"`
	VendorEmail  string          `gorm:"type:varchar(255)" json:"vendor_email"`
	VendorPhone  string          `gorm:"type:varchar(20)" json:"vendor_phone"`
	Status       string          `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Total        decimal.Decimal `gorm:"type:decimal(20,2)" json:"total"`
	ApprovedBy   *uint           `gorm:"index" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	StatusRemark string          `gorm:"type:varchar(255)" json:"status_remark"`

	// Relationships
	Institute Institute           `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	Approver  *User               `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	Items     []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// PurchaseOrderItem is a single line item on a purchase order
type PurchaseOrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PurchaseOrderID uint            `gorm:"not null;index" json:"purchase_order_id"`
	Description     string          `gorm:"not null" json:"description"`
	Quantity        float64         `gorm:"not null" json:"quantity"`
	Unit            string          `gorm:"type:varchar(20)" json:"unit"`
	Rate            decimal.Decimal `gorm:"type:decimal(20,2)" json:"rate"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
}
