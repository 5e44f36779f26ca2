package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product represents a stock-tracked item. ClosingQty is derived:
// opening quantity plus all received minus all issued ledger rows.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	InstituteID uint           `gorm:"not null;index" json:"institute_id"`
	Name        string         `gorm:"not null" json:"name"`
	Unit        string         `gorm:"type:varchar(20)" json:"unit"` // pcs, kg, box
	OpeningQty  float64        `gorm:"not null;default:0" json:"opening_qty"`
	ClosingQty  float64        `gorm:"not null;default:0" json:"closing_qty"`

	// Relationships
	Institute  Institute     `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	LedgerRows []StockLedger `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// StockLedger records one stock movement for a product on a date
type StockLedger struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	TDate     datatypes.Date `gorm:"column:t_date;not null;index" json:"t_date"`
	Received  float64        `gorm:"not null;default:0" json:"received"`
	Issued    float64        `gorm:"not null;default:0" json:"issued"`
	Remarks   string         `gorm:"type:varchar(255)" json:"remarks"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for StockLedger
func (StockLedger) TableName() string {
	return "stock_ledgers"
}
