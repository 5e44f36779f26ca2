package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerKind discriminates the two structurally identical cash ledgers
type LedgerKind string

const (
	LedgerKindBank     LedgerKind = "bank"
	LedgerKindPeticash LedgerKind = "peticash"
)

// Transaction types
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Ledger is an aggregate entity tracking a running monetary balance for an
// institute. TotalSpend is the sum of all debit transactions; the available
// balance is TotalAmount minus TotalSpend.
type Ledger struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	InstituteID uint            `gorm:"not null;index" json:"institute_id"`
	Kind        LedgerKind      `gorm:"type:varchar(20);not null;index" json:"kind"`
	Name        string          `gorm:"not null" json:"name"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_amount"`
	TotalSpend  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_spend"`
	Note        string          `gorm:"type:varchar(255)" json:"note"`
	NoteAmount  decimal.Decimal `gorm:"type:decimal(20,2)" json:"note_amount"`
	Version     int64           `gorm:"not null;default:0" json:"-"` // optimistic concurrency token

	// Relationships
	Institute    Institute           `gorm:"foreignKey:InstituteID;constraint:OnDelete:CASCADE" json:"-"`
	Transactions []LedgerTransaction `gorm:"foreignKey:LedgerID;constraint:OnDelete:CASCADE" json:"-"`
}

// AvailableBalance returns the balance currently spendable on the ledger
func (l *Ledger) AvailableBalance() decimal.Decimal {
	return l.TotalAmount.Sub(l.TotalSpend)
}

// LedgerTransaction is an immutable movement on a ledger. BalanceAfter is
// the ledger's available balance immediately after this transaction was
// recorded; rows are never updated or deleted once written.
type LedgerTransaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	LedgerID        uint            `gorm:"not null;index" json:"ledger_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Type            TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	Description     string          `gorm:"not null" json:"description"`
	TransactionDate datatypes.Date  `gorm:"not null;index" json:"transaction_date"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance_after"`
	CreatedBy       uint            `gorm:"index" json:"created_by"`

	// Relationships
	Ledger  Ledger `gorm:"foreignKey:LedgerID;constraint:OnDelete:CASCADE" json:"-"`
	Creator User   `gorm:"foreignKey:CreatedBy" json:"-"`
}
