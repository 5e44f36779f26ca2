package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SanmishaTech/jssp-sub003/model"
)

var (
	// ErrLedgerNotFound is returned for an unknown ledger id
	ErrLedgerNotFound = errors.New("ledger not found")
	// ErrInsufficientBalance is returned when a debit exceeds the available balance
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAmountNotPositive is returned for zero or negative amounts
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	// ErrAmountTooLarge is returned when an amount exceeds the sanity ceiling
	ErrAmountTooLarge = errors.New("amount exceeds the maximum allowed per transaction")
	// ErrConcurrentUpdate is returned when the optimistic version check fails
	ErrConcurrentUpdate = errors.New("ledger was modified concurrently, retry the request")
)

// MaxTransactionAmount is the sanity ceiling for a single transaction
var MaxTransactionAmount = decimal.NewFromInt(10_000_000)

// LedgerService records transactions against cash ledgers and maintains
// their running balances.
type LedgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new ledger service
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// RecordTransactionRequest is the input for recording one ledger movement
type RecordTransactionRequest struct {
	LedgerID    uint
	Amount      decimal.Decimal
	Type        model.TransactionType
	Description string
	Date        datatypes.Date
	CreatedBy   uint
}

// lockForUpdate adds a row-level lock to the query. SQLite (used by tests)
// serializes writes on its own and rejects FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// RecordTransaction atomically appends a transaction to a ledger and updates
// the ledger's running totals. The ledger row is locked for the duration of
// the database transaction so two simultaneous debits cannot both pass the
// insufficient-balance check; an optimistic version bump guards the write as
// a second line of defense. On any failure neither row is persisted.
func (s *LedgerService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*model.LedgerTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if req.Amount.GreaterThan(MaxTransactionAmount) {
		return nil, ErrAmountTooLarge
	}
	if req.Type != model.TransactionCredit && req.Type != model.TransactionDebit {
		return nil, fmt.Errorf("unknown transaction type %q", req.Type)
	}

	var created model.LedgerTransaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ledger model.Ledger
		if err := lockForUpdate(tx).First(&ledger, req.LedgerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLedgerNotFound
			}
			return err
		}

		switch req.Type {
		case model.TransactionDebit:
			if req.Amount.GreaterThan(ledger.AvailableBalance()) {
				return ErrInsufficientBalance
			}
			ledger.TotalSpend = ledger.TotalSpend.Add(req.Amount)
		case model.TransactionCredit:
			ledger.TotalAmount = ledger.TotalAmount.Add(req.Amount)
		}

		balanceAfter := ledger.AvailableBalance()

		// Optimistic version check on top of the row lock
		res := tx.Model(&model.Ledger{}).
			Where("id = ? AND version = ?", ledger.ID, ledger.Version).
			Updates(map[string]interface{}{
				"total_amount": ledger.TotalAmount,
				"total_spend":  ledger.TotalSpend,
				"version":      ledger.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		created = model.LedgerTransaction{
			LedgerID:        ledger.ID,
			Amount:          req.Amount,
			Type:            req.Type,
			Description:     req.Description,
			TransactionDate: req.Date,
			BalanceAfter:    balanceAfter,
			CreatedBy:       req.CreatedBy,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// ListTransactionsOptions filters the transaction history of a ledger
type ListTransactionsOptions struct {
	LedgerID uint
	Type     string // "", "credit" or "debit"
	Date     string // "YYYY-MM-DD", empty for all
	Page     int
	Limit    int
}

// ListTransactions returns a page of a ledger's transaction history, newest
// first, together with the total row count for pagination.
func (s *LedgerService) ListTransactions(ctx context.Context, opts ListTransactionsOptions) ([]model.LedgerTransaction, int64, error) {
	// Fail 404-style for unknown ledgers rather than returning an empty page
	var ledger model.Ledger
	if err := s.db.WithContext(ctx).First(&ledger, opts.LedgerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrLedgerNotFound
		}
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&model.LedgerTransaction{}).
		Where("ledger_id = ?", opts.LedgerID)

	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
	if opts.Date != "" {
		query = query.Where("transaction_date = ?", opts.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	var transactions []model.LedgerTransaction
	err := query.Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}
