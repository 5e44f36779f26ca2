package services

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
)

// ErrProductNotFound is returned for an unknown product id
var ErrProductNotFound = errors.New("product not found")

// StockService maintains the derived closing quantity of products from
// their stock ledger history.
type StockService struct {
	db *gorm.DB
}

// NewStockService creates a new stock service
func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// recalculate recomputes closing_qty = opening_qty + sum(received) - sum(issued)
// over the product's full ledger history and persists it. Runs inside the
// caller's transaction; the product row must already be locked.
func (s *StockService) recalculate(tx *gorm.DB, product *model.Product) error {
	var rows []model.StockLedger
	if err := tx.Where("product_id = ?", product.ID).Find(&rows).Error; err != nil {
		return err
	}

	closing := product.OpeningQty
	for _, row := range rows {
		closing += row.Received - row.Issued
	}

	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("closing_qty", closing).Error
}

// RecalculateClosingQty recomputes and persists a product's closing quantity
// in its own transaction. Used by the nightly reconciliation sweep and
// exposed for explicit recalculation requests.
func (s *StockService) RecalculateClosingQty(ctx context.Context, productID uint) (float64, error) {
	var closing float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := lockForUpdate(tx).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if err := s.recalculate(tx, &product); err != nil {
			return err
		}

		var updated model.Product
		if err := tx.First(&updated, productID).Error; err != nil {
			return err
		}
		closing = updated.ClosingQty
		return nil
	})
	if err != nil {
		return 0, err
	}
	return closing, nil
}

// AddMovement inserts a stock ledger row and recomputes the product's
// closing quantity in the same transaction.
func (s *StockService) AddMovement(ctx context.Context, row *model.StockLedger) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := lockForUpdate(tx).First(&product, row.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if err := tx.Create(row).Error; err != nil {
			return err
		}

		return s.recalculate(tx, &product)
	})
}

// UpdateMovementRequest carries the mutable fields of a stock ledger row
type UpdateMovementRequest struct {
	TDate    *datatypes.Date
	Received float64
	Issued   float64
	Remarks  string
}

// UpdateMovement mutates an existing stock ledger row and recomputes the
// product's closing quantity in the same transaction.
func (s *StockService) UpdateMovement(ctx context.Context, rowID uint, req UpdateMovementRequest) (*model.StockLedger, error) {
	var row model.StockLedger
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, rowID).Error; err != nil {
			return err
		}

		var product model.Product
		if err := lockForUpdate(tx).First(&product, row.ProductID).Error; err != nil {
			return err
		}

		row.Received = req.Received
		row.Issued = req.Issued
		row.Remarks = req.Remarks
		if req.TDate != nil {
			row.TDate = *req.TDate
		}
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		return s.recalculate(tx, &product)
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteMovement removes a stock ledger row and recomputes the product's
// closing quantity in the same transaction.
func (s *StockService) DeleteMovement(ctx context.Context, rowID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.StockLedger
		if err := tx.First(&row, rowID).Error; err != nil {
			return err
		}

		var product model.Product
		if err := lockForUpdate(tx).First(&product, row.ProductID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&row).Error; err != nil {
			return err
		}

		return s.recalculate(tx, &product)
	})
}
