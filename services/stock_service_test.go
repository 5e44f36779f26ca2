package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
)

func seedProduct(t *testing.T, db *gorm.DB, instituteID uint, opening float64) model.Product {
	t.Helper()

	product := model.Product{
		InstituteID: instituteID,
		Name:        "A4 Paper",
		Unit:        "ream",
		OpeningQty:  opening,
		ClosingQty:  opening,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func TestAddMovementRecomputesClosing(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	product := seedProduct(t, db, institute.ID, 10)
	svc := NewStockService(db)
	ctx := context.Background()
	day := mustDate(t, "2024-06-01")

	require.NoError(t, svc.AddMovement(ctx, &model.StockLedger{
		ProductID: product.ID, TDate: day, Received: 25,
	}))
	require.NoError(t, svc.AddMovement(ctx, &model.StockLedger{
		ProductID: product.ID, TDate: day, Issued: 8,
	}))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 27.0, reloaded.ClosingQty) // 10 + 25 - 8

	err := svc.AddMovement(ctx, &model.StockLedger{ProductID: 9999, TDate: day, Received: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateMovementRecomputesClosing(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	product := seedProduct(t, db, institute.ID, 0)
	svc := NewStockService(db)
	ctx := context.Background()
	day := mustDate(t, "2024-06-01")

	row := model.StockLedger{ProductID: product.ID, TDate: day, Received: 100}
	require.NoError(t, svc.AddMovement(ctx, &row))

	updated, err := svc.UpdateMovement(ctx, row.ID, UpdateMovementRequest{
		Received: 60,
		Issued:   10,
		Remarks:  "corrected entry",
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.Received)
	assert.Equal(t, "corrected entry", updated.Remarks)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 50.0, reloaded.ClosingQty)
}

func TestDeleteMovementRecomputesClosing(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	product := seedProduct(t, db, institute.ID, 5)
	svc := NewStockService(db)
	ctx := context.Background()
	day := mustDate(t, "2024-06-01")

	keep := model.StockLedger{ProductID: product.ID, TDate: day, Received: 20}
	drop := model.StockLedger{ProductID: product.ID, TDate: day, Issued: 3}
	require.NoError(t, svc.AddMovement(ctx, &keep))
	require.NoError(t, svc.AddMovement(ctx, &drop))

	require.NoError(t, svc.DeleteMovement(ctx, drop.ID))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 25.0, reloaded.ClosingQty)
}

func TestRecalculateClosingQty(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	product := seedProduct(t, db, institute.ID, 12)
	svc := NewStockService(db)
	ctx := context.Background()
	day := mustDate(t, "2024-06-01")

	require.NoError(t, svc.AddMovement(ctx, &model.StockLedger{
		ProductID: product.ID, TDate: day, Received: 8, Issued: 2,
	}))

	// Simulate a drifted closing quantity
	require.NoError(t, db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("closing_qty", 999).Error)

	closing, err := svc.RecalculateClosingQty(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.0, closing)

	// Idempotent once in sync
	closing, err = svc.RecalculateClosingQty(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.0, closing)

	_, err = svc.RecalculateClosingQty(ctx, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
