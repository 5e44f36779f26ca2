package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/SanmishaTech/jssp-sub003/model"
)

func recordTx(t *testing.T, svc *LedgerService, ledgerID uint, amount string, txType model.TransactionType, date datatypes.Date) (*model.LedgerTransaction, error) {
	t.Helper()
	return svc.RecordTransaction(context.Background(), RecordTransactionRequest{
		LedgerID:    ledgerID,
		Amount:      mustDecimal(t, amount),
		Type:        txType,
		Description: "test transaction",
		Date:        date,
		CreatedBy:   1,
	})
}

func TestRecordTransactionRunningBalance(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	ledger := seedLedger(t, db, institute.ID, model.LedgerKindBank, "100.00")
	svc := NewLedgerService(db)
	day := mustDate(t, "2024-03-01")

	steps := []struct {
		amount  string
		txType  model.TransactionType
		balance string
	}{
		{"250.00", model.TransactionCredit, "350.00"},
		{"50.00", model.TransactionDebit, "300.00"},
		{"0.01", model.TransactionCredit, "300.01"},
		{"300.00", model.TransactionDebit, "0.01"},
	}

	for _, step := range steps {
		tx, err := recordTx(t, svc, ledger.ID, step.amount, step.txType, day)
		require.NoError(t, err)
		assert.True(t, tx.BalanceAfter.Equal(mustDecimal(t, step.balance)),
			"expected balance_after %s, got %s", step.balance, tx.BalanceAfter)
	}

	var reloaded model.Ledger
	require.NoError(t, db.First(&reloaded, ledger.ID).Error)
	assert.True(t, reloaded.AvailableBalance().Equal(mustDecimal(t, "0.01")))
	assert.True(t, reloaded.TotalAmount.Equal(mustDecimal(t, "350.01")))
	assert.True(t, reloaded.TotalSpend.Equal(mustDecimal(t, "350.00")))
	assert.Equal(t, int64(len(steps)), reloaded.Version)
}

func TestRecordTransactionOverDebitIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	ledger := seedLedger(t, db, institute.ID, model.LedgerKindPeticash, "500.00")
	svc := NewLedgerService(db)

	_, err := recordTx(t, svc, ledger.ID, "500.01", model.TransactionDebit, mustDate(t, "2024-03-01"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Neither the ledger row nor the transaction history may change
	var reloaded model.Ledger
	require.NoError(t, db.First(&reloaded, ledger.ID).Error)
	assert.True(t, reloaded.TotalAmount.Equal(mustDecimal(t, "500.00")))
	assert.True(t, reloaded.TotalSpend.IsZero())
	assert.Equal(t, int64(0), reloaded.Version)

	var count int64
	require.NoError(t, db.Model(&model.LedgerTransaction{}).Where("ledger_id = ?", ledger.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRecordTransactionExactBalanceDebit(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	ledger := seedLedger(t, db, institute.ID, model.LedgerKindBank, "750.00")
	svc := NewLedgerService(db)

	tx, err := recordTx(t, svc, ledger.ID, "750.00", model.TransactionDebit, mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.True(t, tx.BalanceAfter.IsZero())

	var reloaded model.Ledger
	require.NoError(t, db.First(&reloaded, ledger.ID).Error)
	assert.True(t, reloaded.AvailableBalance().IsZero())
}

func TestRecordTransactionValidation(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	ledger := seedLedger(t, db, institute.ID, model.LedgerKindBank, "100.00")
	svc := NewLedgerService(db)
	day := mustDate(t, "2024-03-01")

	_, err := recordTx(t, svc, ledger.ID, "0", model.TransactionCredit, day)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = recordTx(t, svc, ledger.ID, "-5.00", model.TransactionDebit, day)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = recordTx(t, svc, ledger.ID, "10000000.01", model.TransactionCredit, day)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	_, err = recordTx(t, svc, ledger.ID, "10.00", model.TransactionType("transfer"), day)
	assert.Error(t, err)
}

func TestRecordTransactionUnknownLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	_, err := recordTx(t, svc, 9999, "10.00", model.TransactionCredit, mustDate(t, "2024-03-01"))
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}

// Walks a peticash ledger through a realistic month: opening 1000, a
// 500 top-up, an over-draw that must bounce, then a full spend-down.
func TestPeticashSpendDown(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	ledger := seedLedger(t, db, institute.ID, model.LedgerKindPeticash, "1000.00")
	svc := NewLedgerService(db)
	day := mustDate(t, "2024-04-10")

	tx, err := recordTx(t, svc, ledger.ID, "500.00", model.TransactionCredit, day)
	require.NoError(t, err)
	assert.True(t, tx.BalanceAfter.Equal(mustDecimal(t, "1500.00")))

	_, err = recordTx(t, svc, ledger.ID, "1800.00", model.TransactionDebit, day)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	tx, err = recordTx(t, svc, ledger.ID, "1500.00", model.TransactionDebit, day)
	require.NoError(t, err)
	assert.True(t, tx.BalanceAfter.IsZero())

	var history []model.LedgerTransaction
	require.NoError(t, db.Where("ledger_id = ?", ledger.ID).Order("id ASC").Find(&history).Error)
	require.Len(t, history, 2) // the rejected debit left no row
	assert.Equal(t, model.TransactionCredit, history[0].Type)
	assert.Equal(t, model.TransactionDebit, history[1].Type)
}

func TestListTransactions(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	ledger := seedLedger(t, db, institute.ID, model.LedgerKindBank, "10000.00")
	svc := NewLedgerService(db)
	day := mustDate(t, "2024-05-01")

	for i := 0; i < 3; i++ {
		_, err := recordTx(t, svc, ledger.ID, "100.00", model.TransactionCredit, day)
		require.NoError(t, err)
	}
	_, err := recordTx(t, svc, ledger.ID, "40.00", model.TransactionDebit, day)
	require.NoError(t, err)

	all, total, err := svc.ListTransactions(context.Background(), ListTransactionsOptions{LedgerID: ledger.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, all, 4)
	// Newest first
	assert.Equal(t, model.TransactionDebit, all[0].Type)

	credits, total, err := svc.ListTransactions(context.Background(), ListTransactionsOptions{
		LedgerID: ledger.ID,
		Type:     "credit",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, credits, 3)

	page2, total, err := svc.ListTransactions(context.Background(), ListTransactionsOptions{
		LedgerID: ledger.ID,
		Page:     2,
		Limit:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page2, 1)

	_, _, err = svc.ListTransactions(context.Background(), ListTransactionsOptions{LedgerID: 9999})
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}
