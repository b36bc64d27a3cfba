package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount_paise INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_mode TEXT NOT NULL,
  gateway_ref TEXT,
  finalized_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func seedTransaction(t *testing.T, repo Repository, partnerID uuid.UUID, txnType enums.TransactionType, status enums.TransactionStatus, createdAt time.Time) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		PartnerID:   partnerID,
		Type:        txnType,
		AmountPaise: 10_000,
		Status:      status,
		PaymentMode: enums.PaymentModeRazorpay,
		CreatedAt:   createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), txn))
	return txn
}

func TestCreateAssignsID(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	txn := seedTransaction(t, repo, uuid.New(), enums.TransactionTypeRechargeWallet, enums.TransactionStatusPending, time.Now().UTC())
	assert.NotEqual(t, uuid.Nil, txn.ID)

	found, err := repo.FindByID(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.PartnerID, found.PartnerID)
	assert.Equal(t, enums.TransactionStatusPending, found.Status)
}

func TestCompareAndSwapStatusWinsOnce(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	txn := seedTransaction(t, repo, uuid.New(), enums.TransactionTypeRechargeWallet, enums.TransactionStatusPending, time.Now().UTC())

	finalizedAt := time.Now().UTC()
	swapped, err := repo.CompareAndSwapStatus(ctx, txn.ID, enums.TransactionStatusCompleted, nil, finalizedAt)
	require.NoError(t, err)
	assert.True(t, swapped)

	// A duplicate delivery loses the swap and must not flip the status again.
	swapped, err = repo.CompareAndSwapStatus(ctx, txn.ID, enums.TransactionStatusFailed, nil, finalizedAt)
	require.NoError(t, err)
	assert.False(t, swapped)

	found, err := repo.FindByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionStatusCompleted, found.Status)
	require.NotNil(t, found.FinalizedAt)
}

func TestCompareAndSwapStatusStoresGatewayRef(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	txn := seedTransaction(t, repo, uuid.New(), enums.TransactionTypeStockBooking, enums.TransactionStatusPending, time.Now().UTC())

	ref := "pay_9f2c"
	swapped, err := repo.CompareAndSwapStatus(ctx, txn.ID, enums.TransactionStatusCompleted, &ref, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, swapped)

	found, err := repo.FindByID(ctx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, found.GatewayRef)
	assert.Equal(t, ref, *found.GatewayRef)
}

func TestCompareAndSwapStatusMissingRow(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	swapped, err := repo.CompareAndSwapStatus(context.Background(), uuid.New(), enums.TransactionStatusCompleted, nil, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, swapped)
}

func TestListFiltersByTypeAndStatus(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	partnerID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	seedTransaction(t, repo, partnerID, enums.TransactionTypeRechargeWallet, enums.TransactionStatusCompleted, base)
	seedTransaction(t, repo, partnerID, enums.TransactionTypeStockBooking, enums.TransactionStatusPending, base.Add(time.Minute))
	seedTransaction(t, repo, partnerID, enums.TransactionTypeStockBooking, enums.TransactionStatusCompleted, base.Add(2*time.Minute))
	seedTransaction(t, repo, uuid.New(), enums.TransactionTypeStockBooking, enums.TransactionStatusCompleted, base.Add(3*time.Minute))

	rows, cursor, err := repo.List(ctx, ListTransactionsParams{
		PartnerID: partnerID,
		Types:     []enums.TransactionType{enums.TransactionTypeStockBooking},
		Statuses:  []enums.TransactionStatus{enums.TransactionStatusCompleted},
	})
	require.NoError(t, err)
	assert.Nil(t, cursor)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.TransactionTypeStockBooking, rows[0].Type)
	assert.Equal(t, enums.TransactionStatusCompleted, rows[0].Status)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	partnerID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedTransaction(t, repo, partnerID, enums.TransactionTypeRechargeWallet, enums.TransactionStatusCompleted, base.Add(time.Duration(i)*time.Minute))
	}

	first, cursor, err := repo.List(ctx, ListTransactionsParams{PartnerID: partnerID, Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, cursor)
	assert.True(t, first[0].CreatedAt.After(first[2].CreatedAt))

	second, next, err := repo.List(ctx, ListTransactionsParams{PartnerID: partnerID, Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, second, 2)
	assert.True(t, first[2].CreatedAt.After(second[0].CreatedAt) || first[2].CreatedAt.Equal(second[0].CreatedAt))
}
