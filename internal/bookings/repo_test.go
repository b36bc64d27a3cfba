package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
)

func setupBookingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  transaction_id TEXT NOT NULL,
  total_paise INTEGER NOT NULL,
  delivery_address TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	bookingLines := `
CREATE TABLE IF NOT EXISTS booking_lines (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL,
  stock_item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_paise INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_paise INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(bookings).Error)
	require.NoError(t, db.Exec(bookingLines).Error)
	return db
}

func seedBooking(t *testing.T, repo Repository, partnerID, transactionID uuid.UUID) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		PartnerID:     partnerID,
		TransactionID: transactionID,
		TotalPaise:    30_000,
		Status:        enums.BookingStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		Lines: []models.BookingLine{
			{
				StockItemID:    uuid.New(),
				Name:           "Keratin Treatment Kit",
				UnitPricePaise: 15_000,
				Quantity:       2,
				LineTotalPaise: 30_000,
			},
		},
	}
	require.NoError(t, repo.Create(context.Background(), booking))
	return booking
}

func TestCreateAssignsIDsAndLinksLines(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewRepository(db)

	booking := seedBooking(t, repo, uuid.New(), uuid.New())
	assert.NotEqual(t, uuid.Nil, booking.ID)
	require.Len(t, booking.Lines, 1)
	assert.NotEqual(t, uuid.Nil, booking.Lines[0].ID)
	assert.Equal(t, booking.ID, booking.Lines[0].BookingID)

	found, err := repo.FindByID(context.Background(), booking.PartnerID, booking.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, int64(30_000), found.TotalPaise)
}

func TestFindByIDScopedToPartner(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewRepository(db)

	booking := seedBooking(t, repo, uuid.New(), uuid.New())

	_, err := repo.FindByID(context.Background(), uuid.New(), booking.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSettleByTransactionIDCompleted(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	transactionID := uuid.New()
	booking := seedBooking(t, repo, uuid.New(), transactionID)

	require.NoError(t, repo.SettleByTransactionID(ctx, nil, transactionID, enums.TransactionStatusCompleted))

	found, err := repo.FindByID(ctx, booking.PartnerID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, found.PaymentStatus)
	assert.Equal(t, enums.BookingStatusPending, found.Status)
}

func TestSettleByTransactionIDFailedFailsBooking(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	transactionID := uuid.New()
	booking := seedBooking(t, repo, uuid.New(), transactionID)

	require.NoError(t, repo.SettleByTransactionID(ctx, nil, transactionID, enums.TransactionStatusFailed))

	found, err := repo.FindByID(ctx, booking.PartnerID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, found.PaymentStatus)
	assert.Equal(t, enums.BookingStatusFailed, found.Status)
}

func TestListByPartnerNewestFirst(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	partnerID := uuid.New()
	seedBooking(t, repo, partnerID, uuid.New())
	seedBooking(t, repo, partnerID, uuid.New())
	seedBooking(t, repo, uuid.New(), uuid.New())

	rows, err := repo.ListByPartner(ctx, partnerID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
