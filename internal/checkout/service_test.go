package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/glambook/glambook-backend/internal/bookings"
	"github.com/glambook/glambook-backend/internal/cart"
	"github.com/glambook/glambook-backend/internal/ledger"
	"github.com/glambook/glambook-backend/internal/partners"
	"github.com/glambook/glambook-backend/internal/stock"
	"github.com/glambook/glambook-backend/internal/wallet"
	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS partners (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  email TEXT,
  address TEXT NOT NULL DEFAULT '',
  wallet_balance_paise INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  push_token TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stock_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  mrp_paise INTEGER NOT NULL,
  current_stock INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS transactions (
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
);`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  stock_item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (partner_id, stock_item_id)
);`,
		`CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  transaction_id TEXT NOT NULL,
  total_paise INTEGER NOT NULL,
  delivery_address TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS booking_lines (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL,
  stock_item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_paise INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_paise INTEGER NOT NULL,
  created_at DATETIME
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, partnerID uuid.UUID, kind enums.NotificationType, title, message string) {
}

type checkoutFixture struct {
	db       *gorm.DB
	cart     cart.Repository
	bookings bookings.Repository
	balances wallet.BalanceRepository
}

func newCheckoutService(t *testing.T, db *gorm.DB, override func(p *ServiceParams)) (Service, *checkoutFixture) {
	t.Helper()

	fixture := &checkoutFixture{
		db:       db,
		cart:     cart.NewRepository(db),
		bookings: bookings.NewRepository(db),
		balances: wallet.NewBalanceRepository(db),
	}

	ledgerSvc, err := ledger.NewService(ledger.ServiceParams{
		Tx:       gormTxRunner{db: db},
		Repo:     ledger.NewRepository(db),
		Partners: partners.NewRepository(db),
		Balances: fixture.balances,
		Bookings: fixture.bookings,
		Notifier: noopNotifier{},
	})
	require.NoError(t, err)

	params := ServiceParams{
		Tx:       gormTxRunner{db: db},
		Cart:     fixture.cart,
		Partners: partners.NewRepository(db),
		Stock:    stock.NewRepository(db),
		Balances: fixture.balances,
		Ledger:   ledgerSvc,
		Bookings: fixture.bookings,
		Notifier: noopNotifier{},
	}
	if override != nil {
		override(&params)
	}

	svc, err := NewService(params)
	require.NoError(t, err)
	return svc, fixture
}

func seedPartner(t *testing.T, db *gorm.DB, balancePaise int64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO partners (id, name, phone, address, wallet_balance_paise, status) VALUES (?, ?, ?, ?, ?, 'active')`,
		id, "Salon One", "9000000001", "12 MG Road, Pune", balancePaise,
	).Error)
	return id
}

func seedStockItem(t *testing.T, db *gorm.DB, name string, mrpPaise int64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO stock_items (id, name, mrp_paise, current_stock, status) VALUES (?, ?, ?, 100, 'active')`,
		id, name, mrpPaise,
	).Error)
	return id
}

func partnerBalance(t *testing.T, db *gorm.DB, partnerID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	require.NoError(t, db.Table("partners").Where("id = ?", partnerID).
		Select("wallet_balance_paise").Scan(&balance).Error)
	return balance
}

func TestExecuteWalletCheckout(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, fixture := newCheckoutService(t, db, nil)
	ctx := context.Background()

	partnerID := seedPartner(t, db, 100000)
	shampoo := seedStockItem(t, db, "Shampoo", 25000)
	serum := seedStockItem(t, db, "Serum", 10000)

	_, err := fixture.cart.AddItem(ctx, partnerID, shampoo)
	require.NoError(t, err)
	_, err = fixture.cart.AddItem(ctx, partnerID, shampoo)
	require.NoError(t, err)
	_, err = fixture.cart.AddItem(ctx, partnerID, serum)
	require.NoError(t, err)

	result, err := svc.Execute(ctx, CheckoutInput{
		PartnerID:   partnerID,
		PaymentMode: enums.PaymentModeWallet,
	})
	require.NoError(t, err)

	// 2 x 25000 + 1 x 10000
	assert.Equal(t, int64(60000), result.Booking.TotalPaise)
	assert.Equal(t, enums.PaymentStatusCompleted, result.Booking.PaymentStatus)
	assert.Equal(t, enums.TransactionTypeStockWalletBooking, result.Transaction.Type)
	assert.Equal(t, enums.TransactionStatusCompleted, result.Transaction.Status)
	assert.Equal(t, int64(40000), partnerBalance(t, db, partnerID))

	lines, err := fixture.cart.ListByPartner(ctx, partnerID)
	require.NoError(t, err)
	assert.Empty(t, lines, "cart must be cleared after checkout")

	booking, err := fixture.bookings.FindByID(ctx, partnerID, result.Booking.ID)
	require.NoError(t, err)
	assert.Len(t, booking.Lines, 2)
}

func TestExecuteDefaultsToPartnerAddress(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, fixture := newCheckoutService(t, db, nil)
	ctx := context.Background()

	partnerID := seedPartner(t, db, 100000)
	item := seedStockItem(t, db, "Hair Mask", 20000)
	_, err := fixture.cart.AddItem(ctx, partnerID, item)
	require.NoError(t, err)

	result, err := svc.Execute(ctx, CheckoutInput{
		PartnerID:   partnerID,
		PaymentMode: enums.PaymentModeWallet,
	})
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road, Pune", result.Booking.DeliveryAddress)
}

func TestExecuteRequestAddressWins(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, fixture := newCheckoutService(t, db, nil)
	ctx := context.Background()

	partnerID := seedPartner(t, db, 100000)
	item := seedStockItem(t, db, "Hair Mask", 20000)
	_, err := fixture.cart.AddItem(ctx, partnerID, item)
	require.NoError(t, err)

	result, err := svc.Execute(ctx, CheckoutInput{
		PartnerID:       partnerID,
		PaymentMode:     enums.PaymentModeWallet,
		DeliveryAddress: "Unit 4, Baner",
	})
	require.NoError(t, err)
	assert.Equal(t, "Unit 4, Baner", result.Booking.DeliveryAddress)
}

func TestExecuteGatewayCheckoutOpensPending(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, fixture := newCheckoutService(t, db, nil)
	ctx := context.Background()

	partnerID := seedPartner(t, db, 0)
	item := seedStockItem(t, db, "Conditioner", 30000)
	_, err := fixture.cart.AddItem(ctx, partnerID, item)
	require.NoError(t, err)

	ref := "order_xyz"
	result, err := svc.Execute(ctx, CheckoutInput{
		PartnerID:   partnerID,
		PaymentMode: enums.PaymentModeRazorpay,
		GatewayRef:  &ref,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.TransactionStatusPending, result.Transaction.Status)
	assert.Equal(t, enums.TransactionTypeStockBooking, result.Transaction.Type)
	assert.Equal(t, enums.PaymentStatusPending, result.Booking.PaymentStatus)
	// Gateway mode never touches the wallet.
	assert.Equal(t, int64(0), partnerBalance(t, db, partnerID))
}

func TestExecuteInsufficientBalance(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, fixture := newCheckoutService(t, db, nil)
	ctx := context.Background()

	partnerID := seedPartner(t, db, 5000)
	item := seedStockItem(t, db, "Hair Oil", 30000)
	_, err := fixture.cart.AddItem(ctx, partnerID, item)
	require.NoError(t, err)

	_, err = svc.Execute(ctx, CheckoutInput{
		PartnerID:   partnerID,
		PaymentMode: enums.PaymentModeWallet,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientFunds), "got %v", err)

	assert.Equal(t, int64(5000), partnerBalance(t, db, partnerID))

	lines, err := fixture.cart.ListByPartner(ctx, partnerID)
	require.NoError(t, err)
	assert.Len(t, lines, 1, "failed checkout must keep the cart")

	var txnCount int64
	require.NoError(t, db.Table("transactions").Count(&txnCount).Error)
	assert.Equal(t, int64(0), txnCount, "failed checkout must not write ledger entries")
}

func TestExecuteEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := newCheckoutService(t, db, nil)

	_, err := svc.Execute(context.Background(), CheckoutInput{
		PartnerID:   seedPartner(t, db, 100000),
		PaymentMode: enums.PaymentModeWallet,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestExecuteRollsBackDebitWhenBookingFails(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, fixture := newCheckoutService(t, db, func(p *ServiceParams) {
		p.Bookings = failingBookingsRepo{inner: p.Bookings}
	})
	ctx := context.Background()

	partnerID := seedPartner(t, db, 100000)
	item := seedStockItem(t, db, "Face Pack", 20000)
	_, err := fixture.cart.AddItem(ctx, partnerID, item)
	require.NoError(t, err)

	_, err = svc.Execute(ctx, CheckoutInput{
		PartnerID:   partnerID,
		PaymentMode: enums.PaymentModeWallet,
	})
	require.Error(t, err)

	assert.Equal(t, int64(100000), partnerBalance(t, db, partnerID), "debit must roll back with the booking")

	var txnCount int64
	require.NoError(t, db.Table("transactions").Count(&txnCount).Error)
	assert.Equal(t, int64(0), txnCount)

	lines, err := fixture.cart.ListByPartner(ctx, partnerID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestExecuteInactiveStockItem(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, fixture := newCheckoutService(t, db, nil)
	ctx := context.Background()

	partnerID := seedPartner(t, db, 100000)
	item := seedStockItem(t, db, "Discontinued", 20000)
	_, err := fixture.cart.AddItem(ctx, partnerID, item)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`UPDATE stock_items SET status = 'inactive' WHERE id = ?`, item).Error)

	_, err = svc.Execute(ctx, CheckoutInput{
		PartnerID:   partnerID,
		PaymentMode: enums.PaymentModeWallet,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)
	assert.Equal(t, int64(100000), partnerBalance(t, db, partnerID))
}

func TestExecuteGatewayModeRequiresReference(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := newCheckoutService(t, db, nil)

	_, err := svc.Execute(context.Background(), CheckoutInput{
		PartnerID:   uuid.New(),
		PaymentMode: enums.PaymentModeCashfree,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
}

type failingBookingsRepo struct {
	inner bookings.Repository
}

func (f failingBookingsRepo) WithTx(tx *gorm.DB) bookings.Repository {
	return failingBookingsRepo{inner: f.inner.WithTx(tx)}
}

func (f failingBookingsRepo) Create(ctx context.Context, booking *models.Booking) error {
	return fmt.Errorf("injected booking failure")
}

func (f failingBookingsRepo) FindByID(ctx context.Context, partnerID, bookingID uuid.UUID) (*models.Booking, error) {
	return f.inner.FindByID(ctx, partnerID, bookingID)
}

func (f failingBookingsRepo) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Booking, error) {
	return f.inner.ListByPartner(ctx, partnerID)
}

func (f failingBookingsRepo) SettleByTransactionID(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, outcome enums.TransactionStatus) error {
	return f.inner.SettleByTransactionID(ctx, tx, transactionID, outcome)
}
