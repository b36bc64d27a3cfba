package bookings

import (
	"context"
	"errors"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists bookings and their line snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, partnerID, bookingID uuid.UUID) (*models.Booking, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Booking, error)
	SettleByTransactionID(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, outcome enums.TransactionStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a bookings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create writes the booking and its lines in one go. Line snapshots carry the
// price that was charged; they are never recomputed against the catalog.
func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	for i := range booking.Lines {
		if booking.Lines[i].ID == uuid.Nil {
			booking.Lines[i].ID = uuid.New()
		}
		booking.Lines[i].BookingID = booking.ID
	}
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, partnerID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ? AND partner_id = ?", bookingID, partnerID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("partner_id = ?", partnerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SettleByTransactionID propagates a finalized payment onto the linked
// booking. A failed payment fails the booking too so it never proceeds to
// fulfillment with money missing.
func (r *repository) SettleByTransactionID(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, outcome enums.TransactionStatus) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}

	updates := map[string]any{}
	switch outcome {
	case enums.TransactionStatusCompleted:
		updates["payment_status"] = enums.PaymentStatusCompleted
	case enums.TransactionStatusFailed:
		updates["payment_status"] = enums.PaymentStatusFailed
		updates["status"] = enums.BookingStatusFailed
	default:
		return nil
	}

	return conn.WithContext(ctx).
		Model(&models.Booking{}).
		Where("transaction_id = ?", transactionID).
		Updates(updates).Error
}
