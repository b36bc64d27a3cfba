package offers

import (
	"context"
	"time"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository manages promotional offers. The cron worker is the only writer
// of the expiry transition.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context, now time.Time) ([]models.Offer, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an offers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]models.Offer, error) {
	var rows []models.Offer
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at > ?", enums.OfferStatusActive, now).
		Order("expires_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeactivateExpired flips every active offer whose expiry has passed. One
// UPDATE, safe to run from multiple workers.
func (r *repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("status = ? AND expires_at <= ?", enums.OfferStatusActive, now).
		Update("status", enums.OfferStatusInactive)
	return result.RowsAffected, result.Error
}
