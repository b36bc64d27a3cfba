package partners

import (
	"context"
	"errors"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes partner directory lookups for the ledger. Balance
// mutation lives in the wallet package; this repository only reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Partner, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Partner, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a partner repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return nil, err
	}
	return &partner, nil
}

// FindActiveByID loads a partner and enforces the active gate every monetary
// operation requires. Suspended and deleted partners are rejected.
func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	partner, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner.Status != enums.PartnerStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "partner account is not active")
	}
	return partner, nil
}
