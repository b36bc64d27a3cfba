package wallet

import (
	"context"
	"errors"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BalanceRepository is the only mutator of Partner.WalletBalancePaise. Both
// mutations are single conditional UPDATEs, so two concurrent debits can never
// pass the sufficiency check against a stale balance: the losing statement
// matches zero rows.
type BalanceRepository interface {
	WithTx(tx *gorm.DB) BalanceRepository
	Debit(ctx context.Context, partnerID uuid.UUID, amountPaise int64) error
	Credit(ctx context.Context, partnerID uuid.UUID, amountPaise int64) error
}

type balanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository returns a balance store bound to the provided database.
func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) WithTx(tx *gorm.DB) BalanceRepository {
	if tx == nil {
		return r
	}
	return &balanceRepository{db: tx}
}

// Debit decreases the wallet atomically. The WHERE clause carries the
// sufficiency check, so an insufficient balance surfaces as zero matched rows
// rather than a negative balance.
func (r *balanceRepository) Debit(ctx context.Context, partnerID uuid.UUID, amountPaise int64) error {
	if amountPaise <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&models.Partner{}).
		Where("id = ? AND status = ? AND wallet_balance_paise >= ?", partnerID, enums.PartnerStatusActive, amountPaise).
		Update("wallet_balance_paise", gorm.Expr("wallet_balance_paise - ?", amountPaise))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return r.classifyFailure(ctx, partnerID, true)
}

// Credit increases the wallet atomically. No upper bound is enforced here;
// business-level caps belong to the caller.
func (r *balanceRepository) Credit(ctx context.Context, partnerID uuid.UUID, amountPaise int64) error {
	if amountPaise <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&models.Partner{}).
		Where("id = ? AND status = ?", partnerID, enums.PartnerStatusActive).
		Update("wallet_balance_paise", gorm.Expr("wallet_balance_paise + ?", amountPaise))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return r.classifyFailure(ctx, partnerID, false)
}

func (r *balanceRepository) classifyFailure(ctx context.Context, partnerID uuid.UUID, debit bool) error {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("id = ?", partnerID).First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return err
	}
	if partner.Status != enums.PartnerStatusActive {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "partner account is not active")
	}
	if debit {
		return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "wallet balance is insufficient")
	}
	return pkgerrors.New(pkgerrors.CodeInternal, "wallet credit matched no rows")
}
