package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	"github.com/glambook/glambook-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for ledger transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, to enums.TransactionStatus, gatewayRef *string, finalizedAt time.Time) (bool, error)
	List(ctx context.Context, params ListTransactionsParams) ([]models.Transaction, *pagination.Cursor, error)
}

// ListTransactionsParams filters the partner's transaction history.
type ListTransactionsParams struct {
	PartnerID uuid.UUID
	Types     []enums.TransactionType
	Statuses  []enums.TransactionStatus
	Limit     int
	Cursor    *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// CompareAndSwapStatus performs the single linearization point of the
// finalize path: pending -> to. A false return means the row was missing or
// already finalized; concurrent duplicate deliveries lose the swap here and
// never re-apply side effects.
func (r *repository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, to enums.TransactionStatus, gatewayRef *string, finalizedAt time.Time) (bool, error) {
	updates := map[string]any{
		"status":       to,
		"finalized_at": finalizedAt,
	}
	if gatewayRef != nil {
		updates["gateway_ref"] = *gatewayRef
	}

	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, enums.TransactionStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, params ListTransactionsParams) ([]models.Transaction, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("partner_id = ?", params.PartnerID)
	if len(params.Types) > 0 {
		query = query.Where("type IN ?", params.Types)
	}
	if len(params.Statuses) > 0 {
		query = query.Where("status IN ?", params.Statuses)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Transaction
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		rows = rows[:normalized]
		// The cursor points at the last returned row; the strict < predicate
		// resumes on the row after it.
		last := rows[normalized-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}
