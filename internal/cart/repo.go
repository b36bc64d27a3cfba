package cart

import (
	"context"
	"errors"

	"github.com/glambook/glambook-backend/pkg/db"
	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages cart lines. The unique (partner_id, stock_item_id) index
// is the source of truth for "one line per item"; AddItem leans on it instead
// of a read-then-write race.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	AddItem(ctx context.Context, partnerID, stockItemID uuid.UUID) (*models.CartLine, error)
	FindLine(ctx context.Context, partnerID, lineID uuid.UUID) (*models.CartLine, error)
	FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartLine, error)
	AdjustQuantity(ctx context.Context, partnerID, lineID uuid.UUID, delta int) (*models.CartLine, error)
	DeleteLine(ctx context.Context, partnerID, lineID uuid.UUID) error
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.CartLine, error)
	DeleteByIDs(ctx context.Context, partnerID uuid.UUID, ids []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// AddItem increments the existing line or creates one with quantity 1. A
// concurrent first-add loses the insert to the unique index and retries as an
// increment.
func (r *repository) AddItem(ctx context.Context, partnerID, stockItemID uuid.UUID) (*models.CartLine, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("partner_id = ? AND stock_item_id = ?", partnerID, stockItemID).
		Update("quantity", gorm.Expr("quantity + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return r.findByStockItem(ctx, partnerID, stockItemID)
	}

	line := &models.CartLine{
		ID:          uuid.New(),
		PartnerID:   partnerID,
		StockItemID: stockItemID,
		Quantity:    1,
	}
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		if db.IsUniqueViolation(err) {
			result := r.db.WithContext(ctx).
				Model(&models.CartLine{}).
				Where("partner_id = ? AND stock_item_id = ?", partnerID, stockItemID).
				Update("quantity", gorm.Expr("quantity + 1"))
			if result.Error != nil {
				return nil, result.Error
			}
			return r.findByStockItem(ctx, partnerID, stockItemID)
		}
		return nil, err
	}
	return line, nil
}

func (r *repository) findByStockItem(ctx context.Context, partnerID, stockItemID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND stock_item_id = ?", partnerID, stockItemID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindLineByID loads a line without partner scoping. Callers that only hold
// the line id use this to resolve the owning partner.
func (r *repository) FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ?", lineID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindLine(ctx context.Context, partnerID, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND partner_id = ?", lineID, partnerID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &line, nil
}

// AdjustQuantity applies delta to a line the partner owns. Dropping below one
// removes the line entirely; the returned line is nil in that case.
func (r *repository) AdjustQuantity(ctx context.Context, partnerID, lineID uuid.UUID, delta int) (*models.CartLine, error) {
	line, err := r.FindLine(ctx, partnerID, lineID)
	if err != nil {
		return nil, err
	}

	next := line.Quantity + delta
	if next < 1 {
		if err := r.DeleteLine(ctx, partnerID, lineID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND partner_id = ?", lineID, partnerID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	line.Quantity = next
	return line, nil
}

func (r *repository) DeleteLine(ctx context.Context, partnerID, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND partner_id = ?", lineID, partnerID).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteByIDs removes the exact lines a checkout pinned. Scoping by partner
// keeps one partner's checkout from clearing another's cart.
func (r *repository) DeleteByIDs(ctx context.Context, partnerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("partner_id = ? AND id IN ?", partnerID, ids).
		Delete(&models.CartLine{}).Error
}
