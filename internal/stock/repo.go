package stock

import (
	"context"
	"errors"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides catalog lookups for pricing at checkout time.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.StockItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, enums.StockItemStatusActive).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.StockItem, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.StockItem{}, nil
	}
	var rows []models.StockItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make(map[uuid.UUID]models.StockItem, len(rows))
	for _, row := range rows {
		items[row.ID] = row
	}
	return items, nil
}
