package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glambook/glambook-backend/pkg/enums"
)

// StockItem is a catalog entry partners purchase through cart or direct
// bookings. The ledger only reads it for pricing at checkout time.
type StockItem struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name         string                `gorm:"column:name;type:text;not null"`
	MRPPaise     int64                 `gorm:"column:mrp_paise;not null"`
	CurrentStock int                   `gorm:"column:current_stock;not null;default:0"`
	Status       enums.StockItemStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
