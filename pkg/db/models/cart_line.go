package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is a partner's pending intent to purchase one stock item. The
// unique (partner_id, stock_item_id) index makes repeated adds increment
// quantity instead of duplicating rows.
type CartLine struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PartnerID   uuid.UUID `gorm:"column:partner_id;type:uuid;not null;uniqueIndex:idx_cart_partner_stock"`
	StockItemID uuid.UUID `gorm:"column:stock_item_id;type:uuid;not null;uniqueIndex:idx_cart_partner_stock"`
	Quantity    int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
