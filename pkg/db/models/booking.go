package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glambook/glambook-backend/pkg/enums"
)

// Booking records a purchase produced by a cart checkout or a direct
// single-item booking. TotalPaise is captured from then-current stock pricing
// at creation time and never recomputed. Never hard-deleted.
type Booking struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	PartnerID       uuid.UUID           `gorm:"column:partner_id;type:uuid;not null;index"`
	TransactionID   uuid.UUID           `gorm:"column:transaction_id;type:uuid;not null"`
	TotalPaise      int64               `gorm:"column:total_paise;not null"`
	DeliveryAddress string              `gorm:"column:delivery_address;type:text;not null;default:''"`
	Status          enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Lines           []BookingLine       `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BookingLine snapshots one (stock item, quantity) pair at booking time.
type BookingLine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	BookingID      uuid.UUID `gorm:"column:booking_id;type:uuid;not null;index"`
	StockItemID    uuid.UUID `gorm:"column:stock_item_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;type:text;not null"`
	UnitPricePaise int64     `gorm:"column:unit_price_paise;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	LineTotalPaise int64     `gorm:"column:line_total_paise;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
