package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glambook/glambook-backend/pkg/enums"
)

// Offer is a time-bounded discount. The cron sweep deactivates expired rows;
// nothing in the offer lifecycle touches wallet state.
type Offer struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Title           string            `gorm:"column:title;type:text;not null"`
	DiscountPercent int               `gorm:"column:discount_percent;not null"`
	ExpiresAt       time.Time         `gorm:"column:expires_at;not null"`
	Status          enums.OfferStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
