package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glambook/glambook-backend/pkg/enums"
)

// Partner is a service partner account. WalletBalancePaise is the single
// shared mutable monetary field; only the wallet balance store mutates it, and
// a CHECK constraint in the schema backs the non-negative invariant.
type Partner struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name               string              `gorm:"column:name;type:text;not null"`
	Phone              string              `gorm:"column:phone;type:text;not null"`
	Email              *string             `gorm:"column:email;type:text"`
	Address            string              `gorm:"column:address;type:text;not null;default:''"`
	WalletBalancePaise int64               `gorm:"column:wallet_balance_paise;not null;default:0"`
	Status             enums.PartnerStatus `gorm:"column:status;type:text;not null;default:'active'"`
	PushToken          *string             `gorm:"column:push_token;type:text"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
