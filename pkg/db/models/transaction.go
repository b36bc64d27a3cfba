package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glambook/glambook-backend/pkg/enums"
)

// Transaction is one ledger entry per monetary event. Rows are append-only:
// the only mutation ever applied is the single pending -> terminal status
// compare-and-set performed by the resolver. Never hard-deleted.
type Transaction struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	PartnerID   uuid.UUID               `gorm:"column:partner_id;type:uuid;not null;index"`
	Type        enums.TransactionType   `gorm:"column:type;type:text;not null"`
	AmountPaise int64                   `gorm:"column:amount_paise;not null"`
	Status      enums.TransactionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMode enums.PaymentMode       `gorm:"column:payment_mode;type:text;not null"`
	GatewayRef  *string                 `gorm:"column:gateway_ref;type:text"`
	FinalizedAt *time.Time              `gorm:"column:finalized_at"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
