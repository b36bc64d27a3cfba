package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glambook/glambook-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to partners.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	PartnerID uuid.UUID              `gorm:"column:partner_id;type:uuid;not null;index"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title     string                 `gorm:"column:title;type:text;not null"`
	Message   string                 `gorm:"column:message;type:text;not null"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
