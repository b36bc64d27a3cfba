package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/glambook/glambook-backend/pkg/logger"
	"github.com/glambook/glambook-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service stores and reads in-app notifications. Notify is fire-and-forget:
// monetary flows must never fail because a notification could not be written.
type Service interface {
	Notify(ctx context.Context, partnerID uuid.UUID, kind enums.NotificationType, title, message string)
	List(ctx context.Context, partnerID uuid.UUID, limit int, cursor string) ([]models.Notification, string, error)
	MarkRead(ctx context.Context, partnerID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, partnerID uuid.UUID) error
}

type service struct {
	repo Repository
	log  *logger.Logger
}

// NewService builds the notifications service.
func NewService(repo Repository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, log: log}, nil
}

func (s *service) Notify(ctx context.Context, partnerID uuid.UUID, kind enums.NotificationType, title, message string) {
	err := s.repo.Create(ctx, &models.Notification{
		PartnerID: partnerID,
		Type:      kind,
		Title:     title,
		Message:   message,
	})
	if err != nil {
		ctx = s.log.WithFields(ctx, map[string]any{
			"partner_id": partnerID.String(),
			"type":       string(kind),
		})
		s.log.Error(ctx, "notification write failed", err)
	}
}

func (s *service) List(ctx context.Context, partnerID uuid.UUID, limit int, cursor string) ([]models.Notification, string, error) {
	var parsed *pagination.Cursor
	if cursor != "" {
		c, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		parsed = c
	}

	rows, next, err := s.repo.ListByPartner(ctx, partnerID, limit, parsed)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return rows, nextCursor, nil
}

func (s *service) MarkRead(ctx context.Context, partnerID, notificationID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, partnerID, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, partnerID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, partnerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return nil
}
