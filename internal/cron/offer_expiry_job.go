package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/glambook/glambook-backend/pkg/logger"
)

type offerExpiryRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// OfferExpiryJobParams configure the offer expiry sweep.
type OfferExpiryJobParams struct {
	Logger     *logger.Logger
	Repository offerExpiryRepo
}

// NewOfferExpiryJob builds the job that deactivates lapsed offers.
func NewOfferExpiryJob(params OfferExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	return &offerExpiryJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type offerExpiryJob struct {
	logg *logger.Logger
	repo offerExpiryRepo
	now  func() time.Time
}

func (j *offerExpiryJob) Name() string { return "offer-expiry" }

func (j *offerExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	deactivated, err := j.repo.DeactivateExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("offer expiry sweep: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "rows_deactivated", deactivated)
	j.logg.Info(logCtx, "offer expiry sweep complete")
	return nil
}
