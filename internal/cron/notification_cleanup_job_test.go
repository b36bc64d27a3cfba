package cron

import (
	"context"
	"testing"
	"time"

	"github.com/glambook/glambook-backend/pkg/logger"
)

type fakeCleanupRepo struct {
	deleted   int64
	sawCutoff time.Time
}

func (f *fakeCleanupRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.sawCutoff = cutoff
	return f.deleted, nil
}

func TestNotificationCleanupUsesRetentionWindow(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	repo := &fakeCleanupRepo{deleted: 12}

	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     logg,
		Repository: repo,
		Retention:  7,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	before := time.Now().UTC().Add(-7 * 24 * time.Hour)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	after := time.Now().UTC().Add(-7 * 24 * time.Hour)

	if repo.sawCutoff.Before(before) || repo.sawCutoff.After(after) {
		t.Fatalf("cutoff %v outside expected window", repo.sawCutoff)
	}
}

func TestNotificationCleanupDefaultsRetention(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	repo := &fakeCleanupRepo{}

	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     logg,
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	// A 30-day default puts the cutoff between now-31d and now-29d.
	if repo.sawCutoff.Before(time.Now().UTC().Add(-31 * 24 * time.Hour)) {
		t.Fatalf("default retention should be 30 days, cutoff %v too old", repo.sawCutoff)
	}
	if repo.sawCutoff.After(time.Now().UTC().Add(-29 * 24 * time.Hour)) {
		t.Fatalf("default retention should be 30 days, cutoff %v too recent", repo.sawCutoff)
	}
}
