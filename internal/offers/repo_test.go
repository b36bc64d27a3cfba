package offers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
)

func setupOfferTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	offers := `
CREATE TABLE IF NOT EXISTS offers (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  discount_percent INTEGER NOT NULL,
  expires_at DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(offers).Error)
	return db
}

func seedOffer(t *testing.T, db *gorm.DB, expiresAt time.Time, status enums.OfferStatus) uuid.UUID {
	t.Helper()
	offer := models.Offer{
		ID:              uuid.New(),
		Title:           "Monsoon Special",
		DiscountPercent: 20,
		ExpiresAt:       expiresAt,
		Status:          status,
	}
	require.NoError(t, db.Create(&offer).Error)
	return offer.ID
}

func TestDeactivateExpiredFlipsOnlyLapsedOffers(t *testing.T) {
	db := setupOfferTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	expired := seedOffer(t, db, now.Add(-time.Hour), enums.OfferStatusActive)
	live := seedOffer(t, db, now.Add(time.Hour), enums.OfferStatusActive)
	seedOffer(t, db, now.Add(-time.Hour), enums.OfferStatusInactive)

	flipped, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	var expiredRow models.Offer
	require.NoError(t, db.Where("id = ?", expired).First(&expiredRow).Error)
	assert.Equal(t, enums.OfferStatusInactive, expiredRow.Status)

	var liveRow models.Offer
	require.NoError(t, db.Where("id = ?", live).First(&liveRow).Error)
	assert.Equal(t, enums.OfferStatusActive, liveRow.Status)
}

func TestDeactivateExpiredIsIdempotent(t *testing.T) {
	db := setupOfferTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	seedOffer(t, db, now.Add(-time.Hour), enums.OfferStatusActive)

	first, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second)
}

func TestListActiveExcludesExpiredAndInactive(t *testing.T) {
	db := setupOfferTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	live := seedOffer(t, db, now.Add(time.Hour), enums.OfferStatusActive)
	seedOffer(t, db, now.Add(-time.Hour), enums.OfferStatusActive)
	seedOffer(t, db, now.Add(time.Hour), enums.OfferStatusInactive)

	rows, err := repo.ListActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, live, rows[0].ID)
}
