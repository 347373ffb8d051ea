package janitor

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsignal/leadmarket/internal/logger"
	"github.com/propsignal/leadmarket/internal/models"
	"github.com/propsignal/leadmarket/internal/store"
)

func seedListing(t *testing.T, st *store.Store, packageID string, expiresAt time.Time) {
	t.Helper()
	st.PutPackage(models.LeadPackage{
		PackageID: packageID,
		LeadTier:  models.TierBronze,
		Price:     decimal.NewFromInt(50),
		ExpiresAt: expiresAt,
	})
	st.PutListing(models.MarketplaceListing{
		ListingID:     "LIST_" + packageID,
		FullPackageID: packageID,
		LeadTier:      models.TierBronze,
	})
}

func TestSweep_RemovesExpiredListings(t *testing.T) {
	st := store.New()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedListing(t, st, "live", now.Add(time.Hour))
	seedListing(t, st, "dead", now.Add(-time.Hour))

	j := New(st, logger.Nop())
	j.now = func() time.Time { return now }

	j.Sweep()

	listings := st.Listings()
	require.Len(t, listings, 1)
	assert.Equal(t, "live", listings[0].FullPackageID)
}

func TestSweep_NothingExpired(t *testing.T) {
	st := store.New()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedListing(t, st, "live", now.Add(time.Hour))

	j := New(st, logger.Nop())
	j.now = func() time.Time { return now }

	j.Sweep()
	assert.Len(t, st.Listings(), 1)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	j := New(store.New(), logger.Nop())
	err := j.Start("not a schedule")
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	j := New(store.New(), logger.Nop())
	require.NoError(t, j.Start("@every 1h"))
	j.Stop()
}
