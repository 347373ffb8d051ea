package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsignal/leadmarket/internal/models"
)

func testPackage(id string, expiresAt time.Time) models.LeadPackage {
	return models.LeadPackage{
		PackageID: id,
		LeadTier:  models.TierSilver,
		Price:     decimal.NewFromInt(150),
		CreatedAt: expiresAt.Add(-7 * 24 * time.Hour),
		ExpiresAt: expiresAt,
	}
}

func testListing(id, packageID string, distress float64) models.MarketplaceListing {
	return models.MarketplaceListing{
		ListingID:     id,
		DistressScore: distress,
		FullPackageID: packageID,
		PackagePrice:  decimal.NewFromInt(150),
	}
}

func TestInvestorRoundTrip(t *testing.T) {
	s := New()

	_, ok := s.Investor("inv-1")
	assert.False(t, ok)

	s.PutInvestor(models.InvestorProfile{InvestorID: "inv-1", Name: "Casey"})

	investor, ok := s.Investor("inv-1")
	require.True(t, ok)
	assert.Equal(t, "Casey", investor.Name)
	assert.Len(t, s.Investors(), 1)
}

func TestPackageRoundTrip(t *testing.T) {
	s := New()
	expiry := time.Now().Add(7 * 24 * time.Hour)

	s.PutPackage(testPackage("pkg-1", expiry))

	pkg, ok := s.Package("pkg-1")
	require.True(t, ok)
	assert.Equal(t, "pkg-1", pkg.PackageID)

	_, ok = s.Package("pkg-missing")
	assert.False(t, ok)
}

func TestListings_SortedByDistressDescStableTies(t *testing.T) {
	s := New()

	s.PutListing(testListing("l-1", "p-1", 50))
	s.PutListing(testListing("l-2", "p-2", 80))
	s.PutListing(testListing("l-3", "p-3", 50)) // tie with l-1, inserted later

	listings := s.Listings()
	require.Len(t, listings, 3)
	assert.Equal(t, "l-2", listings[0].ListingID)
	assert.Equal(t, "l-1", listings[1].ListingID)
	assert.Equal(t, "l-3", listings[2].ListingID)
}

func TestRecordSale_RemovesExactlyMatchingListing(t *testing.T) {
	s := New()
	s.PutListing(testListing("l-1", "p-1", 60))
	s.PutListing(testListing("l-2", "p-2", 70))

	removed := s.RecordSale("p-1", decimal.NewFromInt(150))

	assert.True(t, removed)
	listings := s.Listings()
	require.Len(t, listings, 1)
	assert.Equal(t, "l-2", listings[0].ListingID)

	metrics := s.Metrics()
	assert.Equal(t, int64(1), metrics.PackagesSold)
	assert.True(t, metrics.TotalSales.Equal(decimal.NewFromInt(150)),
		"expected total sales 150, got %s", metrics.TotalSales)
}

func TestRecordSale_AccumulatesMetrics(t *testing.T) {
	s := New()
	s.PutListing(testListing("l-1", "p-1", 60))
	s.PutListing(testListing("l-2", "p-2", 70))

	s.RecordSale("p-1", decimal.NewFromInt(150))
	s.RecordSale("p-2", decimal.NewFromInt(500))

	metrics := s.Metrics()
	assert.Equal(t, int64(2), metrics.PackagesSold)
	assert.True(t, metrics.TotalSales.Equal(decimal.NewFromInt(650)))
	assert.True(t, metrics.AvgPackagePrice.Equal(decimal.NewFromInt(325)),
		"expected avg 325, got %s", metrics.AvgPackagePrice)
}

func TestMetrics_AvgGuardsZeroSales(t *testing.T) {
	s := New()

	metrics := s.Metrics()

	assert.Equal(t, int64(0), metrics.PackagesSold)
	assert.True(t, metrics.AvgPackagePrice.IsZero())
}

func TestPurgeExpiredListings(t *testing.T) {
	s := New()
	now := time.Now()

	s.PutPackage(testPackage("p-live", now.Add(24*time.Hour)))
	s.PutPackage(testPackage("p-dead", now.Add(-time.Hour)))
	s.PutListing(testListing("l-live", "p-live", 60))
	s.PutListing(testListing("l-dead", "p-dead", 70))
	// Listing without a backing package is also swept.
	s.PutListing(testListing("l-orphan", "p-gone", 80))

	removed := s.PurgeExpiredListings(now)

	assert.Equal(t, 2, removed)
	listings := s.Listings()
	require.Len(t, listings, 1)
	assert.Equal(t, "l-live", listings[0].ListingID)
}

func TestCounts(t *testing.T) {
	s := New()
	s.PutInvestor(models.InvestorProfile{InvestorID: "inv-1"})
	s.PutPackage(testPackage("p-1", time.Now().Add(time.Hour)))
	s.PutListing(testListing("l-1", "p-1", 50))

	investors, packages, listings := s.Counts()
	assert.Equal(t, 1, investors)
	assert.Equal(t, 1, packages)
	assert.Equal(t, 1, listings)
}
