// Package store owns all marketplace state: investors, lead packages,
// marketplace listings, and revenue metrics. The data is volatile by
// design; one coarse mutex guards every mutation so read-modify-write
// sequences (metrics increments, listing removal) can never interleave.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propsignal/leadmarket/internal/models"
)

// Store is the single in-memory owner of marketplace state.
type Store struct {
	mu sync.Mutex

	investors map[string]models.InvestorProfile
	packages  map[string]models.LeadPackage
	listings  map[string]models.MarketplaceListing

	// listingOrder preserves insertion order so distress-score ties sort
	// stably.
	listingOrder []string

	totalSales       decimal.Decimal
	packagesSold     int64
	conversionRate   float64
	monthlyRecurring decimal.Decimal
}

// New creates an empty store.
func New() *Store {
	return &Store{
		investors:        make(map[string]models.InvestorProfile),
		packages:         make(map[string]models.LeadPackage),
		listings:         make(map[string]models.MarketplaceListing),
		totalSales:       decimal.Zero,
		monthlyRecurring: decimal.Zero,
	}
}

// PutInvestor registers or replaces an investor profile.
func (s *Store) PutInvestor(investor models.InvestorProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investors[investor.InvestorID] = investor
}

// Investor returns the investor with the given ID, if present.
func (s *Store) Investor(id string) (models.InvestorProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	investor, ok := s.investors[id]
	return investor, ok
}

// Investors returns a snapshot of all registered investors.
func (s *Store) Investors() []models.InvestorProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InvestorProfile, 0, len(s.investors))
	for _, investor := range s.investors {
		out = append(out, investor)
	}
	return out
}

// PutPackage registers a lead package.
func (s *Store) PutPackage(pkg models.LeadPackage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[pkg.PackageID] = pkg
}

// Package returns the package with the given ID, if present.
func (s *Store) Package(id string) (models.LeadPackage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pkg, ok := s.packages[id]
	return pkg, ok
}

// PutListing registers a marketplace listing. A package has at most one
// active listing; re-listing the same package replaces it in place.
func (s *Store) PutListing(listing models.MarketplaceListing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.listings[listing.ListingID]; !exists {
		s.listingOrder = append(s.listingOrder, listing.ListingID)
	}
	s.listings[listing.ListingID] = listing
}

// Listings returns all active listings sorted by distress score descending.
// Ties keep insertion order.
func (s *Store) Listings() []models.MarketplaceListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MarketplaceListing, 0, len(s.listings))
	for _, id := range s.listingOrder {
		if listing, ok := s.listings[id]; ok {
			out = append(out, listing)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistressScore > out[j].DistressScore
	})
	return out
}

// RecordSale commits a successful purchase in one critical section:
// revenue metrics update plus removal of exactly the listing whose
// FullPackageID matches. Returns whether a listing was removed.
func (s *Store) RecordSale(packageID string, price decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalSales = s.totalSales.Add(price)
	s.packagesSold++

	for id, listing := range s.listings {
		if listing.FullPackageID == packageID {
			s.removeListingLocked(id)
			return true
		}
	}
	return false
}

// PurgeExpiredListings removes listings whose underlying package has
// expired as of now. Returns the number of listings removed.
func (s *Store) PurgeExpiredListings(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, listing := range s.listings {
		pkg, ok := s.packages[listing.FullPackageID]
		if !ok || !pkg.ExpiresAt.After(now) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		s.removeListingLocked(id)
	}
	return len(expired)
}

// Metrics returns a revenue snapshot with the average package price derived
// on read.
func (s *Store) Metrics() models.RevenueMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	avg := decimal.Zero
	if s.packagesSold > 0 {
		avg = s.totalSales.Div(decimal.NewFromInt(s.packagesSold))
	}

	return models.RevenueMetrics{
		TotalSales:       s.totalSales,
		PackagesSold:     s.packagesSold,
		AvgPackagePrice:  avg,
		ConversionRate:   s.conversionRate,
		MonthlyRecurring: s.monthlyRecurring,
	}
}

// Counts returns the number of investors, packages, and active listings.
func (s *Store) Counts() (investors, packages, listings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.investors), len(s.packages), len(s.listings)
}

func (s *Store) removeListingLocked(listingID string) {
	delete(s.listings, listingID)
	for i, id := range s.listingOrder {
		if id == listingID {
			s.listingOrder = append(s.listingOrder[:i], s.listingOrder[i+1:]...)
			break
		}
	}
}
