package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadTier is the ordered lead quality tier:
// bronze < silver < gold < platinum.
// Included features and the exclusivity window are monotonic in tier.
type LeadTier string

const (
	TierBronze   LeadTier = "bronze"
	TierSilver   LeadTier = "silver"
	TierGold     LeadTier = "gold"
	TierPlatinum LeadTier = "platinum"
)

// Rank returns the tier's position in the ordering, bronze lowest.
// Unknown tiers rank below bronze.
func (t LeadTier) Rank() int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	case TierPlatinum:
		return 4
	default:
		return 0
	}
}

// Valid reports whether t is one of the four known tiers.
func (t LeadTier) Valid() bool {
	return t.Rank() > 0
}

// LeadPackage is a priced, time-boxed bundle of property intelligence
// offered for sale. Created by the pipeline, read-only afterward; the
// package record is retained for audit and delivery even after its
// marketplace listing is removed by a purchase.
type LeadPackage struct {
	PackageID            string               `json:"package_id"`
	PropertyIntelligence PropertyIntelligence `json:"property_intelligence"`
	LeadTier             LeadTier             `json:"lead_tier"`
	Price                decimal.Decimal      `json:"price"`
	GeometricIncluded    bool                 `json:"geometric_analysis_included"`
	ContractIncluded     bool                 `json:"contract_template_included"`
	MarketCompsIncluded  bool                 `json:"market_comps_included"`
	ROIProjection        InvestmentAnalysis   `json:"roi_projection"`
	ExclusivePeriodHours int                  `json:"exclusive_period_hours"`
	CreatedAt            time.Time            `json:"created_at"`
	ExpiresAt            time.Time            `json:"expires_at"`
}

// ListingPreview is the redacted teaser data shown on a marketplace listing.
type ListingPreview struct {
	Bedrooms            int     `json:"bedrooms"`
	Bathrooms           float64 `json:"bathrooms"`
	Sqft                int     `json:"sqft"`
	DaysOnMarket        int     `json:"days_on_market"`
	PriceBelowZestimate bool    `json:"price_below_zestimate"`
}

// MarketplaceListing is the public, redacted projection of a LeadPackage.
// Keyed 1:1 to its package; deleted when the package is purchased.
type MarketplaceListing struct {
	ListingID     string          `json:"listing_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PriceRange    string          `json:"price_range"`
	DistressScore float64         `json:"distress_score"`
	ROIPotential  string          `json:"roi_potential"`
	LeadTier      LeadTier        `json:"lead_tier"`
	PackagePrice  decimal.Decimal `json:"package_price"`
	Preview       ListingPreview  `json:"preview_data"`
	FullPackageID string          `json:"full_package_id"`
}

// RevenueMetrics is a point-in-time snapshot of marketplace sales.
// AvgPackagePrice is derived on read, never stored.
type RevenueMetrics struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	PackagesSold     int64           `json:"packages_sold"`
	AvgPackagePrice  decimal.Decimal `json:"avg_package_price"`
	ConversionRate   float64         `json:"conversion_rate"`
	MonthlyRecurring decimal.Decimal `json:"monthly_recurring"`
}
