// Package marketplace implements lead packaging, investor matching, and the
// purchase flow: analyzed property in, priced lead package and marketplace
// listing out.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propsignal/leadmarket/internal/config"
	"github.com/propsignal/leadmarket/internal/logger"
	"github.com/propsignal/leadmarket/internal/models"
	"github.com/propsignal/leadmarket/internal/notify"
	"github.com/propsignal/leadmarket/internal/payments"
	"github.com/propsignal/leadmarket/internal/store"
)

// Service-level errors
var (
	ErrPackageNotFound  = errors.New("package not found")
	ErrInvestorNotFound = errors.New("investor not found")
)

// rejectionBelowThreshold is the reason reported when the quality gate
// rejects a lead. A business result, not an error.
const rejectionBelowThreshold = "Lead quality below threshold"

// LeadResult is the outcome of processing an overflow lead.
type LeadResult struct {
	Created bool
	Reason  string
	Package *models.LeadPackage
}

// PurchaseResult is the outcome of a purchase attempt. A declined payment
// yields Successful false with a reason; state is never mutated on failure.
type PurchaseResult struct {
	Successful      bool
	PaymentIntentID string
	FailureReason   string
	PackageData     *FullPackage
	ExclusiveUntil  time.Time
}

// FullPackage is the non-redacted payload delivered to a buyer. Sections
// excluded by the package's feature flags are nil.
type FullPackage struct {
	PropertyDetails   models.PropertyIntelligence `json:"property_details"`
	GeometricAnalysis *models.VisualAnalysis      `json:"geometric_analysis,omitempty"`
	ContractTemplate  string                      `json:"contract_template,omitempty"`
	MarketComps       []MarketComp                `json:"market_comps,omitempty"`
	ROICalculator     models.InvestmentAnalysis   `json:"roi_calculator"`
}

// MarketComp is one comparable-sale entry in the delivered package.
type MarketComp struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Service wires the store, payment processor, and notification queue into
// the lead pipeline.
type Service struct {
	store    *store.Store
	payments payments.Processor
	queue    *notify.Queue
	pipeline config.PipelineConfig
	log      *logger.Logger

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

// NewService creates a marketplace service.
func NewService(
	st *store.Store,
	processor payments.Processor,
	queue *notify.Queue,
	pipeline config.PipelineConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		store:    st,
		payments: processor,
		queue:    queue,
		pipeline: pipeline,
		log:      log,
		now:      time.Now,
	}
}

// RegisterInvestor stores or replaces an investor profile.
func (s *Service) RegisterInvestor(investor models.InvestorProfile) {
	s.store.PutInvestor(investor)
	s.log.Info("Investor registered", map[string]interface{}{
		"investor_id":       investor.InvestorID,
		"subscription_tier": investor.SubscriptionTier,
		"markets":           investor.PreferredMarkets,
	})
}

// ProcessOverflowLead runs the packaging pipeline for one analyzed
// property: quality gate, tier classification, pricing, package and
// listing creation, investor matching. A lead below the gate returns a
// not-created result, not an error.
func (s *Service) ProcessOverflowLead(ctx context.Context, intel models.PropertyIntelligence) LeadResult {
	distress := intel.DistressSignals.OverallScore
	roi := intel.InvestmentOpportunity.ROIPercentage

	if distress < s.pipeline.GateMinDistress || roi < s.pipeline.GateMinROI {
		s.log.Info("Lead rejected by quality gate", map[string]interface{}{
			"zpid":           intel.Property.ZPID,
			"distress_score": distress,
			"roi_percentage": roi,
		})
		return LeadResult{Created: false, Reason: rejectionBelowThreshold}
	}

	tier := s.classifyTier(intel)
	price := s.priceFor(tier, intel.Property.Neighborhood)
	geometric, contract, comps := featureFlags(tier)

	now := s.now()
	pkg := models.LeadPackage{
		PackageID:            fmt.Sprintf("PKG_%s_%s", intel.Property.ZPID, uuid.New().String()[:8]),
		PropertyIntelligence: intel,
		LeadTier:             tier,
		Price:                price,
		GeometricIncluded:    geometric,
		ContractIncluded:     contract,
		MarketCompsIncluded:  comps,
		ROIProjection:        intel.InvestmentOpportunity,
		ExclusivePeriodHours: exclusiveHours(tier),
		CreatedAt:            now,
		ExpiresAt:            now.Add(s.pipeline.PackageTTL),
	}

	s.store.PutPackage(pkg)

	// Listing creation and investor matching read disjoint state; the
	// order between them carries no dependency.
	s.createListing(pkg)
	s.matchInvestors(pkg)

	s.log.Info("Lead package created", map[string]interface{}{
		"package_id":     pkg.PackageID,
		"lead_tier":      tier,
		"price":          price.String(),
		"distress_score": distress,
	})

	return LeadResult{Created: true, Package: &pkg}
}

// PurchaseLead validates the buyer and package, captures payment, and on
// success commits the sale: metrics update plus removal of the one listing
// backed by the package. Payment failure leaves all state untouched.
func (s *Service) PurchaseLead(ctx context.Context, investorID, packageID, paymentMethodID string) (*PurchaseResult, error) {
	pkg, ok := s.store.Package(packageID)
	if !ok {
		return nil, ErrPackageNotFound
	}
	investor, ok := s.store.Investor(investorID)
	if !ok {
		return nil, ErrInvestorNotFound
	}

	capture, err := s.payments.Capture(ctx, payments.CaptureRequest{
		Amount:          pkg.Price,
		PaymentMethodID: paymentMethodID,
		CustomerID:      investor.InvestorID,
		Description:     fmt.Sprintf("Real Estate Lead Package: %s", packageID),
	})
	if err != nil {
		return nil, err
	}

	if !capture.Succeeded {
		s.log.Warn("Payment declined", map[string]interface{}{
			"investor_id": investorID,
			"package_id":  packageID,
			"reason":      capture.FailureReason,
		})
		return &PurchaseResult{
			Successful:    false,
			FailureReason: "Payment failed",
		}, nil
	}

	s.store.RecordSale(packageID, pkg.Price)

	s.log.Info("Lead package sold", map[string]interface{}{
		"investor_id": investorID,
		"package_id":  packageID,
		"price":       pkg.Price.String(),
	})

	return &PurchaseResult{
		Successful:      true,
		PaymentIntentID: capture.PaymentIntentID,
		PackageData:     s.fullPackage(pkg),
		ExclusiveUntil:  pkg.ExpiresAt,
	}, nil
}

// MarketplaceView returns the active listings (sorted by distress score
// descending) and a revenue snapshot.
func (s *Service) MarketplaceView() ([]models.MarketplaceListing, models.RevenueMetrics) {
	return s.store.Listings(), s.store.Metrics()
}

// DashboardView is the revenue-dashboard payload.
type DashboardView struct {
	RevenueMetrics      models.RevenueMetrics `json:"revenue_metrics"`
	ActivePackages      int                   `json:"active_packages"`
	MarketplaceListings int                   `json:"marketplace_listings"`
	RegisteredInvestors int                   `json:"registered_investors"`
}

// Dashboard returns the revenue metrics with entity counts.
func (s *Service) Dashboard() DashboardView {
	investors, packages, listings := s.store.Counts()
	return DashboardView{
		RevenueMetrics:      s.store.Metrics(),
		ActivePackages:      packages,
		MarketplaceListings: listings,
		RegisteredInvestors: investors,
	}
}

// createListing projects a package into its public, redacted listing.
func (s *Service) createListing(pkg models.LeadPackage) {
	prop := pkg.PropertyIntelligence.Property

	s.store.PutListing(models.MarketplaceListing{
		ListingID: "LIST_" + pkg.PackageID,
		Title:     "Distressed Property - " + truncate(prop.Address, 32),
		Description: fmt.Sprintf("%s tier lead with %.0f%% distress score",
			capitalize(string(pkg.LeadTier)),
			pkg.PropertyIntelligence.DistressSignals.OverallScore),
		Location:      prop.Neighborhood,
		PriceRange:    fmt.Sprintf("$%d", prop.Price),
		DistressScore: pkg.PropertyIntelligence.DistressSignals.OverallScore,
		ROIPotential:  fmt.Sprintf("%.1f%%", pkg.PropertyIntelligence.InvestmentOpportunity.ROIPercentage),
		LeadTier:      pkg.LeadTier,
		PackagePrice:  pkg.Price,
		Preview: models.ListingPreview{
			Bedrooms:            prop.Bedrooms,
			Bathrooms:           prop.Bathrooms,
			Sqft:                prop.Sqft,
			DaysOnMarket:        prop.DaysOnMarket,
			PriceBelowZestimate: pkg.PropertyIntelligence.DistressSignals.PriceBelowMarket,
		},
		FullPackageID: pkg.PackageID,
	})
}

// matchInvestors finds investors whose criteria all match the package's
// property and enqueues a notification per match. All three conditions are
// required; delivery is fire-and-forget on the queue consumer.
func (s *Service) matchInvestors(pkg models.LeadPackage) {
	prop := pkg.PropertyIntelligence.Property

	for _, investor := range s.store.Investors() {
		if !marketMatches(investor.PreferredMarkets, prop.Address) {
			continue
		}
		if !investor.PriceRange.Contains(prop.Price) {
			continue
		}
		if !investor.AcceptsPropertyType(prop.PropertyType) {
			continue
		}

		phone := ""
		if investor.Phone != nil {
			phone = *investor.Phone
		}
		s.queue.Enqueue(notify.Notification{
			InvestorID:    investor.InvestorID,
			Email:         investor.Email,
			Phone:         phone,
			PackageID:     pkg.PackageID,
			LeadTier:      string(pkg.LeadTier),
			Price:         pkg.Price,
			DistressScore: pkg.PropertyIntelligence.DistressSignals.OverallScore,
		})
	}
}

// fullPackage assembles the delivered payload, honoring the feature flags.
func (s *Service) fullPackage(pkg models.LeadPackage) *FullPackage {
	full := &FullPackage{
		PropertyDetails: pkg.PropertyIntelligence,
		ROICalculator:   pkg.ROIProjection,
	}

	if pkg.GeometricIncluded {
		geo := pkg.PropertyIntelligence.GeometricAnalysis
		full.GeometricAnalysis = &geo
	}
	if pkg.ContractIncluded {
		full.ContractTemplate = fmt.Sprintf(
			"Purchase agreement template for %s, offer basis $%.0f",
			pkg.PropertyIntelligence.Property.Address,
			pkg.ROIProjection.MarketValue)
	}
	if pkg.MarketCompsIncluded {
		market := pkg.ROIProjection.MarketValue
		full.MarketComps = []MarketComp{
			{Label: "comp_low", Price: 0.95 * market},
			{Label: "comp_mid", Price: market},
			{Label: "comp_high", Price: 1.05 * market},
		}
	}

	return full
}

// marketMatches reports whether any preferred market appears in the
// address, case-insensitively.
func marketMatches(markets []string, address string) bool {
	lower := strings.ToLower(address)
	for _, market := range markets {
		if market == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(market)) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
