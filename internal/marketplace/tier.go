package marketplace

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/propsignal/leadmarket/internal/models"
)

// basePrices is the per-tier base price table in USD.
var basePrices = map[models.LeadTier]decimal.Decimal{
	models.TierBronze:   decimal.NewFromInt(50),
	models.TierSilver:   decimal.NewFromInt(150),
	models.TierGold:     decimal.NewFromInt(300),
	models.TierPlatinum: decimal.NewFromInt(500),
}

// Exclusivity windows in hours.
const (
	platinumExclusiveHours = 24
	defaultExclusiveHours  = 12
)

// classifyTier assigns a lead tier via cascading threshold rules evaluated
// top-down; the first matching rule wins. The thresholds strictly decrease
// across tiers, so a lead satisfying platinum also satisfies gold and
// silver — the descending check order guarantees ties resolve to the
// higher tier.
func (s *Service) classifyTier(intel models.PropertyIntelligence) models.LeadTier {
	distress := intel.DistressSignals.OverallScore
	roi := intel.InvestmentOpportunity.ROIPercentage
	visualScore := intel.GeometricAnalysis.OverallVisualScore
	hasPhotos := len(intel.Property.Photos) > 0

	switch {
	case distress > s.pipeline.PlatinumMinDistress &&
		roi > s.pipeline.PlatinumMinROI &&
		intel.ContractRecommendation == models.RecommendationImmediateOffer:
		return models.TierPlatinum
	case distress > s.pipeline.GoldMinDistress &&
		roi > s.pipeline.GoldMinROI &&
		visualScore > 0:
		return models.TierGold
	case distress > s.pipeline.SilverMinDistress &&
		roi > s.pipeline.SilverMinROI &&
		hasPhotos:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}

// priceFor applies the tier base price and the hot-market multiplier.
func (s *Service) priceFor(tier models.LeadTier, neighborhood string) decimal.Decimal {
	price := basePrices[tier]
	if s.isHotMarket(neighborhood) {
		price = price.Mul(s.pipeline.HotMarketMultiplier)
	}
	return price
}

// isHotMarket reports whether the neighborhood names a hot-market city,
// matched case-insensitively as a substring.
func (s *Service) isHotMarket(neighborhood string) bool {
	lower := strings.ToLower(neighborhood)
	for _, city := range s.pipeline.HotMarkets {
		if strings.Contains(lower, strings.ToLower(city)) {
			return true
		}
	}
	return false
}

// featureFlags derives the package inclusions purely from tier.
func featureFlags(tier models.LeadTier) (geometric, contract, comps bool) {
	geometric = tier == models.TierGold || tier == models.TierPlatinum
	contract = tier == models.TierPlatinum
	comps = tier != models.TierBronze
	return geometric, contract, comps
}

// exclusiveHours returns the exclusivity window for a tier.
func exclusiveHours(tier models.LeadTier) int {
	if tier == models.TierPlatinum {
		return platinumExclusiveHours
	}
	return defaultExclusiveHours
}
