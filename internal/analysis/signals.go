// Package analysis implements the distress-signal and investment analysis
// rules of the lead pipeline. Everything here is pure: no I/O, no clocks,
// no shared state, so the whole pipeline core is testable in isolation.
package analysis

import (
	"strings"

	"github.com/propsignal/leadmarket/internal/models"
)

// Signal thresholds. These are inherited business constants; the gate and
// tier thresholds live in config, but the per-signal cutoffs below are part
// of the signal definitions themselves.
const (
	// PriceBelowMarketRatio flags a listing priced under this fraction of
	// its Zestimate.
	PriceBelowMarketRatio = 0.85
	// HighDaysOnMarketDays flags listings sitting longer than this.
	HighDaysOnMarketDays = 60
	// VisualDistressScore flags visual scores above this value.
	VisualDistressScore = 50.0
	// GeometricAnomalyComplexity flags geometric complexity above this value.
	GeometricAnomalyComplexity = 100.0

	signalCount = 6
)

// declineKeywords mark description language associated with neighborhood
// decline. Matched case-insensitively as substrings.
var declineKeywords = []string{"foreclosure", "as-is", "distress"}

// DetectDistressSignals evaluates the six independent distress indicators
// for a property and computes the aggregate score. All six checks are always
// evaluated; missing optional inputs (no Zestimate, zero-valued visual
// analysis) simply yield false signals.
func DetectDistressSignals(p models.Property, visual models.VisualAnalysis) models.DistressSignal {
	sig := models.DistressSignal{
		PriceBelowMarket:    p.Zestimate != nil && float64(p.Price) < PriceBelowMarketRatio*float64(*p.Zestimate),
		HighDaysOnMarket:    p.DaysOnMarket > HighDaysOnMarketDays,
		PriceReduction:      hasPriceReduction(p.PriceHistory),
		VisualDistress:      visual.OverallVisualScore > VisualDistressScore,
		NeighborhoodDecline: mentionsDecline(p.Description),
		GeometricAnomaly:    visual.GeometricSummary.GeometricComplexity > GeometricAnomalyComplexity,
	}

	trueCount := 0
	for _, on := range []bool{
		sig.PriceBelowMarket,
		sig.HighDaysOnMarket,
		sig.PriceReduction,
		sig.VisualDistress,
		sig.NeighborhoodDecline,
		sig.GeometricAnomaly,
	} {
		if on {
			trueCount++
		}
	}
	sig.OverallScore = 100 * float64(trueCount) / signalCount

	return sig
}

// ContractRecommendation maps a distress score to an action recommendation.
func ContractRecommendation(sig models.DistressSignal) string {
	if sig.OverallScore > 70 {
		return models.RecommendationImmediateOffer
	}
	return models.RecommendationWatchList
}

// MarketPosition summarizes a listing's position relative to its market.
func MarketPosition(p models.Property) models.MarketPosition {
	pos := models.MarketPosition{
		PriceRatio: 1.0,
		MarketTime: p.DaysOnMarket,
	}
	if p.Zestimate != nil && *p.Zestimate != 0 {
		pos.PriceRatio = float64(p.Price) / float64(*p.Zestimate)
	}
	if p.DaysOnMarket > HighDaysOnMarketDays {
		pos.CompetitionLevel = "LOW"
	} else {
		pos.CompetitionLevel = "HIGH"
	}
	return pos
}

// hasPriceReduction reports whether any price-history entry describes a
// reduction, matched case-insensitively.
func hasPriceReduction(history []models.PriceEvent) bool {
	for _, event := range history {
		if strings.Contains(strings.ToLower(event.Event), "reduction") {
			return true
		}
	}
	return false
}

// mentionsDecline reports whether the description contains any
// neighborhood-decline keyword.
func mentionsDecline(description string) bool {
	lower := strings.ToLower(description)
	for _, keyword := range declineKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
