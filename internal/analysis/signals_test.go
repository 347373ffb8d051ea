package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propsignal/leadmarket/internal/models"
)

func intPtr(v int) *int { return &v }

// cleanProperty returns a property that triggers no distress signals.
func cleanProperty() models.Property {
	return models.Property{
		ZPID:         "1001",
		Address:      "12 Maple Ct, Topeka, KS",
		Price:        200000,
		Zestimate:    intPtr(200000),
		DaysOnMarket: 30,
		Description:  "Well maintained home near parks",
		Neighborhood: "Topeka",
		PropertyType: "single_family",
	}
}

// distressedProperty returns a property that triggers every signal when
// paired with distressedVisual.
func distressedProperty() models.Property {
	return models.Property{
		ZPID:         "1002",
		Address:      "44 Elm St, Austin, TX",
		Price:        150000,
		Zestimate:    intPtr(200000), // 150000 < 0.85 * 200000
		DaysOnMarket: 90,
		PriceHistory: []models.PriceEvent{
			{Date: "2026-07-01", Event: "Price Reduction", Price: 160000},
		},
		Description:  "Sold as-is, needs work",
		Neighborhood: "East Austin",
		PropertyType: "single_family",
	}
}

func distressedVisual() models.VisualAnalysis {
	return models.VisualAnalysis{
		OverallVisualScore: 75,
		GeometricSummary:   models.GeometricSummary{GeometricComplexity: 120},
	}
}

func TestDetectDistressSignals_AllFalse(t *testing.T) {
	sig := DetectDistressSignals(cleanProperty(), models.VisualAnalysis{})

	assert.False(t, sig.PriceBelowMarket)
	assert.False(t, sig.HighDaysOnMarket)
	assert.False(t, sig.PriceReduction)
	assert.False(t, sig.VisualDistress)
	assert.False(t, sig.NeighborhoodDecline)
	assert.False(t, sig.GeometricAnomaly)
	assert.Equal(t, 0.0, sig.OverallScore)
}

func TestDetectDistressSignals_AllTrue(t *testing.T) {
	sig := DetectDistressSignals(distressedProperty(), distressedVisual())

	assert.True(t, sig.PriceBelowMarket)
	assert.True(t, sig.HighDaysOnMarket)
	assert.True(t, sig.PriceReduction)
	assert.True(t, sig.VisualDistress)
	assert.True(t, sig.NeighborhoodDecline)
	assert.True(t, sig.GeometricAnomaly)
	assert.Equal(t, 100.0, sig.OverallScore)
}

func TestDetectDistressSignals_PartialScore(t *testing.T) {
	p := cleanProperty()
	p.DaysOnMarket = 90
	p.Description = "Foreclosure opportunity"

	sig := DetectDistressSignals(p, models.VisualAnalysis{})

	assert.True(t, sig.HighDaysOnMarket)
	assert.True(t, sig.NeighborhoodDecline)
	assert.InDelta(t, 100.0*2/6, sig.OverallScore, 1e-9)
}

func TestDetectDistressSignals_PriceBelowMarket(t *testing.T) {
	tests := []struct {
		name      string
		price     int
		zestimate *int
		expected  bool
	}{
		{"well below market", 150000, intPtr(200000), true},
		{"exactly at threshold", 170000, intPtr(200000), false}, // strict <
		{"just below threshold", 169999, intPtr(200000), true},
		{"above market", 210000, intPtr(200000), false},
		{"no zestimate", 1, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cleanProperty()
			p.Price = tt.price
			p.Zestimate = tt.zestimate

			sig := DetectDistressSignals(p, models.VisualAnalysis{})
			assert.Equal(t, tt.expected, sig.PriceBelowMarket)
		})
	}
}

func TestDetectDistressSignals_DaysOnMarketBoundary(t *testing.T) {
	p := cleanProperty()

	p.DaysOnMarket = 60
	assert.False(t, DetectDistressSignals(p, models.VisualAnalysis{}).HighDaysOnMarket)

	p.DaysOnMarket = 61
	assert.True(t, DetectDistressSignals(p, models.VisualAnalysis{}).HighDaysOnMarket)
}

func TestDetectDistressSignals_PriceReductionCaseInsensitive(t *testing.T) {
	p := cleanProperty()
	p.PriceHistory = []models.PriceEvent{
		{Date: "2026-06-01", Event: "Listed"},
		{Date: "2026-07-01", Event: "PRICE REDUCTION"},
	}

	assert.True(t, DetectDistressSignals(p, models.VisualAnalysis{}).PriceReduction)
}

func TestDetectDistressSignals_DeclineKeywords(t *testing.T) {
	for _, keyword := range []string{"Foreclosure pending", "sold AS-IS", "distress sale"} {
		p := cleanProperty()
		p.Description = keyword
		assert.True(t, DetectDistressSignals(p, models.VisualAnalysis{}).NeighborhoodDecline,
			"expected decline signal for %q", keyword)
	}
}

func TestDetectDistressSignals_VisualThresholds(t *testing.T) {
	p := cleanProperty()

	// Exactly at the cutoffs: both checks are strict.
	v := models.VisualAnalysis{
		OverallVisualScore: 50,
		GeometricSummary:   models.GeometricSummary{GeometricComplexity: 100},
	}
	sig := DetectDistressSignals(p, v)
	assert.False(t, sig.VisualDistress)
	assert.False(t, sig.GeometricAnomaly)

	v.OverallVisualScore = 50.1
	v.GeometricSummary.GeometricComplexity = 100.1
	sig = DetectDistressSignals(p, v)
	assert.True(t, sig.VisualDistress)
	assert.True(t, sig.GeometricAnomaly)
}

func TestContractRecommendation(t *testing.T) {
	assert.Equal(t, models.RecommendationWatchList,
		ContractRecommendation(models.DistressSignal{OverallScore: 70}))
	assert.Equal(t, models.RecommendationImmediateOffer,
		ContractRecommendation(models.DistressSignal{OverallScore: 70.1}))
	assert.Equal(t, models.RecommendationWatchList,
		ContractRecommendation(models.DistressSignal{OverallScore: 0}))
}

func TestMarketPosition(t *testing.T) {
	p := cleanProperty()
	p.Price = 150000
	p.Zestimate = intPtr(200000)
	p.DaysOnMarket = 90

	pos := MarketPosition(p)
	assert.InDelta(t, 0.75, pos.PriceRatio, 1e-9)
	assert.Equal(t, 90, pos.MarketTime)
	assert.Equal(t, "LOW", pos.CompetitionLevel)

	p.Zestimate = nil
	p.DaysOnMarket = 10
	pos = MarketPosition(p)
	assert.Equal(t, 1.0, pos.PriceRatio)
	assert.Equal(t, "HIGH", pos.CompetitionLevel)
}
