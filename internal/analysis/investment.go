package analysis

import (
	"github.com/propsignal/leadmarket/internal/models"
)

// Investment analysis constants.
const (
	// RepairCostRatio estimates repairs as a fraction of market value when
	// visual distress is present.
	RepairCostRatio = 0.15
	// GradeAMinROI and GradeBMinROI are the (exclusive) grade cutoffs,
	// checked top-down: A if roi > 25, B if roi > 15, else C.
	GradeAMinROI = 25.0
	GradeBMinROI = 15.0
)

// AnalyzeInvestment converts price/estimate/repair signals into an ROI
// projection. ROI is defined as 0 when the total investment is 0, so a
// free listing never divides by zero.
func AnalyzeInvestment(p models.Property, sig models.DistressSignal) models.InvestmentAnalysis {
	marketValue := float64(p.Price)
	if p.Zestimate != nil {
		marketValue = float64(*p.Zestimate)
	}

	var repairs float64
	if sig.VisualDistress {
		repairs = RepairCostRatio * marketValue
	}

	totalInvestment := float64(p.Price) + repairs
	potentialProfit := marketValue - totalInvestment

	var roi float64
	if totalInvestment != 0 {
		roi = 100 * potentialProfit / totalInvestment
	}

	// Risk factors append in check order; the checks are mutually distinct
	// so no dedup is needed.
	var riskFactors []string
	if sig.HighDaysOnMarket {
		riskFactors = append(riskFactors, "Market resistance")
	}
	if sig.VisualDistress {
		riskFactors = append(riskFactors, "Repair uncertainty")
	}
	if sig.NeighborhoodDecline {
		riskFactors = append(riskFactors, "Area decline")
	}

	return models.InvestmentAnalysis{
		MarketValue:      marketValue,
		CurrentPrice:     p.Price,
		EstimatedRepairs: repairs,
		PotentialProfit:  potentialProfit,
		ROIPercentage:    roi,
		InvestmentGrade:  grade(roi),
		RiskFactors:      riskFactors,
	}
}

// grade assigns the letter grade, first match wins top-down.
func grade(roi float64) string {
	switch {
	case roi > GradeAMinROI:
		return "A"
	case roi > GradeBMinROI:
		return "B"
	default:
		return "C"
	}
}
