package models

// Property represents a scraped residential listing.
// Nullable fields use pointers to distinguish between zero values and
// absent data; a missing Zestimate changes the analysis rules, a Zestimate
// of zero does not mean "unknown".
// Immutable once ingested for a given analysis pass.
type Property struct {
	ZPID          string       `json:"zpid"`
	Address       string       `json:"address"`
	Price         int          `json:"price"`
	Bedrooms      int          `json:"bedrooms"`
	Bathrooms     float64      `json:"bathrooms"`
	Sqft          int          `json:"sqft"`
	LotSize       *float64     `json:"lot_size,omitempty"`
	YearBuilt     *int         `json:"year_built,omitempty"`
	PropertyType  string       `json:"property_type"`
	ListingDate   string       `json:"listing_date"`
	DaysOnMarket  int          `json:"days_on_market"`
	PriceHistory  []PriceEvent `json:"price_history"`
	Photos        []string     `json:"photos"`
	Description   string       `json:"description"`
	Neighborhood  string       `json:"neighborhood"`
	Zestimate     *int         `json:"zestimate,omitempty"`
	RentZestimate *int         `json:"rent_zestimate,omitempty"`
}

// PriceEvent is a single entry in a property's price history.
type PriceEvent struct {
	Date  string `json:"date"`
	Event string `json:"event"`
	Price int    `json:"price,omitempty"`
}

// PhotoAnalysis holds the per-photo output of the visual analyzer.
type PhotoAnalysis struct {
	PhotoIndex           int     `json:"photo_index"`
	LandmarkCount        int     `json:"landmark_count"`
	HighCurvatureRegions int     `json:"high_curvature_regions"`
	IrregularGeometry    float64 `json:"irregular_geometry"`
	VisualComplexity     int     `json:"visual_complexity"`
}

// GeometricSummary aggregates curvature statistics across a property's photos.
type GeometricSummary struct {
	AvgCurvature        float64 `json:"avg_curvature"`
	MaxCurvature        float64 `json:"max_curvature"`
	CurvatureVariance   float64 `json:"curvature_variance"`
	GeometricComplexity float64 `json:"geometric_complexity"`
}

// VisualAnalysis is the visual-analyzer output for one property.
// The zero value (no photos analyzed, score 0) is valid and is what
// photo-less properties carry through the pipeline.
type VisualAnalysis struct {
	PhotoAnalyses      []PhotoAnalysis  `json:"visual_analysis"`
	OverallVisualScore float64          `json:"overall_visual_score"`
	GeometricSummary   GeometricSummary `json:"geometric_summary"`
}

// DistressSignal holds six independent boolean indicators plus their
// aggregate score: 100 * (count of true signals) / 6.
// Derived, recomputed on every analysis pass, never cached.
type DistressSignal struct {
	PriceBelowMarket    bool    `json:"price_below_market"`
	HighDaysOnMarket    bool    `json:"high_days_on_market"`
	PriceReduction      bool    `json:"price_reduction"`
	VisualDistress      bool    `json:"visual_distress"`
	NeighborhoodDecline bool    `json:"neighborhood_decline"`
	GeometricAnomaly    bool    `json:"geometric_anomaly"`
	OverallScore        float64 `json:"overall_score"`
}

// InvestmentAnalysis converts price, estimate, and repair-cost signals into
// an ROI projection and a letter grade.
type InvestmentAnalysis struct {
	MarketValue      float64  `json:"market_value"`
	CurrentPrice     int      `json:"current_price"`
	EstimatedRepairs float64  `json:"estimated_repairs"`
	PotentialProfit  float64  `json:"potential_profit"`
	ROIPercentage    float64  `json:"roi_percentage"`
	InvestmentGrade  string   `json:"investment_grade"`
	RiskFactors      []string `json:"risk_factors"`
}

// MarketPosition summarizes where a listing sits relative to its market.
type MarketPosition struct {
	PriceRatio       float64 `json:"price_ratio"`
	MarketTime       int     `json:"market_time"`
	CompetitionLevel string  `json:"competition_level"`
}

// Contract recommendation values emitted by the analysis pipeline.
const (
	RecommendationImmediateOffer = "IMMEDIATE_OFFER"
	RecommendationWatchList      = "WATCH_LIST"
)

// PropertyIntelligence is the fully analyzed form of a property: the raw
// record plus every derived signal. This is what the scraper service emits
// and what the marketplace service consumes.
type PropertyIntelligence struct {
	Property               Property           `json:"property"`
	DistressSignals        DistressSignal     `json:"distress_signals"`
	GeometricAnalysis      VisualAnalysis     `json:"geometric_analysis"`
	MarketPosition         MarketPosition     `json:"market_position"`
	InvestmentOpportunity  InvestmentAnalysis `json:"investment_opportunity"`
	ContractRecommendation string             `json:"contract_recommendation"`
}
