package scraper

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/propsignal/leadmarket/internal/analysis"
	"github.com/propsignal/leadmarket/internal/logger"
	"github.com/propsignal/leadmarket/internal/models"
	"github.com/propsignal/leadmarket/internal/visual"
)

// analyzeLimit caps how many fetched listings go through the full analysis
// pass per run; the remainder only count toward total_properties_found.
const analyzeLimit = 10

// highPriorityThreshold marks a lead as high priority in scrape reports.
const highPriorityThreshold = 70.0

// Report is the outcome of one scrape-and-analyze run.
type Report struct {
	TotalPropertiesFound int                           `json:"total_properties_found"`
	AnalyzedProperties   int                           `json:"analyzed_properties"`
	HighPriorityLeads    int                           `json:"high_priority_leads"`
	Properties           []models.PropertyIntelligence `json:"properties"`
	AnalyzerDiagnostics  map[string]interface{}        `json:"lattice_diagnostics"`
	AnalysisTimestamp    time.Time                     `json:"analysis_timestamp"`
}

// Service fetches candidate listings and runs the analysis pipeline over
// them: visual pass, distress signals, investment math, contract
// recommendation, market position.
type Service struct {
	source   PropertySource
	analyzer visual.Analyzer
	log      *logger.Logger
	now      func() time.Time

	mu      sync.Mutex
	history []time.Time
	cache   map[string]models.PropertyIntelligence
}

func NewService(source PropertySource, analyzer visual.Analyzer, log *logger.Logger) *Service {
	return &Service{
		source:   source,
		analyzer: analyzer,
		log:      log,
		now:      time.Now,
		cache:    make(map[string]models.PropertyIntelligence),
	}
}

// ScrapeAndAnalyze runs one acquisition pass. Source errors propagate to the
// caller untouched so the transport layer can map them.
func (s *Service) ScrapeAndAnalyze(ctx context.Context, req SearchRequest) (*Report, error) {
	req.normalize()

	properties, err := s.source.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates := properties
	if len(candidates) > analyzeLimit {
		candidates = candidates[:analyzeLimit]
	}

	analyzed := make([]models.PropertyIntelligence, 0, len(candidates))
	for _, prop := range candidates {
		analyzed = append(analyzed, s.analyzeOne(ctx, prop, req))
	}

	// Hottest leads first; ties keep fetch order.
	sort.SliceStable(analyzed, func(i, j int) bool {
		return analyzed[i].DistressSignals.OverallScore > analyzed[j].DistressSignals.OverallScore
	})

	highPriority := 0
	for _, intel := range analyzed {
		if intel.DistressSignals.OverallScore > highPriorityThreshold {
			highPriority++
		}
	}

	now := s.now()
	s.mu.Lock()
	s.history = append(s.history, now)
	for _, intel := range analyzed {
		s.cache[intel.Property.ZPID] = intel
	}
	s.mu.Unlock()

	s.log.Info("scrape run complete", map[string]interface{}{
		"found":         len(properties),
		"analyzed":      len(analyzed),
		"high_priority": highPriority,
	})

	return &Report{
		TotalPropertiesFound: len(properties),
		AnalyzedProperties:   len(analyzed),
		HighPriorityLeads:    highPriority,
		Properties:           analyzed,
		AnalyzerDiagnostics:  s.analyzer.Diagnostics(),
		AnalysisTimestamp:    now,
	}, nil
}

func (s *Service) analyzeOne(ctx context.Context, prop models.Property, req SearchRequest) models.PropertyIntelligence {
	var visualResult models.VisualAnalysis
	if *req.IncludePhotos && *req.EnableLatticeAnalysis {
		var err error
		visualResult, err = s.analyzer.AnalyzePhotos(ctx, prop.Photos)
		if err != nil {
			// A property with no usable photos still flows through the
			// pipeline with a zero visual score.
			s.log.Warn("photo analysis failed", map[string]interface{}{
				"zpid":  prop.ZPID,
				"error": err.Error(),
			})
			visualResult = models.VisualAnalysis{}
		}
	}

	distress := analysis.DetectDistressSignals(prop, visualResult)
	investment := analysis.AnalyzeInvestment(prop, distress)

	return models.PropertyIntelligence{
		Property:               prop,
		DistressSignals:        distress,
		GeometricAnalysis:      visualResult,
		MarketPosition:         analysis.MarketPosition(prop),
		InvestmentOpportunity:  investment,
		ContractRecommendation: analysis.ContractRecommendation(distress),
	}
}

// Runs reports how many analysis passes have completed.
func (s *Service) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// CacheSize reports how many distinct properties have been analyzed.
func (s *Service) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Cached returns the latest intelligence for a property, if analyzed.
func (s *Service) Cached(zpid string) (models.PropertyIntelligence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intel, ok := s.cache[zpid]
	return intel, ok
}

// Diagnostics exposes the analyzer's identity for health and metrics views.
func (s *Service) Diagnostics() map[string]interface{} {
	return s.analyzer.Diagnostics()
}
