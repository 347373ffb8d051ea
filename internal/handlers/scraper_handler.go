package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/propsignal/leadmarket/internal/apierrors"
	"github.com/propsignal/leadmarket/internal/middleware"
	"github.com/propsignal/leadmarket/internal/scraper"
)

// ScraperHandler handles property acquisition HTTP requests.
type ScraperHandler struct {
	service *scraper.Service
}

// NewScraperHandler creates a new ScraperHandler instance.
func NewScraperHandler(service *scraper.Service) *ScraperHandler {
	return &ScraperHandler{
		service: service,
	}
}

// Scrape handles POST /scrape-properties.
// Fetches candidate listings, runs the analysis pipeline, and returns the
// ranked report.
func (h *ScraperHandler) Scrape(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req scraper.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing scrape request", map[string]interface{}{
			"location":      req.Location,
			"property_type": req.PropertyType,
		})
	}

	report, err := h.service.ScrapeAndAnalyze(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, scraper.ErrMissingAPIKey) {
			apierrors.Configuration(c, err.Error())
			return
		}
		apierrors.Upstream(c, "Property scrape failed", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ScraperHealthResponse is the scraper liveness payload.
type ScraperHealthResponse struct {
	Status       string `json:"status"`
	AnalysisRuns int    `json:"analysis_runs"`
}

// Health handles GET /health.
func (h *ScraperHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, ScraperHealthResponse{
		Status:       "ok",
		AnalysisRuns: h.service.Runs(),
	})
}

// ScraperMetricsResponse is the scraper metrics payload.
type ScraperMetricsResponse struct {
	PropertiesAnalyzed int                    `json:"properties_analyzed"`
	CacheSize          int                    `json:"cache_size"`
	LatticePerformance map[string]interface{} `json:"lattice_performance"`
}

// Metrics handles GET /metrics.
func (h *ScraperHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, ScraperMetricsResponse{
		PropertiesAnalyzed: h.service.Runs(),
		CacheSize:          h.service.CacheSize(),
		LatticePerformance: h.service.Diagnostics(),
	})
}
