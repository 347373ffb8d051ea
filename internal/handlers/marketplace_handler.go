package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/propsignal/leadmarket/internal/apierrors"
	"github.com/propsignal/leadmarket/internal/marketplace"
	"github.com/propsignal/leadmarket/internal/middleware"
	"github.com/propsignal/leadmarket/internal/models"
	"github.com/propsignal/leadmarket/internal/payments"
)

// MarketplaceHandler handles lead marketplace HTTP requests.
type MarketplaceHandler struct {
	service *marketplace.Service
}

// NewMarketplaceHandler creates a new MarketplaceHandler instance.
func NewMarketplaceHandler(service *marketplace.Service) *MarketplaceHandler {
	return &MarketplaceHandler{
		service: service,
	}
}

// RegisterResponse acknowledges an investor registration.
type RegisterResponse struct {
	RegistrationSuccessful bool   `json:"registration_successful"`
	InvestorID             string `json:"investor_id"`
	SubscriptionTier       string `json:"subscription_tier"`
}

// RegisterInvestor handles POST /register-investor.
func (h *MarketplaceHandler) RegisterInvestor(c *gin.Context) {
	var investor models.InvestorProfile
	if err := c.ShouldBindJSON(&investor); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	h.service.RegisterInvestor(investor)

	c.JSON(http.StatusOK, RegisterResponse{
		RegistrationSuccessful: true,
		InvestorID:             investor.InvestorID,
		SubscriptionTier:       string(investor.SubscriptionTier),
	})
}

// LeadResponse reports the outcome of processing an overflow lead.
type LeadResponse struct {
	PackageCreated bool             `json:"package_created"`
	Reason         string           `json:"reason,omitempty"`
	PackageID      string           `json:"package_id,omitempty"`
	LeadTier       string           `json:"lead_tier,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
}

// ProcessOverflowLead handles POST /process-overflow-lead.
// Accepts a fully analyzed property and either packages it for sale or
// rejects it at the quality gate.
func (h *MarketplaceHandler) ProcessOverflowLead(c *gin.Context) {
	log := middleware.GetLogger(c)

	var intel models.PropertyIntelligence
	if err := c.ShouldBindJSON(&intel); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result := h.service.ProcessOverflowLead(c.Request.Context(), intel)
	if !result.Created {
		c.JSON(http.StatusOK, LeadResponse{
			PackageCreated: false,
			Reason:         result.Reason,
		})
		return
	}

	if log != nil {
		log.Info("Lead packaged", map[string]interface{}{
			"package_id": result.Package.PackageID,
			"lead_tier":  result.Package.LeadTier,
		})
	}

	c.JSON(http.StatusOK, LeadResponse{
		PackageCreated: true,
		PackageID:      result.Package.PackageID,
		LeadTier:       string(result.Package.LeadTier),
		Price:          &result.Package.Price,
	})
}

// MarketplaceResponse lists the active inventory.
type MarketplaceResponse struct {
	TotalListings  int                         `json:"total_listings"`
	Listings       []models.MarketplaceListing `json:"listings"`
	RevenueMetrics models.RevenueMetrics       `json:"revenue_metrics"`
}

// Marketplace handles GET /marketplace.
func (h *MarketplaceHandler) Marketplace(c *gin.Context) {
	listings, metrics := h.service.MarketplaceView()

	c.JSON(http.StatusOK, MarketplaceResponse{
		TotalListings:  len(listings),
		Listings:       listings,
		RevenueMetrics: metrics,
	})
}

// PurchaseRequest identifies the package, buyer, and payment instrument.
type PurchaseRequest struct {
	InvestorID      string `json:"investor_id" binding:"required"`
	PackageID       string `json:"package_id" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

// PurchaseResponse reports the outcome of a purchase attempt.
type PurchaseResponse struct {
	PurchaseSuccessful bool                     `json:"purchase_successful"`
	Error              string                   `json:"error,omitempty"`
	PaymentIntentID    string                   `json:"payment_intent_id,omitempty"`
	PackageData        *marketplace.FullPackage `json:"package_data,omitempty"`
	ExclusiveUntil     string                   `json:"exclusive_until,omitempty"`
}

// PurchaseLead handles POST /purchase-lead.
func (h *MarketplaceHandler) PurchaseLead(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.service.PurchaseLead(c.Request.Context(), req.InvestorID, req.PackageID, req.PaymentMethodID)
	if err != nil {
		if errors.Is(err, marketplace.ErrPackageNotFound) {
			apierrors.NotFound(c, "Package not found")
			return
		}
		if errors.Is(err, marketplace.ErrInvestorNotFound) {
			apierrors.NotFound(c, "Investor not found")
			return
		}
		if errors.Is(err, payments.ErrMissingAPIKey) {
			apierrors.Configuration(c, err.Error())
			return
		}
		apierrors.Upstream(c, "Payment processing failed", err)
		return
	}

	if !result.Successful {
		c.JSON(http.StatusOK, PurchaseResponse{
			PurchaseSuccessful: false,
			Error:              result.FailureReason,
		})
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{
		PurchaseSuccessful: true,
		PaymentIntentID:    result.PaymentIntentID,
		PackageData:        result.PackageData,
		ExclusiveUntil:     result.ExclusiveUntil.Format(time.RFC3339),
	})
}

// RevenueDashboard handles GET /revenue-dashboard.
func (h *MarketplaceHandler) RevenueDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Dashboard())
}
