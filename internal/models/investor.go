package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRange is an inclusive [Min, Max] purchase-price band.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether price falls inside the band, inclusive on both ends.
func (r PriceRange) Contains(price int) bool {
	return price >= r.Min && price <= r.Max
}

// InvestorProfile is an externally supplied buyer profile with matching
// criteria. Never derived by the pipeline.
type InvestorProfile struct {
	InvestorID         string          `json:"investor_id" binding:"required"`
	Name               string          `json:"name" binding:"required"`
	Email              string          `json:"email" binding:"required,email"`
	Phone              *string         `json:"phone,omitempty"`
	PreferredMarkets   []string        `json:"preferred_markets" binding:"required,min=1"`
	PriceRange         PriceRange      `json:"price_range"`
	PropertyTypes      []string        `json:"property_types" binding:"required,min=1"`
	InvestmentStrategy string          `json:"investment_strategy"`
	RiskTolerance      string          `json:"risk_tolerance"`
	DealVelocity       int             `json:"deal_velocity"`
	SubscriptionTier   LeadTier        `json:"subscription_tier" binding:"required,oneof=bronze silver gold platinum"`
	CreditBalance      decimal.Decimal `json:"credit_balance"`
	LastPurchase       *time.Time      `json:"last_purchase,omitempty"`
}

// AcceptsPropertyType reports whether the investor buys the given type.
func (p InvestorProfile) AcceptsPropertyType(propertyType string) bool {
	for _, t := range p.PropertyTypes {
		if t == propertyType {
			return true
		}
	}
	return false
}
