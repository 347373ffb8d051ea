// Package payments wraps external payment capture behind a small interface
// so the marketplace service can be tested without a live provider.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// ErrMissingAPIKey indicates the payment provider key is absent from the
// environment. Checked at call time, not startup.
var ErrMissingAPIKey = errors.New("STRIPE_SECRET_KEY is not set")

// CaptureRequest describes one payment capture.
type CaptureRequest struct {
	Amount          decimal.Decimal
	Currency        string
	PaymentMethodID string
	CustomerID      string
	Description     string
}

// Result is the outcome of a capture attempt. A declined payment is a
// normal result with Succeeded false, not an error.
type Result struct {
	Succeeded       bool
	PaymentIntentID string
	FailureReason   string
}

// Processor captures payments.
type Processor interface {
	// Capture attempts to confirm the payment. It returns an error only for
	// configuration problems and provider call failures; a decline comes
	// back as a Result with Succeeded false.
	Capture(ctx context.Context, req CaptureRequest) (Result, error)
}

// StripeProcessor captures payments via Stripe PaymentIntents.
type StripeProcessor struct {
	apiKey string
}

// NewStripeProcessor creates a Stripe-backed processor. An empty key is
// allowed here; Capture reports ErrMissingAPIKey when used.
func NewStripeProcessor(apiKey string) *StripeProcessor {
	return &StripeProcessor{apiKey: apiKey}
}

// Capture creates and confirms a PaymentIntent for the requested amount.
func (p *StripeProcessor) Capture(ctx context.Context, req CaptureRequest) (Result, error) {
	if p.apiKey == "" {
		return Result{}, ErrMissingAPIKey
	}

	sc := &client.API{}
	sc.Init(p.apiKey, nil)

	currency := req.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(toCents(req.Amount)),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Customer:      stripe.String(req.CustomerID),
		Description:   stripe.String(req.Description),
		Confirm:       stripe.Bool(true),
	}

	intent, err := sc.PaymentIntents.New(params)
	if err != nil {
		return Result{}, fmt.Errorf("stripe payment intent failed: %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return Result{
			Succeeded:       false,
			PaymentIntentID: intent.ID,
			FailureReason:   fmt.Sprintf("payment not completed: status %s", intent.Status),
		}, nil
	}

	return Result{
		Succeeded:       true,
		PaymentIntentID: intent.ID,
	}, nil
}

// toCents converts a decimal dollar amount to integer cents, the unit
// Stripe expects.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
