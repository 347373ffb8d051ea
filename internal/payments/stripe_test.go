package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCapture_MissingAPIKey(t *testing.T) {
	processor := NewStripeProcessor("")

	_, err := processor.Capture(context.Background(), CaptureRequest{
		Amount:          decimal.NewFromInt(150),
		PaymentMethodID: "pm_test",
	})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestToCents(t *testing.T) {
	tests := []struct {
		amount   string
		expected int64
	}{
		{"150", 15000},
		{"225", 22500},
		{"0.5", 50},
		{"0", 0},
		{"499.99", 49999},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, toCents(decimal.RequireFromString(tt.amount)))
		})
	}
}
