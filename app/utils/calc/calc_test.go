package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTax(t *testing.T) {
	SetTaxPercent(decimal.NewFromFloat(8.25))
	defer SetTaxPercent(decimal.Zero)

	tax := CalculateTax(decimal.NewFromFloat(9.98))
	assert.True(t, tax.Equal(decimal.NewFromFloat(0.82)), "got %s", tax)

	assert.True(t, CalculateTax(decimal.Zero).IsZero())
}

func TestCalculateTaxZeroPercent(t *testing.T) {
	SetTaxPercent(decimal.Zero)
	assert.True(t, CalculateTax(decimal.NewFromFloat(100)).IsZero())
}

func TestCalculateShipping(t *testing.T) {
	SetShippingRates(decimal.NewFromFloat(5.00), decimal.NewFromFloat(50.00))

	assert.True(t, CalculateShipping(decimal.NewFromFloat(9.98)).Equal(decimal.NewFromFloat(5.00)))
	assert.True(t, CalculateShipping(decimal.NewFromFloat(49.99)).Equal(decimal.NewFromFloat(5.00)))

	// Free shipping kicks in exactly at the threshold.
	assert.True(t, CalculateShipping(decimal.NewFromFloat(50.00)).IsZero())
	assert.True(t, CalculateShipping(decimal.NewFromFloat(120.50)).IsZero())
}
