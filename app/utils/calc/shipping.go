package calc

import "github.com/shopspring/decimal"

var (
	flatShippingRate      = decimal.NewFromFloat(5.00)
	freeShippingThreshold = decimal.NewFromFloat(50.00)
)

func SetShippingRates(flatRate, freeThreshold decimal.Decimal) {
	flatShippingRate = flatRate
	freeShippingThreshold = freeThreshold
}

// CalculateShipping returns the flat rate, waived once the subtotal
// reaches the free-shipping threshold.
func CalculateShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShippingRate
}
