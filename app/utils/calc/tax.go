package calc

import "github.com/shopspring/decimal"

var taxPercent = decimal.Zero

func SetTaxPercent(percent decimal.Decimal) {
	taxPercent = percent
}

func GetTaxPercent() decimal.Decimal {
	return taxPercent
}

func CalculateTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxPercent).Div(decimal.NewFromInt(100)).Round(2)
}
