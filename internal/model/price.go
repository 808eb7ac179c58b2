package model

import "github.com/shopspring/decimal"

// EuroSuffix follows every formatted price.
const EuroSuffix = " €"

// FormatAmount renders v with two decimals, rounding half away from zero.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPrice renders v as a euro price, e.g. "5.95 €".
func FormatPrice(v float64) string {
	return FormatAmount(v) + EuroSuffix
}

// FormatOptionalAmount renders v with two decimals, or "" when v is absent.
func FormatOptionalAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatAmount(*v)
}

// PerKilo divides price by weight in decimal arithmetic, rounded to cents.
// It returns false when the weight is not positive.
func PerKilo(price, weight float64) (float64, bool) {
	if weight <= 0 {
		return 0, false
	}
	v, _ := decimal.NewFromFloat(price).DivRound(decimal.NewFromFloat(weight), 2).Float64()
	return v, true
}
