package domain

import "github.com/shopspring/decimal"

// Scale is the number of decimal places for stored currency and unit quantities.
const Scale int32 = 4

// Quantize rounds half-up (away from zero) to Scale places.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ValidAmount reports whether d is positive and already representable at Scale.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(Scale))
}
