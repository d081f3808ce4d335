// Package gst computes Goods and Services Tax amounts on book entries.
// All math stays in decimals; rounding to paise happens exactly once, at
// the tax amount.
package gst

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Standard slab rates, in percent.
var Rates = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(5),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
	decimal.NewFromInt(28),
}

// Amount returns the tax on base at ratePercent, rounded to 2 places
// half-up.
func Amount(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Mul(ratePercent).Div(hundred).Round(2)
}

// Gross returns base plus tax.
func Gross(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Add(Amount(base, ratePercent))
}

// ValidRate reports whether ratePercent is one of the standard slabs.
func ValidRate(ratePercent decimal.Decimal) bool {
	for _, r := range Rates {
		if r.Equal(ratePercent) {
			return true
		}
	}
	return false
}
