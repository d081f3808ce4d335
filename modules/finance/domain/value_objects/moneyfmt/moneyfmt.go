// Package moneyfmt renders decimal amounts as localized currency strings
// for API views. Storage stays decimal; formatting is presentation only.
package moneyfmt

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Format renders amount in the given ISO currency code, e.g. "₹1,250.00".
func Format(amount decimal.Decimal, code string) string {
	minor := amount.Mul(hundred).Round(0).IntPart()
	return money.New(minor, code).Display()
}
