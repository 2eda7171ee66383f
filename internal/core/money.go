// Package core provides amount parsing and formatting utilities.
//
// Amounts are kept as exact decimals; only display rounds to two
// fractional digits.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user or file text to a positive decimal amount.
//
// Surrounding whitespace is ignored. Returns ErrInvalidAmount for text that is
// not a number and ErrNonPositiveAmount for zero or negative values, both
// wrapped in a *ValidationError.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("1000")  -> 1000, nil
//   ParseAmount("-5")    -> 0, ErrNonPositiveAmount
//   ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := ParseNumber(s)
	if err != nil {
		return decimal.Zero, err
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseNumber parses any decimal number, sign included.
func ParseNumber(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Err: ErrInvalidAmount}
	}
	return d, nil
}

// ValidateAmount reports ErrNonPositiveAmount unless d > 0.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return &ValidationError{Field: "amount", Value: d.String(), Err: ErrNonPositiveAmount}
	}
	return nil
}

// FormatAmount renders d with exactly two fractional digits, e.g. "250.00".
// Exact halves round to even: 0.125 -> "0.12", 0.135 -> "0.14".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixedBank(2)
}
