// Package moneypkg provides fixed-point currency amount handling.
//
// All amounts carry exactly two decimal places. External input is parsed
// with Parse, which rejects anything the ledger cannot represent instead
// of rounding it.
package moneypkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinUnit is the smallest currency increment the ledger accepts.
var MinUnit = decimal.New(1, -2) // 0.01

var (
	// ErrNotANumber indicates that the amount cannot be parsed as a number.
	ErrNotANumber = errors.New("amount is not a number")
	// ErrNotPositive indicates a zero or negative amount.
	ErrNotPositive = errors.New("amount must be positive")
	// ErrBelowMinUnit indicates an amount smaller than MinUnit.
	ErrBelowMinUnit = errors.New("amount is below the minimum unit")
	// ErrTooPrecise indicates an amount with more than two decimal places.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
)

// Parse validates raw amount input and returns it as an exact decimal.
//
// Sub-minimum and over-precise values are rejected, never clamped.
func Parse(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, ErrNotANumber
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrNotPositive
	}

	if d.LessThan(MinUnit) {
		return decimal.Decimal{}, ErrBelowMinUnit
	}

	// Compare against the truncated value rather than the exponent so
	// trailing zeros ("0.010") do not count as extra precision.
	if !d.Equal(d.Truncate(2)) {
		return decimal.Decimal{}, ErrTooPrecise
	}

	return d, nil
}

// String renders an amount with exactly two decimal places.
func String(d decimal.Decimal) string {
	return d.StringFixed(2)
}
