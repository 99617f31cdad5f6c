// Package money converts between the decimal currency units used at the API
// boundary and the integer minor units (cents) the core operates on.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/scroogebank/corebank/internal/apperrors"
)

var hundred = decimal.NewFromInt(100)

// ToCents converts a decimal amount of currency units to integer cents.
// Amounts with sub-cent precision are rejected rather than rounded, so a
// retried request can never be off by a cent from its first attempt.
func ToCents(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(hundred)
	if !cents.IsInteger() {
		return 0, apperrors.ErrValidation
	}
	if !cents.BigInt().IsInt64() {
		return 0, apperrors.ErrValidation
	}
	return cents.IntPart(), nil
}

// FromCents converts integer cents back to decimal currency units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}
