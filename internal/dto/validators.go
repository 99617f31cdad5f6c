package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PositiveAmount validates that a decimal amount is strictly positive and
// carries at most two decimal places, so it converts to cents exactly.
var PositiveAmount validator.Func = func(fl validator.FieldLevel) bool {
	amount, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return amount.IsPositive() && amount.Exponent() >= -2
}
