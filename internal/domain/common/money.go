// internal/domain/common/money.go
package common

import "github.com/shopspring/decimal"

// LineTotal returns price × qty using decimal arithmetic.
func LineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}

// ToAmount rounds a decimal to cents and converts it back for storage.
func ToAmount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// RoundAmount normalizes a float amount to cents.
func RoundAmount(v float64) float64 {
	return ToAmount(decimal.NewFromFloat(v))
}
