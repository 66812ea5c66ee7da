package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"salesdash/pkg/apperrors"
)

// ParseQuantity parses a non-negative quantity. Callers substitute 0 on error.
func ParseQuantity(value string) (float64, error) {
	s := strings.TrimSpace(value)
	q, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &apperrors.ParseError{Kind: apperrors.ParseQuantity, Value: value, Err: err}
	}
	if q.IsNegative() {
		return 0, &apperrors.ParseError{Kind: apperrors.ParseQuantity, Value: value, Err: errNegativeAmount}
	}
	return q.InexactFloat64(), nil
}

// PaidAmount multiplies a unit price by a quantity without float drift.
func PaidAmount(unitPrice, quantity float64) float64 {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromFloat(quantity)).Round(2).InexactFloat64()
}
