package normalize

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"salesdash/pkg/apperrors"
)

// Currency is the currency a price string was written in.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// DefaultEURRate is the fixed EUR to USD conversion factor.
const DefaultEURRate = 1.2

var (
	errNoDigits       = errors.New("no digits")
	errNegativeAmount = errors.New("negative amount")
)

// currencyGlyphs are collapsed to the decimal marker before digit grouping.
var currencyGlyphs = strings.NewReplacer("$", ".", "€", ".", "¢", ".", ",", ".")

// CurrencyNormalizer converts free-form price strings into USD amounts.
type CurrencyNormalizer struct {
	eurRate decimal.Decimal
}

// NewCurrencyNormalizer returns a normalizer converting EUR at eurRate.
// A non-positive rate falls back to DefaultEURRate.
func NewCurrencyNormalizer(eurRate float64) *CurrencyNormalizer {
	if eurRate <= 0 {
		eurRate = DefaultEURRate
	}
	return &CurrencyNormalizer{eurRate: decimal.NewFromFloat(eurRate)}
}

// DetectCurrency reports EUR when the value carries a Euro sign or the
// substring "eur" (case-insensitive), USD otherwise.
func DetectCurrency(value string) Currency {
	s := strings.ToLower(value)
	if strings.Contains(s, "€") || strings.Contains(s, "eur") {
		return EUR
	}
	return USD
}

// Parse converts a price string into a non-negative USD amount rounded to
// two decimal places:
//  1. Trim and lowercase; detect EUR by "€" or "eur".
//  2. Replace $, €, ¢ and , with "." and drop everything but digits and ".".
//  3. Split on "." and drop empty groups. Two groups are read as a plain
//     decimal. With three or more, a trailing group of at most two digits
//     is the fraction and all other groups are concatenated.
//  4. Convert EUR at the configured rate and round.
//
// This is a grouping heuristic, not a locale-aware parser: "1,234.56" and
// "1.234,56" both read as 1234.56, while "1,234" reads as 1.234.
func (n *CurrencyNormalizer) Parse(value string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if strings.Contains(s, "-") {
		return 0, &apperrors.ParseError{Kind: apperrors.ParseCurrency, Value: value, Err: errNegativeAmount}
	}

	numeric, err := joinDigitGroups(stripCurrencySigns(s))
	if err != nil {
		return 0, &apperrors.ParseError{Kind: apperrors.ParseCurrency, Value: value, Err: err}
	}

	amount, err := decimal.NewFromString(numeric)
	if err != nil {
		return 0, &apperrors.ParseError{Kind: apperrors.ParseCurrency, Value: value, Err: err}
	}

	if DetectCurrency(s) == EUR {
		amount = amount.Mul(n.eurRate)
	}

	return amount.Round(2).InexactFloat64(), nil
}

// stripCurrencySigns turns currency and grouping glyphs into "." and keeps
// only ASCII digits and ".".
func stripCurrencySigns(s string) string {
	s = currencyGlyphs.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// joinDigitGroups rebuilds a parseable number from "."-separated digit groups.
func joinDigitGroups(s string) (string, error) {
	groups := make([]string, 0, 4)
	for _, g := range strings.Split(s, ".") {
		if g != "" {
			groups = append(groups, g)
		}
	}

	switch len(groups) {
	case 0:
		return "", errNoDigits
	case 1:
		return groups[0], nil
	case 2:
		return groups[0] + "." + groups[1], nil
	}

	last := groups[len(groups)-1]
	if len(last) <= 2 {
		return strings.Join(groups[:len(groups)-1], "") + "." + last, nil
	}
	return strings.Join(groups, ""), nil
}
