package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/apperrors"
)

func TestCurrencyNormalizer_Parse(t *testing.T) {
	n := NewCurrencyNormalizer(DefaultEURRate)

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "dollar sign", input: "$12.50", want: 12.50},
		{name: "eur suffix converts", input: "10 EUR", want: 12.0},
		{name: "euro sign with comma decimal", input: "€10,00", want: 12.0},
		{name: "thousands comma", input: "1,234.56", want: 1234.56},
		{name: "dotted thousands comma decimal", input: "1.234,56", want: 1234.56},
		{name: "single separator is the decimal point", input: "1,234", want: 1.23},
		{name: "long fraction rounds half up", input: "0.125", want: 0.13},
		{name: "three fraction digits stay a fraction", input: "$12.999", want: 13.0},
		{name: "euro with three fraction digits", input: "€2.500", want: 3.0},
		{name: "grouped thousands without fraction", input: "1.234.567", want: 1234567},
		{name: "plain integer", input: "42", want: 42},
		{name: "surrounding whitespace", input: "  $ 7.5  ", want: 7.5},
		{name: "uppercase currency word", input: "5 Euro", want: 6.0},
		{name: "trailing dollar sign", input: "19.99$", want: 19.99},
		{name: "rounds after conversion", input: "€1.234,56", want: 1481.47},
		{name: "usd word is reference currency", input: "3.10 USD", want: 3.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Parse(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCurrencyNormalizer_ParseErrors(t *testing.T) {
	n := NewCurrencyNormalizer(DefaultEURRate)

	for _, input := range []string{"", "free", "   ", "$", "-5", "$-12.50", "N/A"} {
		t.Run(input, func(t *testing.T) {
			_, err := n.Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrParse)
			assert.True(t, apperrors.IsParseKind(err, apperrors.ParseCurrency))
		})
	}
}

func TestCurrencyNormalizer_CustomRate(t *testing.T) {
	got, err := NewCurrencyNormalizer(1.5).Parse("10 eur")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 1e-9)

	got, err = NewCurrencyNormalizer(0).Parse("10 eur")
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got, 1e-9, "non-positive rate falls back to default")
}

func TestDetectCurrency(t *testing.T) {
	assert.Equal(t, EUR, DetectCurrency("€3"))
	assert.Equal(t, EUR, DetectCurrency("3 EUR"))
	assert.Equal(t, USD, DetectCurrency("$3"))
	assert.Equal(t, USD, DetectCurrency("3"))
}

func TestJoinDigitGroups(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{".12.50", "12.50"},
		{"1.234.56", "1234.56"},
		{"1.234", "1.234"},
		{"0.125", "0.125"},
		{"1.234.567", "1234567"},
		{"..7..", "7"},
		{"1.5", "1.5"},
	}
	for _, tt := range tests {
		got, err := joinDigitGroups(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := joinDigitGroups("...")
	assert.ErrorIs(t, err, errNoDigits)
}
