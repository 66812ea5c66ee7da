package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/apperrors"
)

func TestCanonicalizeTimestamp(t *testing.T) {
	assert.Equal(t, "Jan 1 2024 3:00 PM", CanonicalizeTimestamp("Jan 1, 2024, 3:00 P.M."))
	assert.Equal(t, "Mar 5 2024 9:15 AM", CanonicalizeTimestamp("  Mar 5,2024  9:15 a.m. "))
}

func TestTimestampNormalizer_DateKey(t *testing.T) {
	n := NewTimestampNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dotted pm with commas", input: "Jan 1, 2024, 3:00 P.M.", want: "2024-01-01"},
		{name: "dotted am", input: "Dec 31, 2023, 11:59 A.M.", want: "2023-12-31"},
		{name: "iso datetime", input: "2024-02-29 23:10:00", want: "2024-02-29"},
		{name: "rfc3339 keeps own offset", input: "2024-03-01T23:30:00-05:00", want: "2024-03-01"},
		{name: "us slashed date", input: "04/07/2024 18:00", want: "2024-04-07"},
		{name: "long month", input: "January 15, 2024", want: "2024-01-15"},
		{name: "dateparse fallback", input: "2024/3/5", want: "2024-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.DateKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimestampNormalizer_ParseError(t *testing.T) {
	n := NewTimestampNormalizer()

	for _, input := range []string{"not a date", " , "} {
		_, err := n.DateKey(input)
		require.Error(t, err, input)
		assert.True(t, apperrors.IsParseKind(err, apperrors.ParseTimestamp))
	}
}
