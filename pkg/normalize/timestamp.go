package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"salesdash/pkg/apperrors"
)

// DateKeyLayout is the canonical date key format.
const DateKeyLayout = "2006-01-02"

// meridiemMarkers canonicalizes dotted AM/PM markers and drops commas that
// otherwise break generic datetime parsing.
var meridiemMarkers = strings.NewReplacer(
	"A.M.", "AM",
	"P.M.", "PM",
	"a.m.", "AM",
	"p.m.", "PM",
	",", " ",
)

// Layouts tried before falling back to dateparse. Month-first for slashed dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2 2006 3:04 PM",
	"Jan 2 2006 3:04:05 PM",
	"Jan 2 2006 15:04",
	"Jan 2 2006",
	"January 2 2006 3:04 PM",
	"January 2 2006 3:04:05 PM",
	"January 2 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"01/02/2006 3:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02 15:04:05",
}

// TimestampNormalizer parses locale-inconsistent datetime strings.
type TimestampNormalizer struct {
	loc *time.Location
}

// NewTimestampNormalizer returns a normalizer that interprets zone-less
// timestamps in UTC.
func NewTimestampNormalizer() *TimestampNormalizer {
	return &TimestampNormalizer{loc: time.UTC}
}

// CanonicalizeTimestamp applies the textual substitutions and collapses
// whitespace.
func CanonicalizeTimestamp(value string) string {
	return strings.Join(strings.Fields(meridiemMarkers.Replace(value)), " ")
}

// Parse converts a timestamp string into a time.Time.
func (n *TimestampNormalizer) Parse(value string) (time.Time, error) {
	s := CanonicalizeTimestamp(value)
	if s == "" {
		return time.Time{}, &apperrors.ParseError{Kind: apperrors.ParseTimestamp, Value: value}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(s, n.loc)
	if err != nil {
		return time.Time{}, &apperrors.ParseError{Kind: apperrors.ParseTimestamp, Value: value, Err: err}
	}
	return t, nil
}

// DateKey returns the YYYY-MM-DD date of the parsed timestamp, taken in the
// timestamp's own offset.
func (n *TimestampNormalizer) DateKey(value string) (string, error) {
	t, err := n.Parse(value)
	if err != nil {
		return "", err
	}
	return t.Format(DateKeyLayout), nil
}
