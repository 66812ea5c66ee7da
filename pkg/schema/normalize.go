package schema

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanColumnName trims whitespace and strips the ":" left over from
// key-style headers ("id:" in markup sources).
func CleanColumnName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(norm.NFC.String(name), ":", ""))
}

// NormalizeKey canonicalizes a join key so that "7", " 7 " and "7.0" from
// different source formats compare equal.
func NormalizeKey(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// NormalizeAttribute canonicalizes a contact attribute value before it
// becomes an identity graph node. It returns "" for values that must never
// link two users.
//   - all kinds: NFC, trim
//   - email: lowercase
//   - address: lowercase, strip diacritics, collapse whitespace
//   - phone: keep digits and a leading "+"
func NormalizeAttribute(attr ContactAttribute, value string) string {
	s := strings.TrimSpace(norm.NFC.String(value))
	if s == "" {
		return ""
	}

	switch attr {
	case AttrEmail:
		return strings.ToLower(s)
	case AttrAddress:
		return strings.Join(strings.Fields(strings.ToLower(stripDiacritics(s))), " ")
	case AttrPhone:
		return normalizePhone(s)
	default:
		return s
	}
}

// normalizePhone keeps digits and a leading plus sign.
func normalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}

// stripDiacritics removes diacritical marks (accents) from a string.
// It decomposes the string into NFD form and removes combining marks (unicode.Mn).
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var result strings.Builder
	result.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

// LessID orders integer ids numerically, before any non-integer id, which
// compare lexically.
func LessID(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
