package schema

import (
	"strings"
)

// HeaderMappings maps normalized header spellings to canonical column names.
// Only columns the pipeline reads by name are listed; other headers pass
// through with their trimmed spelling.
var HeaderMappings = map[string]string{
	// Identifiers
	"id":      ColID,
	"orderid": ColOrderID,
	"userid":  ColUserID,
	"bookid":  ColBookID,

	// Pricing
	"unitprice": ColUnitPrice,
	"quantity":  ColQuantity,
	"qty":       ColQuantity,

	// Time
	"timestamp": ColTimestamp,
	"datetime":  ColTimestamp,
	"orderdate": ColTimestamp,

	// Contact
	"email":        ColEmail,
	"emailaddress": ColEmail,
	"mail":         ColEmail,
	"phone":        ColPhone,
	"phonenumber":  ColPhone,
	"tel":          ColPhone,
	"address":      ColAddress,

	// Books
	"author":  ColAuthor,
	"authors": ColAuthor,
	"title":   ColTitle,
}

// CanonicalizeHeaders cleans raw headers and maps known spellings to
// canonical names:
//  1. Trim whitespace and strip ":" (CleanColumnName)
//  2. Exact match of the normalized header against HeaderMappings
//  3. First header to claim a canonical name wins; later ones keep their
//     cleaned spelling
func CanonicalizeHeaders(headers []string) []string {
	result := make([]string, len(headers))
	usedTargets := make(map[string]bool, len(headers))

	// Headers already spelled canonically claim their name first.
	for i, header := range headers {
		cleaned := CleanColumnName(header)
		result[i] = cleaned
		if target, ok := HeaderMappings[normalizeHeader(cleaned)]; ok && target == cleaned {
			usedTargets[target] = true
		}
	}

	for i, cleaned := range result {
		target, ok := HeaderMappings[normalizeHeader(cleaned)]
		if !ok || target == cleaned || usedTargets[target] {
			continue
		}
		result[i] = target
		usedTargets[target] = true
	}

	return result
}

// normalizeHeader lowercases a header string and strips whitespace, underscores, and hyphens.
func normalizeHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
