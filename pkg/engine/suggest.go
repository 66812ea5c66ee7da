package engine

// minSuggestionScore is the similarity a column name needs before it is
// offered as the likely misspelling of a missing join column.
const minSuggestionScore = 0.6

// closestColumn returns the column most similar to want, or "" when none
// scores at least minSuggestionScore. Ties keep the earlier column.
func closestColumn(want string, columns []string) string {
	best, bestScore := "", minSuggestionScore
	for _, c := range columns {
		if s := similarity(want, c); s >= bestScore && (best == "" || s > bestScore) {
			best, bestScore = c, s
		}
	}
	return best
}

// similarity is 1 - editDistance/longerLength, in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longer := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(editDistance(a, b))/float64(longer)
}

// editDistance is the Levenshtein distance over runes, kept to two rows.
func editDistance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) > len(br) {
		ar, br = br, ar
	}

	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(br); j++ {
		curr[0] = j
		for i := 1; i <= len(ar); i++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ar)]
}
