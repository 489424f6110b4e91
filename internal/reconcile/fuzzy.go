package reconcile

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultThreshold is the minimum similarity for a fuzzy match to count as a
// correspondence. Below it the record is an orphan, not an error.
const DefaultThreshold = 0.85

// Similarity is a matching-runs ratio in [0,1]: twice the rune count of the
// equal diff runs over the combined rune length. Identical strings score 1,
// disjoint strings 0.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	dmp := diffmatchpatch.New()
	matched := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}
	return float64(2*matched) / float64(total)
}

// BestMatch scans candidates in the given order and returns the
// highest-scoring one with its score. Ties keep the earlier candidate, so
// callers pass candidates in registry order for reproducible tie-breaks.
// An empty candidate set yields ("", 0).
func BestMatch(candidates []string, query string) (string, float64) {
	best := ""
	bestScore := 0.0
	for i, c := range candidates {
		score := Similarity(c, query)
		if i == 0 || score > bestScore {
			best = c
			bestScore = score
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestScore
}
