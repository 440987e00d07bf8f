// Package matcher recognizes people's names in free-text transfer notes and
// checks them against the payer declared by the bank.
package matcher

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Ratio returns a symmetric similarity score between 0 and 100.
//
// The score is based on the insert/delete edit distance d between a and b:
// 100 * (len(a) + len(b) - d) / (len(a) + len(b)). levenshtein.DefaultOptions
// prices a substitution at 2, which makes its distance exactly that indel
// distance. Two empty strings are identical and score 100.
func Ratio(a, b string) float64 {
	source := []rune(a)
	target := []rune(b)

	total := len(source) + len(target)
	if total == 0 {
		return 100
	}

	distance := levenshtein.DistanceForStrings(source, target, levenshtein.DefaultOptions)
	return 100 * float64(total-distance) / float64(total)
}

// bestMatch returns the entry of candidates with the highest Ratio against
// token. Ties keep the earliest entry. An empty candidate list scores 0.
func bestMatch(token string, candidates []string) (string, float64) {
	best := ""
	bestScore := 0.0
	for i, candidate := range candidates {
		score := Ratio(token, candidate)
		if i == 0 || score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore
}
