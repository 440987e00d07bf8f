package matcher

import (
	"strings"

	"fjacquet/session-payments/internal/textutils"
)

// PayerAndConceptMatch reports whether the names found in a note corroborate
// the payer declared by the bank.
//
// A note without names never contradicts the payer. Otherwise every name must
// be contained in at least one word of the normalized payer ("garcia" is
// found in "garcia" as well as in "garciamarquez"). The check stops at the
// first name that is not found and returns the names matched so far.
func PayerAndConceptMatch(payer string, names CandidateNames) (bool, CandidateNames) {
	matched := CandidateNames{}
	if len(names) == 0 {
		return true, matched
	}

	payerWords := uniqueWords(textutils.Normalize(payer))

	for _, name := range names {
		if !containedInAny(name, payerWords) {
			return false, matched
		}
		matched = append(matched, name)
	}

	return true, matched
}

func containedInAny(name string, words []string) bool {
	for _, word := range words {
		if strings.Contains(word, name) {
			return true
		}
	}
	return false
}

func uniqueWords(text string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, w := range strings.Fields(text) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
