package matcher

import (
	"fjacquet/session-payments/internal/namedict"
)

// DefaultTokenThreshold is the minimum Ratio for a token to be accepted as a
// dictionary name.
const DefaultTokenThreshold = 85.0

// TokenMatcher maps a normalized token to a dictionary entry.
type TokenMatcher func(token string) (string, bool)

// MatchToken returns the dictionary entry closest to token when it scores at
// least threshold.
//
// The best first name and the best surname are found independently. The
// first name wins when it clears the threshold and is not beaten by the
// surname; the surname wins under the symmetric condition. Equal scores
// therefore favor the first name. Empty sets never match.
func MatchToken(token string, dict *namedict.Dictionary, threshold float64) (string, bool) {
	firstName, firstScore := bestMatch(token, dict.FirstNames())
	surname, surnameScore := bestMatch(token, dict.Surnames())

	if firstName != "" && firstScore >= threshold && firstScore >= surnameScore {
		return firstName, true
	}
	if surname != "" && surnameScore >= threshold && surnameScore >= firstScore {
		return surname, true
	}
	return "", false
}

// NewTokenMatcher binds MatchToken to a dictionary and threshold.
func NewTokenMatcher(dict *namedict.Dictionary, threshold float64) TokenMatcher {
	return func(token string) (string, bool) {
		return MatchToken(token, dict, threshold)
	}
}
