package matcher

import (
	"strings"

	"fjacquet/session-payments/internal/namedict"
	"fjacquet/session-payments/internal/textutils"
)

// CandidateNames is an ordered list of normalized dictionary names found in a
// note. Duplicates are kept.
type CandidateNames []string

// StopWords are filler words of transfer notes that never name a person.
var StopWords = []string{
	"without", "concept", "from", "bizum", "transfer",
	"instant", "session", "psychologist", "psychology", "payment",
}

// Extractor finds dictionary names in free-text notes.
type Extractor struct {
	dict      *namedict.Dictionary
	fuzzy     TokenMatcher
	stopWords map[string]struct{}
}

// NewExtractor creates an Extractor that falls back to MatchToken with the
// given threshold when a token is not an exact dictionary entry.
func NewExtractor(dict *namedict.Dictionary, threshold float64) *Extractor {
	return NewExtractorWithMatcher(dict, NewTokenMatcher(dict, threshold))
}

// NewExtractorWithMatcher creates an Extractor with a custom fuzzy fallback.
func NewExtractorWithMatcher(dict *namedict.Dictionary, fuzzy TokenMatcher) *Extractor {
	stopWords := make(map[string]struct{}, len(StopWords))
	for _, w := range StopWords {
		stopWords[w] = struct{}{}
	}
	return &Extractor{
		dict:      dict,
		fuzzy:     fuzzy,
		stopWords: stopWords,
	}
}

// ExtractNames scans note word by word and returns the dictionary names it
// recognizes, in input order.
//
// Each whitespace-separated word is normalized on its own. Stop words are
// skipped, exact dictionary entries are kept as is, and anything else is
// replaced by its fuzzy match or dropped when there is none. A word that
// normalizes to several words ("maria-jose") is looked up as a whole.
func (e *Extractor) ExtractNames(note string) CandidateNames {
	names := CandidateNames{}

	for _, word := range strings.Fields(note) {
		token := textutils.Normalize(word)
		if token == "" {
			continue
		}
		if _, stop := e.stopWords[token]; stop {
			continue
		}
		if e.dict.Contains(token) {
			names = append(names, token)
			continue
		}
		if e.fuzzy == nil {
			continue
		}
		if match, ok := e.fuzzy(token); ok {
			names = append(names, match)
		}
	}

	return names
}

// ExtractNames is a convenience wrapper using DefaultTokenThreshold.
func ExtractNames(note string, dict *namedict.Dictionary) CandidateNames {
	return NewExtractor(dict, DefaultTokenThreshold).ExtractNames(note)
}

// Query joins the names into a single search string.
func (c CandidateNames) Query() string {
	return strings.Join(c, " ")
}
