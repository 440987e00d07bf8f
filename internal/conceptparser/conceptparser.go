// Package conceptparser extracts the declared payer and the free-text note
// from the concept line of a bank transfer, for example
// "Transfer from Pedro Gómez, Concept Session".
package conceptparser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"fjacquet/session-payments/internal/textutils"
)

// LeadIns are the phrases introducing the payer name, tried in order at
// each position of the concept text.
var LeadIns = []string{
	"bizum from",
	"transfer from",
	"instant transfer from",
}

const (
	withoutConceptMarker = " without concept"
	conceptMarker        = " concept"
)

// ParsedConcept is the structured content of a concept line.
type ParsedConcept struct {
	// PayerOriginal is the payer as written in the concept, case and accents
	// preserved.
	PayerOriginal string
	// PayerNormalized is the normalized payer.
	PayerNormalized string
	// Note is the text following the "concept" marker, when present.
	Note    string
	HasNote bool
}

// Parse extracts the declared payer and the optional note from concept.
//
// The grammar is: a lead-in phrase, whitespace, the payer, then an optional
// trailing clause made of an optional comma followed by either
// " without concept" (no note) or " concept <note>". The payer is the
// shortest text for which the remainder forms a valid trailing clause.
//
// The normalized text provides the payer and the note; the raw text is parsed
// again only to recover how the payer was written. When the raw text does not
// parse, PayerOriginal falls back to the upper-cased normalized payer.
//
// ok is false when no lead-in phrase is found or the payer is empty.
func Parse(concept string) (ParsedConcept, bool) {
	normalized := textutils.Normalize(concept)

	payer, note, hasNote, ok := parseClauses(normalized)
	if !ok {
		return ParsedConcept{}, false
	}

	parsed := ParsedConcept{
		PayerNormalized: payer,
		Note:            note,
		HasNote:         hasNote,
	}

	if original, _, _, ok := parseClauses(concept); ok {
		parsed.PayerOriginal = original
	} else {
		parsed.PayerOriginal = strings.ToUpper(payer)
	}

	return parsed, true
}

// parseClauses applies the concept grammar to text, matching literals
// case-insensitively. The returned payer and note are trimmed.
func parseClauses(text string) (payer, note string, hasNote, ok bool) {
	start, found := findLeadIn(text)
	if !found {
		return "", "", false, false
	}

	rest := text[start:]
	for i := range rest {
		if i == 0 {
			continue
		}
		n, hn, matched := matchTrailer(rest[i:])
		if !matched {
			continue
		}
		payer = strings.TrimSpace(rest[:i])
		if payer == "" {
			return "", "", false, false
		}
		return payer, n, hn, true
	}

	payer = strings.TrimSpace(rest)
	if payer == "" {
		return "", "", false, false
	}
	return payer, "", false, true
}

// findLeadIn returns the offset right after the first lead-in phrase that is
// followed by whitespace and some text.
func findLeadIn(text string) (int, bool) {
	for pos := 0; pos < len(text); pos++ {
		for _, phrase := range LeadIns {
			end := pos + len(phrase)
			if end > len(text) || !strings.EqualFold(text[pos:end], phrase) {
				continue
			}
			afterSpace := skipSpaces(text, end)
			if afterSpace == end {
				continue
			}
			if afterSpace == len(text) {
				// nothing but whitespace left, so no payer anywhere after
				return 0, false
			}
			return afterSpace, true
		}
	}
	return 0, false
}

func skipSpaces(text string, from int) int {
	for from < len(text) {
		r, size := utf8.DecodeRuneInString(text[from:])
		if !unicode.IsSpace(r) {
			break
		}
		from += size
	}
	return from
}

// matchTrailer reports whether tail is a complete trailing clause.
func matchTrailer(tail string) (note string, hasNote, ok bool) {
	tail = strings.TrimPrefix(tail, ",")

	if tail == "" {
		return "", false, true
	}
	if strings.EqualFold(tail, withoutConceptMarker) {
		return "", false, true
	}
	if len(tail) <= len(conceptMarker) || !strings.EqualFold(tail[:len(conceptMarker)], conceptMarker) {
		return "", false, false
	}

	afterMarker := tail[len(conceptMarker):]
	noteStart := skipSpaces(afterMarker, 0)
	if noteStart == 0 {
		return "", false, false
	}
	if noteStart == len(afterMarker) {
		// "concept" followed by blanks only: a valid clause with an empty
		// note when at least two blanks separate it from the end.
		if utf8.RuneCountInString(afterMarker) < 2 {
			return "", false, false
		}
		return "", false, true
	}
	return strings.TrimSpace(afterMarker[noteStart:]), true, true
}
