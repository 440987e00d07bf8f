// Package namedict holds the normalized first-name and surname sets used to
// recognize people in free-text transfer notes.
package namedict

import (
	"sort"

	"fjacquet/session-payments/internal/textutils"
)

// Dictionary is an immutable pair of normalized name sets.
// The two sets may share entries; they only differ by role.
type Dictionary struct {
	firstNames    map[string]struct{}
	surnames      map[string]struct{}
	firstSorted   []string
	surnameSorted []string
}

// New builds a Dictionary from display-form names. Every entry is normalized
// once here; entries that normalize to the empty string are dropped.
func New(firstNames, surnames []string) *Dictionary {
	d := &Dictionary{
		firstNames: toSet(firstNames),
		surnames:   toSet(surnames),
	}
	d.firstSorted = sortedKeys(d.firstNames)
	d.surnameSorted = sortedKeys(d.surnames)
	return d
}

// IsFirstName reports whether the normalized token is a known first name.
func (d *Dictionary) IsFirstName(token string) bool {
	if d == nil {
		return false
	}
	_, ok := d.firstNames[token]
	return ok
}

// IsSurname reports whether the normalized token is a known surname.
func (d *Dictionary) IsSurname(token string) bool {
	if d == nil {
		return false
	}
	_, ok := d.surnames[token]
	return ok
}

// Contains reports whether the normalized token is in either set.
func (d *Dictionary) Contains(token string) bool {
	return d.IsFirstName(token) || d.IsSurname(token)
}

// FirstNames returns the first names in ascending order.
// The returned slice must not be modified.
func (d *Dictionary) FirstNames() []string {
	if d == nil {
		return nil
	}
	return d.firstSorted
}

// Surnames returns the surnames in ascending order.
// The returned slice must not be modified.
func (d *Dictionary) Surnames() []string {
	if d == nil {
		return nil
	}
	return d.surnameSorted
}

// Len returns the number of first names and surnames.
func (d *Dictionary) Len() (firstNames, surnames int) {
	if d == nil {
		return 0, 0
	}
	return len(d.firstNames), len(d.surnames)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized := textutils.Normalize(name)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
