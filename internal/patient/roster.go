// Package patient holds the practice's patient roster and resolves free-text
// names to roster entries, escalating every ambiguous case to an operator.
package patient

import (
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/textutils"
)

// Roster is the ordered, append-only list of known patients. It is not safe
// for concurrent use; a reconciliation run owns it exclusively.
type Roster struct {
	records []models.PatientRecord
}

// NewRoster returns a roster holding a copy of records.
func NewRoster(records []models.PatientRecord) *Roster {
	r := &Roster{records: make([]models.PatientRecord, 0, len(records))}
	for _, rec := range records {
		if rec.IsEmpty() {
			continue
		}
		r.records = append(r.records, rec)
	}
	return r
}

// All returns a snapshot of the roster in insertion order.
func (r *Roster) All() []models.PatientRecord {
	out := make([]models.PatientRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of patients.
func (r *Roster) Len() int {
	return len(r.records)
}

// At returns the patient at position i.
func (r *Roster) At(i int) models.PatientRecord {
	return r.records[i]
}

// Append adds rec at the end of the roster and returns its position.
func (r *Roster) Append(rec models.PatientRecord) int {
	r.records = append(r.records, rec)
	return len(r.records) - 1
}

// FindExact returns the first patient whose normalized name equals the
// normalized name given.
func (r *Roster) FindExact(name string) (models.PatientRecord, bool) {
	target := textutils.Normalize(name)
	if target == "" {
		return models.PatientRecord{}, false
	}
	for _, rec := range r.records {
		if textutils.Normalize(rec.FullName) == target {
			return rec, true
		}
	}
	return models.PatientRecord{}, false
}
