package models

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/session-payments/internal/dateutils"
)

// Date is a calendar day serialized in day-first form (DD/MM/YYYY).
type Date struct {
	t time.Time
}

// NewDate returns the Date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Time returns the day as a time.Time at midnight UTC.
func (d Date) Time() time.Time { return d.t }

// Year returns the year of the day.
func (d Date) Year() int { return d.t.Year() }

// Month returns the month of the day.
func (d Date) Month() time.Month { return d.t.Month() }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// MarshalCSV implements gocsv.TypeMarshaller.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.t.Format(dateutils.DateLayoutDayFirst), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *Date) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		d.t = time.Time{}
		return nil
	}
	t, _, err := dateutils.ParseDate(value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value, err)
	}
	*d = DateOf(t)
	return nil
}

// MarshalJSON writes the day-first form.
func (d Date) MarshalJSON() ([]byte, error) {
	s, err := d.MarshalCSV()
	if err != nil {
		return nil, err
	}
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON reads the day-first form.
func (d *Date) UnmarshalJSON(data []byte) error {
	return d.UnmarshalCSV(strings.Trim(string(data), `"`))
}

// String returns the day-first form.
func (d Date) String() string {
	s, _ := d.MarshalCSV()
	return s
}
