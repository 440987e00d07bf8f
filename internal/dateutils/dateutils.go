// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutDayFirst = "02/01/2006"
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is the list of formats tried by ParseDate. Ambiguous numeric
// dates are read day first, as Spanish bank statements write them.
var CommonFormats = []string{
	DateLayoutDayFirst,
	"2/1/2006",
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutISO + "T15:04:05Z07:00",
	DateLayoutEuropean,
	"2.1.2006",
	"02-01-2006",
	"02/01/06",
	"2 Jan 2006",
	"02 Jan 2006",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using multiple common formats
// Returns the parsed time and the detected format
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return whitespaceRun.ReplaceAllString(dateStr, " ")
}

// Quarter returns the calendar quarter (1-4) of month.
func Quarter(month time.Month) int {
	return (int(month)-1)/3 + 1
}

// ValidQuarter reports whether q designates a calendar quarter.
func ValidQuarter(q int) bool {
	return q >= 1 && q <= 4
}

// QuarterMonths returns the three months of quarter q.
func QuarterMonths(q int) ([]time.Month, error) {
	if !ValidQuarter(q) {
		return nil, fmt.Errorf("invalid quarter: %d (must be between 1 and 4)", q)
	}
	first := time.Month((q-1)*3 + 1)
	return []time.Month{first, first + 1, first + 2}, nil
}

// QuarterLabel returns the file label of quarter q, e.g. "JAN-FEB-MAR".
func QuarterLabel(q int) (string, error) {
	months, err := QuarterMonths(q)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = strings.ToUpper(m.String()[:3])
	}
	return strings.Join(parts, "-"), nil
}

// InQuarter reports whether t falls in quarter q of year.
func InQuarter(t time.Time, year, q int) bool {
	return t.Year() == year && Quarter(t.Month()) == q
}
