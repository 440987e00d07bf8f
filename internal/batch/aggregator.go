// Package batch merges the movements of several statement exports into one
// chronological list.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/textutils"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start models.Date
	End   models.Date
}

// String returns the date range in the format "DD/MM/YYYY - DD/MM/YYYY"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return dr.Start.String() + " - " + dr.End.String()
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && end.Before(other.End)) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// RangeOf returns the span of the transaction dates.
func RangeOf(txs []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range txs {
		dr = dr.Merge(DateRange{Start: tx.Date, End: tx.Date})
	}
	return dr
}

// LoadFunc reads the movements of one statement file.
type LoadFunc func(path string) ([]models.Transaction, error)

// Aggregator combines statement files whose periods may overlap.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Aggregator{logger: logger}
}

// Aggregate loads every file and returns their movements sorted by date,
// ties keeping file order.
//
// Exports of overlapping periods repeat movements. A movement is identified
// by its date, amount and normalized concept; it is kept as many times as the
// file that holds it most often, so identical payments inside one file
// survive while copies from another file are dropped.
func (a *Aggregator) Aggregate(files []string, load LoadFunc) ([]models.Transaction, error) {
	var all []models.Transaction
	kept := make(map[string]int)
	duplicates := 0

	for _, file := range files {
		txs, err := load(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(file), err)
		}

		local := make(map[string]int)
		for _, tx := range txs {
			key := identity(tx)
			local[key]++
			if local[key] <= kept[key] {
				duplicates++
				a.logger.Warn("Dropping movement already read from another statement",
					logging.F(logging.FieldFile, filepath.Base(file)),
					logging.F(logging.FieldDate, tx.Date.String()),
					logging.F(logging.FieldAmount, tx.Amount.String()),
					logging.F(logging.FieldConcept, tx.Concept))
				continue
			}
			kept[key] = local[key]
			all = append(all, tx)
		}

		a.logger.Debug("Loaded transactions from file",
			logging.F(logging.FieldCount, len(txs)),
			logging.F(logging.FieldFile, filepath.Base(file)))
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})

	if len(files) > 1 {
		a.logger.Info("Aggregated statements",
			logging.F(logging.FieldCount, len(all)),
			logging.F("duplicates", duplicates),
			logging.F("period", RangeOf(all).String()),
			logging.F("source_files", strings.Join(baseNames(files), ", ")))
	}
	if all == nil {
		all = []models.Transaction{}
	}
	return all, nil
}

func identity(tx models.Transaction) string {
	return tx.Date.String() + "|" + tx.Amount.StringFixed(2) + "|" + textutils.Normalize(tx.Concept)
}

func baseNames(files []string) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	return names
}
