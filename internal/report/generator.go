// Package report builds the numbered quarterly billing reports from the
// reconciled payments.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fjacquet/session-payments/internal/common"
	"fjacquet/session-payments/internal/dateutils"
	"fjacquet/session-payments/internal/fileutils"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/parsererror"
)

// Format is the encoding of a report file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists the supported formats. Earlier-quarter reports are looked up
// in this order.
var Formats = []Format{FormatCSV, FormatJSON}

// ErrEmptyQuarter is returned when no payment falls in the requested quarter.
var ErrEmptyQuarter = errors.New("no payments in this quarter")

var entryHeaders = []string{"Number", "Full Name", "ID Number", "Payment (€)", "Date", "Sessions"}

// Request selects the report to generate.
type Request struct {
	Year    int
	Quarter int
	// Format defaults to FormatCSV.
	Format Format
}

func (r Request) validate() error {
	if r.Year < 0 {
		return &parsererror.ValidationError{Subject: "year", Reason: "must not be negative, got " + strconv.Itoa(r.Year)}
	}
	if !dateutils.ValidQuarter(r.Quarter) {
		return &parsererror.ValidationError{Subject: "quarter", Reason: "must be between 1 and 4, got " + strconv.Itoa(r.Quarter)}
	}
	switch r.Format {
	case FormatCSV, FormatJSON:
		return nil
	default:
		return &parsererror.ValidationError{Subject: "format", Reason: fmt.Sprintf("unsupported report format: %s", r.Format)}
	}
}

// Result describes a generated report.
type Result struct {
	Path        string
	StartNumber int
	Entries     []models.QuarterlyEntry
}

// Generator writes quarterly reports under <dir>/<year>/.
type Generator struct {
	dir    string
	logger logging.Logger
}

// NewGenerator creates a generator rooted at dir.
func NewGenerator(dir string, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Generator{dir: dir, logger: logger}
}

// Path returns the file a report for year and quarter is written to, for
// example reports/2025/APR-MAY-JUN.csv.
func (g *Generator) Path(year, quarter int, format Format) (string, error) {
	label, err := dateutils.QuarterLabel(quarter)
	if err != nil {
		return "", err
	}
	return filepath.Join(g.dir, strconv.Itoa(year), label+"."+string(format)), nil
}

// Generate writes the report for req.
//
// Payments dated in the quarter are sorted by date, ties keeping input order,
// and numbered from StartNumber on. An existing report for the same quarter
// is overwritten.
func (g *Generator) Generate(payments []models.ReconciledPayment, req Request) (Result, error) {
	if req.Format == "" {
		req.Format = FormatCSV
	}
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	logger := g.logger.WithFields(
		logging.F(logging.FieldYear, req.Year),
		logging.F(logging.FieldQuarter, req.Quarter))

	selected := Select(payments, req.Year, req.Quarter)
	if len(selected) == 0 {
		logger.Warn("No payments in this quarter")
		return Result{}, fmt.Errorf("%w: %d Q%d", ErrEmptyQuarter, req.Year, req.Quarter)
	}

	start, err := g.StartNumber(req.Year, req.Quarter)
	if err != nil {
		return Result{}, err
	}

	entries := Number(selected, start)
	data, err := Render(entries, req.Format)
	if err != nil {
		return Result{}, err
	}

	path, err := g.Path(req.Year, req.Quarter, req.Format)
	if err != nil {
		return Result{}, err
	}
	if err := fileutils.WriteFile(path, data, 0600, logger); err != nil {
		return Result{}, fmt.Errorf("error writing report: %w", err)
	}

	logger.Info("Quarterly report generated",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(entries)),
		logging.F("start_number", start))
	return Result{Path: path, StartNumber: start, Entries: entries}, nil
}

// StartNumber returns the first invoice number of a quarter: one more than
// the highest number of the latest earlier quarter of the same year that has
// a non-empty report, or 1.
func (g *Generator) StartNumber(year, quarter int) (int, error) {
	start := 1
	for q := 1; q < quarter; q++ {
		entries, path, err := g.readQuarter(year, q)
		if err != nil {
			return 0, err
		}
		if len(entries) == 0 {
			continue
		}
		last := maxNumber(entries)
		start = last + 1
		g.logger.Debug("Continuing numbering from earlier quarter",
			logging.F(logging.FieldInputFile, path),
			logging.F("last_number", last))
	}
	return start, nil
}

// readQuarter loads the report of an earlier quarter in the first format
// found on disk. A missing report yields no entries.
func (g *Generator) readQuarter(year, quarter int) ([]models.QuarterlyEntry, string, error) {
	for _, format := range Formats {
		path, err := g.Path(year, quarter, format)
		if err != nil {
			return nil, "", err
		}
		if !fileutils.FileExists(path) {
			continue
		}
		entries, err := ReadReport(path, g.logger)
		if err != nil {
			return nil, path, err
		}
		return entries, path, nil
	}
	return nil, "", nil
}

func maxNumber(entries []models.QuarterlyEntry) int {
	highest := 0
	for _, e := range entries {
		if e.Number > highest {
			highest = e.Number
		}
	}
	return highest
}

// Select returns the payments dated in quarter of year, sorted by date.
func Select(payments []models.ReconciledPayment, year, quarter int) []models.ReconciledPayment {
	selected := make([]models.ReconciledPayment, 0, len(payments))
	for _, p := range payments {
		if dateutils.InQuarter(p.Date.Time(), year, quarter) {
			selected = append(selected, p)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Date.Before(selected[j].Date)
	})
	return selected
}

// Number turns payments into report entries numbered from start.
func Number(payments []models.ReconciledPayment, start int) []models.QuarterlyEntry {
	entries := make([]models.QuarterlyEntry, len(payments))
	for i, p := range payments {
		entries[i] = models.QuarterlyEntry{
			Number:   start + i,
			FullName: p.FullName,
			IDNumber: p.IDNumber,
			Payment:  p.Amount,
			Date:     p.Date,
			Sessions: p.Sessions,
		}
	}
	return entries
}

// Render encodes entries in format.
func Render(entries []models.QuarterlyEntry, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		if err := common.WriteCSV(&buf, entries, common.CSVOptions{}); err != nil {
			return nil, err
		}
	case FormatJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
	return buf.Bytes(), nil
}

// ReadReport loads a report file, picking the decoder from its extension.
func ReadReport(path string, logger logging.Logger) ([]models.QuarterlyEntry, error) {
	switch Format(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case FormatJSON:
		data, err := fileutils.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var entries []models.QuarterlyEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "JSON report", Msg: err.Error()}
		}
		return entries, nil
	default:
		return common.ReadCSVFile[models.QuarterlyEntry](path,
			common.CSVOptions{RequiredHeaders: entryHeaders}, logger)
	}
}
