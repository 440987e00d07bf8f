// Package common provides the CSV plumbing shared by every file the application
// reads or writes: bank statements, dictionaries, the patient roster, the
// results file and the quarterly reports.
package common

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/session-payments/internal/logging"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls how a CSV file is read or written.
type CSVOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// SkipRows is the number of raw lines dropped before the header row.
	SkipRows int
	// RequiredHeaders must all be present in the header row.
	RequiredHeaders []string
}

func (o CSVOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// MissingHeadersError reports header columns absent from a CSV file.
type MissingHeadersError struct {
	Missing []string
	Found   []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required columns %q (found %q)", e.Missing, e.Found)
}

// headerReader hands gocsv a header row that has already been read and
// cleaned, then streams the remaining records.
type headerReader struct {
	header []string
	sent   bool
	r      *csv.Reader
}

func (h *headerReader) Read() ([]string, error) {
	if !h.sent {
		h.sent = true
		return h.header, nil
	}
	return h.r.Read()
}

func (h *headerReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := h.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// ReadCSV decodes CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type whose csv tags map to the header columns.
// Header cells are trimmed and a leading UTF-8 byte order mark is ignored.
// An input without a header row yields an empty, non-nil slice.
func ReadCSV[TCSVRow any](r io.Reader, opts CSVOptions) ([]TCSVRow, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return []TCSVRow{}, nil
			}
			return nil, fmt.Errorf("error skipping preamble: %w", err)
		}
	}

	csvReader := csv.NewReader(br)
	csvReader.Comma = opts.delimiter()
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return []TCSVRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if missing := missingHeaders(header, opts.RequiredHeaders); len(missing) > 0 {
		return nil, &MissingHeadersError{Missing: missing, Found: header}
	}

	rows := []TCSVRow{}
	if err := gocsv.UnmarshalCSV(&headerReader{header: header, r: csvReader}, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

func missingHeaders(header, required []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := present[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

// ReadCSVFile reads a CSV file into a slice of structs.
func ReadCSVFile[TCSVRow any](filePath string, opts CSVOptions, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger.Debug("Reading CSV file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, filePath))
		}
	}()

	rows, err := ReadCSV[TCSVRow](file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	logger.Debug("Successfully read CSV data",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// WriteCSV encodes rows with a header line using gocsv.
func WriteCSV[TCSVRow any](w io.Writer, rows []TCSVRow, opts CSVOptions) error {
	if rows == nil {
		rows = []TCSVRow{}
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = opts.delimiter()

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to filePath, creating parent directories as needed.
// The file is written to a temporary sibling first and renamed into place.
func WriteCSVFile[TCSVRow any](filePath string, rows []TCSVRow, opts CSVOptions, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if err := WriteCSV(tmp, rows, opts); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("error closing CSV file: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		cleanup()
		return fmt.Errorf("error replacing CSV file: %w", err)
	}

	logger.Debug("Wrote CSV file",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
