// Package statement imports bank movements from the statement exports the
// practice's bank produces.
package statement

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"

	"github.com/shopspring/decimal"
)

// Parser reads the movements of one statement.
type Parser interface {
	// Parse reads data from r and returns its movements in file order.
	// Implementations return parsererror types for malformed input.
	Parse(r io.Reader) ([]models.Transaction, error)
}

// Format identifies a statement layout.
type Format string

const (
	// FormatCSV is the movement sheet export.
	FormatCSV Format = "csv"
	// FormatCAMT053 is the ISO 20022 bank-to-customer statement.
	FormatCAMT053 Format = "camt053"
)

// Options configure the parsers.
type Options struct {
	// SkipRows is the number of preamble lines above the CSV header.
	SkipRows int
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
}

// DetectFormat picks the layout from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".camt", ".053":
		return FormatCAMT053
	default:
		return FormatCSV
	}
}

// NewParser returns the parser for format.
func NewParser(format Format, opts Options, logger logging.Logger) (Parser, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	switch format {
	case FormatCSV:
		return NewCSVParser(opts, logger), nil
	case FormatCAMT053:
		return NewCAMTParser(logger), nil
	default:
		return nil, fmt.Errorf("unknown statement format: %s", format)
	}
}

// Load reads the statement at path with the parser its extension selects.
func Load(path string, opts Options, logger logging.Logger) ([]models.Transaction, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	format := DetectFormat(path)
	parser, err := NewParser(format, opts, logger)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("error opening statement: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	txs, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Info("Statement loaded",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldFormat, string(format)),
		logging.F(logging.FieldCount, len(txs)))
	return txs, nil
}

// FilterBillable keeps the movements that pay a whole number of sessions:
// positive amounts that are exact multiples of unitPrice.
func FilterBillable(txs []models.Transaction, unitPrice decimal.Decimal, logger logging.Logger) []models.Transaction {
	if logger == nil {
		logger = logging.Discard()
	}
	billable := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, ok := models.SessionCount(tx.Amount, unitPrice); !ok {
			logger.Debug("Ignoring movement",
				logging.F(logging.FieldConcept, tx.Concept),
				logging.F(logging.FieldAmount, tx.Amount.String()),
				logging.F(logging.FieldReason, "not a whole number of sessions"))
			continue
		}
		billable = append(billable, tx)
	}
	return billable
}
