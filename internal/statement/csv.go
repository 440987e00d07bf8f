package statement

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/session-payments/internal/common"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Column headers of the movement sheet.
const (
	ColumnDate    = "TRANSACTION DATE"
	ColumnConcept = "CONCEPT"
	ColumnAmount  = "AMOUNT (EUR)"
)

const csvSource = "statement-csv"

type csvRow struct {
	Date    string `csv:"TRANSACTION DATE"`
	Concept string `csv:"CONCEPT"`
	Amount  string `csv:"AMOUNT (EUR)"`
}

// CSVParser reads the movement sheet export.
type CSVParser struct {
	opts   Options
	logger logging.Logger
}

// NewCSVParser creates a CSV statement parser.
func NewCSVParser(opts Options, logger logging.Logger) *CSVParser {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CSVParser{opts: opts, logger: logger}
}

// Parse implements Parser. Rows with neither a date nor an amount (blank
// spreadsheet lines, footers) are skipped.
func (p *CSVParser) Parse(r io.Reader) ([]models.Transaction, error) {
	rows, err := common.ReadCSV[csvRow](r, common.CSVOptions{
		Delimiter:       p.opts.Delimiter,
		SkipRows:        p.opts.SkipRows,
		RequiredHeaders: []string{ColumnDate, ColumnConcept, ColumnAmount},
	})
	if err != nil {
		var missing *common.MissingHeadersError
		if errors.As(err, &missing) {
			return nil, &parsererror.InvalidFormatError{
				ExpectedFormat:       "movement sheet with " + strings.Join([]string{ColumnDate, ColumnConcept, ColumnAmount}, ", "),
				ActualContentSnippet: strings.Join(missing.Found, ","),
				Msg:                  fmt.Sprintf("missing columns %s", strings.Join(missing.Missing, ", ")),
			}
		}
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		rowNumber := i + 1
		dateStr := strings.TrimSpace(row.Date)
		amountStr := strings.TrimSpace(row.Amount)
		if dateStr == "" && amountStr == "" {
			continue
		}

		var date models.Date
		if err := date.UnmarshalCSV(dateStr); err != nil || date.IsZero() {
			if err == nil {
				err = errors.New("empty date")
			}
			return nil, &parsererror.ParseError{Source: csvSource, Row: rowNumber, Field: ColumnDate, Value: dateStr, Err: err}
		}

		amount, err := parseStrictAmount(amountStr)
		if err != nil {
			return nil, &parsererror.ParseError{Source: csvSource, Row: rowNumber, Field: ColumnAmount, Value: amountStr, Err: err}
		}

		txs = append(txs, models.Transaction{
			Date:    date,
			Concept: strings.TrimSpace(row.Concept),
			Amount:  amount,
		})
	}

	p.logger.Debug("Parsed movement sheet", logging.F(logging.FieldCount, len(txs)))
	return txs, nil
}

// parseStrictAmount rejects what models.ParseAmount would silently turn into
// zero.
func parseStrictAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, errors.New("not a number")
	}
	amount := models.ParseAmount(s)
	if amount.IsZero() && strings.ContainsAny(s, "123456789") {
		return decimal.Zero, errors.New("not a number")
	}
	return amount, nil
}
