package statement

import (
	"errors"
	"io"
	"strings"

	"fjacquet/session-payments/internal/dateutils"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/parsererror"
	"fjacquet/session-payments/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

const camtSource = "camt053"

// CAMTParser reads ISO 20022 CAMT.053 statements. Only credit entries are
// returned: debits never pay for sessions.
type CAMTParser struct {
	paths  xmlutils.CAMT053
	logger logging.Logger
}

// NewCAMTParser creates a CAMT.053 statement parser.
func NewCAMTParser(logger logging.Logger) *CAMTParser {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CAMTParser{paths: xmlutils.DefaultCamt053XPaths(), logger: logger}
}

// Parse implements Parser.
//
// The concept of an entry is its AddtlNtryInf text. When the bank leaves it
// out, a concept in movement-sheet form is rebuilt from the debtor name and
// the unstructured remittance lines so that the payer can still be parsed.
func (p *CAMTParser) Parse(r io.Reader) ([]models.Transaction, error) {
	root, err := xmlutils.Parse(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "CAMT.053 XML", Msg: err.Error()}
	}
	if !xmlutils.Exists(root, p.paths.Statement) {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "CAMT.053 XML", Msg: "no BkToCstmrStmt/Stmt element"}
	}

	var txs []models.Transaction
	for i, entry := range xmlutils.Nodes(root, p.paths.Entries) {
		entryNumber := i + 1
		if !strings.EqualFold(xmlutils.First(entry, p.paths.Entry.CreditDebitInd), "CRDT") {
			continue
		}

		amountStr := xmlutils.First(entry, p.paths.Entry.Amount)
		amount, err := parseStrictAmount(amountStr)
		if err != nil {
			return nil, &parsererror.ParseError{Source: camtSource, Row: entryNumber, Field: "Amt", Value: amountStr, Err: err}
		}

		dateStr := xmlutils.First(entry, p.paths.Entry.BookingDate)
		if dateStr == "" {
			dateStr = xmlutils.First(entry, p.paths.Entry.BookingDateTime)
			if len(dateStr) >= len(dateutils.DateLayoutISO) {
				dateStr = dateStr[:len(dateutils.DateLayoutISO)]
			}
		}
		if dateStr == "" {
			return nil, &parsererror.ParseError{Source: camtSource, Row: entryNumber, Field: "BookgDt", Err: errors.New("missing booking date")}
		}
		var date models.Date
		if err := date.UnmarshalCSV(dateStr); err != nil {
			return nil, &parsererror.ParseError{Source: camtSource, Row: entryNumber, Field: "BookgDt", Value: dateStr, Err: err}
		}

		txs = append(txs, models.Transaction{
			Date:    date,
			Concept: p.concept(entry),
			Amount:  amount,
		})
	}

	p.logger.Debug("Parsed CAMT.053 statement", logging.F(logging.FieldCount, len(txs)))
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

func (p *CAMTParser) concept(entry *xmlpath.Node) string {
	if info := xmlutils.First(entry, p.paths.Entry.AddEntryInfo); info != "" {
		return info
	}

	remittance := strings.Join(xmlutils.All(entry, p.paths.Remittance.UnstructuredInfo), " ")
	if remittance == "" {
		remittance = xmlutils.First(entry, p.paths.Remittance.AdditionalTxInfo)
	}

	debtor := xmlutils.First(entry, p.paths.Party.UltimateDebtor)
	if debtor == "" {
		debtor = xmlutils.First(entry, p.paths.Party.DebtorName)
	}
	if debtor == "" {
		return remittance
	}
	if remittance == "" {
		return "TRANSFER FROM " + debtor + " WITHOUT CONCEPT"
	}
	return "TRANSFER FROM " + debtor + ", CONCEPT " + remittance
}
