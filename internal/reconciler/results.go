package reconciler

import (
	"fmt"

	"fjacquet/session-payments/internal/common"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
)

// resultHeaders are the columns of the results file.
var resultHeaders = []string{"Full Name", "ID Number", "Amount", "Transaction date", "Sessions"}

// WriteResults writes the reconciled payments to path as CSV, dates as
// DD/MM/YYYY.
func WriteResults(path string, payments []models.ReconciledPayment, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := common.WriteCSVFile(path, payments, common.CSVOptions{}, logger); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	logger.Info("Results written",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(payments)))
	return nil
}

// ReadResults loads a results file written by WriteResults.
func ReadResults(path string, logger logging.Logger) ([]models.ReconciledPayment, error) {
	payments, err := common.ReadCSVFile[models.ReconciledPayment](path,
		common.CSVOptions{RequiredHeaders: resultHeaders}, logger)
	if err != nil {
		return nil, fmt.Errorf("error reading results: %w", err)
	}
	return payments, nil
}
