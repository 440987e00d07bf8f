package patient

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/session-payments/internal/common"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
)

// Store persists the roster between runs.
type Store interface {
	Load() ([]models.PatientRecord, error)
	Save(records []models.PatientRecord) error
}

// rosterHeaders are the columns every roster file must carry.
var rosterHeaders = []string{"Full Name", "ID Number"}

// CSVRosterStore keeps the roster in a CSV file with the columns
// "Full Name" and "ID Number".
type CSVRosterStore struct {
	Path   string
	logger logging.Logger
}

// NewCSVRosterStore creates a store backed by path.
func NewCSVRosterStore(path string, logger logging.Logger) *CSVRosterStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CSVRosterStore{Path: path, logger: logger}
}

// Load reads the roster. A missing file is an empty roster.
func (s *CSVRosterStore) Load() ([]models.PatientRecord, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Roster file not found, starting with an empty roster",
			logging.F(logging.FieldFile, s.Path))
		return []models.PatientRecord{}, nil
	}

	records, err := common.ReadCSVFile[models.PatientRecord](s.Path,
		common.CSVOptions{RequiredHeaders: rosterHeaders}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("error loading roster: %w", err)
	}

	out := records[:0]
	for _, rec := range records {
		rec.FullName = strings.TrimSpace(rec.FullName)
		rec.IDNumber = strings.TrimSpace(rec.IDNumber)
		if rec.IsEmpty() {
			continue
		}
		out = append(out, rec)
	}

	s.logger.Info("Loaded patient roster",
		logging.F(logging.FieldFile, s.Path),
		logging.F(logging.FieldCount, len(out)))
	return out, nil
}

// Save replaces the roster file with records.
func (s *CSVRosterStore) Save(records []models.PatientRecord) error {
	if err := common.WriteCSVFile(s.Path, records, common.CSVOptions{}, s.logger); err != nil {
		return fmt.Errorf("error saving roster: %w", err)
	}
	return nil
}
