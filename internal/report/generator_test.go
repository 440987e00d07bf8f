package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(name string, year int, month time.Month, day int, sessions int64) models.ReconciledPayment {
	return models.ReconciledPayment{
		FullName: name,
		IDNumber: strings.ToUpper(name[:1]) + "-ID",
		Amount:   decimal.NewFromInt(50 * sessions),
		Date:     models.NewDate(year, month, day),
		Sessions: int(sessions),
	}
}

func samplePayments() []models.ReconciledPayment {
	return []models.ReconciledPayment{
		payment("LUIS PEREZ", 2025, time.February, 20, 1),
		payment("ANA RUIZ", 2025, time.January, 10, 2),
		payment("MARTA GIL", 2025, time.April, 2, 1),
		payment("ANA RUIZ", 2024, time.March, 1, 1),
		payment("JUAN GARCIA", 2025, time.February, 20, 3),
		payment("ANA RUIZ", 2025, time.May, 30, 1),
	}
}

func TestSelect(t *testing.T) {
	selected := Select(samplePayments(), 2025, 1)

	require.Len(t, selected, 3)
	assert.Equal(t, "ANA RUIZ", selected[0].FullName)
	assert.Equal(t, "LUIS PEREZ", selected[1].FullName, "equal dates keep input order")
	assert.Equal(t, "JUAN GARCIA", selected[2].FullName)

	assert.Empty(t, Select(samplePayments(), 2025, 3))
}

func TestGenerate_FirstQuarter(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir, nil)

	res, err := gen.Generate(samplePayments(), Request{Year: 2025, Quarter: 1})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2025", "JAN-FEB-MAR.csv"), res.Path)
	assert.Equal(t, 1, res.StartNumber)
	require.Len(t, res.Entries, 3)

	raw, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Number,Full Name,ID Number,Payment (€),Date,Sessions", lines[0])
	assert.Equal(t, "1,ANA RUIZ,A-ID,100,10/01/2025,2", lines[1])
	assert.Equal(t, "3,JUAN GARCIA,J-ID,150,20/02/2025,3", lines[3])
}

func TestGenerate_ContinuesNumbering(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir, nil)

	_, err := gen.Generate(samplePayments(), Request{Year: 2025, Quarter: 1})
	require.NoError(t, err)

	res, err := gen.Generate(samplePayments(), Request{Year: 2025, Quarter: 2, Format: FormatJSON})
	require.NoError(t, err)

	assert.Equal(t, 4, res.StartNumber)
	assert.Equal(t, filepath.Join(dir, "2025", "APR-MAY-JUN.json"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	var entries []models.QuarterlyEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 4, entries[0].Number)
	assert.Equal(t, "MARTA GIL", entries[0].FullName)
	assert.Equal(t, 5, entries[1].Number)
	assert.Equal(t, models.NewDate(2025, time.May, 30), entries[1].Date)

	// Q4 skips the empty Q3 and continues after Q2's JSON report.
	start, err := gen.StartNumber(2025, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, start)

	// Other years start over.
	start, err = gen.StartNumber(2026, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
}

func TestGenerate_UsesMaxNumberOfEarlierReport(t *testing.T) {
	dir := t.TempDir()
	q1 := filepath.Join(dir, "2025", "JAN-FEB-MAR.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(q1), 0750))
	require.NoError(t, os.WriteFile(q1, []byte(
		"Number,Full Name,ID Number,Payment (€),Date,Sessions\n"+
			"12,ANA RUIZ,A,50,01/01/2025,1\n"+
			"40,LUIS PEREZ,L,50,02/01/2025,1\n"+
			"17,MARTA GIL,M,50,03/01/2025,1\n"), 0600))

	start, err := NewGenerator(dir, nil).StartNumber(2025, 2)
	require.NoError(t, err)
	assert.Equal(t, 41, start)
}

func TestGenerate_Overwrite(t *testing.T) {
	logger := logging.NewMockLogger()
	gen := NewGenerator(t.TempDir(), logger)

	first, err := gen.Generate(samplePayments(), Request{Year: 2025, Quarter: 1})
	require.NoError(t, err)
	assert.False(t, logger.HasEntry("WARN", "Overwriting existing file"))

	second, err := gen.Generate(samplePayments(), Request{Year: 2025, Quarter: 1})
	require.NoError(t, err)
	assert.True(t, logger.HasEntry("WARN", "Overwriting existing file"))
	assert.Equal(t, first.StartNumber, second.StartNumber, "a quarter never numbers after itself")
}

func TestGenerate_Errors(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil)

	tests := []struct {
		name    string
		req     Request
		subject string
	}{
		{"negative year", Request{Year: -1, Quarter: 1}, "year"},
		{"quarter zero", Request{Year: 2025, Quarter: 0}, "quarter"},
		{"quarter five", Request{Year: 2025, Quarter: 5}, "quarter"},
		{"unknown format", Request{Year: 2025, Quarter: 1, Format: "xlsx"}, "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Generate(samplePayments(), tt.req)
			var valErr *parsererror.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.subject, valErr.Subject)
		})
	}

	_, err := gen.Generate(samplePayments(), Request{Year: 2025, Quarter: 3})
	assert.True(t, errors.Is(err, ErrEmptyQuarter))
}

func TestRender(t *testing.T) {
	entries := Number([]models.ReconciledPayment{payment("ANA RUIZ", 2025, time.March, 1, 1)}, 7)

	csvData, err := Render(entries, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "7,ANA RUIZ,A-ID,50,01/03/2025,1")

	jsonData, err := Render(entries, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"date": "01/03/2025"`)

	_, err = Render(entries, "xml")
	assert.Error(t, err)
}
