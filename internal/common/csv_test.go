package common

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/session-payments/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCSVRow struct {
	Name string `csv:"Full Name"`
	ID   string `csv:"ID Number"`
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     CSVOptions
		expected []testCSVRow
	}{
		{
			name:  "plain",
			input: "Full Name,ID Number\nANA RUIZ,111A\nLUIS PEREZ,222B\n",
			expected: []testCSVRow{
				{Name: "ANA RUIZ", ID: "111A"},
				{Name: "LUIS PEREZ", ID: "222B"},
			},
		},
		{
			name:     "byte order mark and padded header",
			input:    "\ufeff Full Name , ID Number\nANA RUIZ,111A\n",
			expected: []testCSVRow{{Name: "ANA RUIZ", ID: "111A"}},
		},
		{
			name:     "preamble skipped",
			input:    "Account statement\nHolder: practice\n\nFull Name,ID Number\nANA RUIZ,111A\n",
			opts:     CSVOptions{SkipRows: 3},
			expected: []testCSVRow{{Name: "ANA RUIZ", ID: "111A"}},
		},
		{
			name:     "semicolon delimiter",
			input:    "Full Name;ID Number\nANA RUIZ;111A\n",
			opts:     CSVOptions{Delimiter: ';'},
			expected: []testCSVRow{{Name: "ANA RUIZ", ID: "111A"}},
		},
		{
			name:     "header only",
			input:    "Full Name,ID Number\n",
			expected: []testCSVRow{},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []testCSVRow{},
		},
		{
			name:     "preamble longer than input",
			input:    "only line\n",
			opts:     CSVOptions{SkipRows: 7},
			expected: []testCSVRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV[testCSVRow](strings.NewReader(tt.input), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rows)
		})
	}
}

func TestReadCSV_MissingHeaders(t *testing.T) {
	_, err := ReadCSV[testCSVRow](
		strings.NewReader("Name,Identifier\nANA,1\n"),
		CSVOptions{RequiredHeaders: []string{"Full Name", "ID Number"}},
	)
	require.Error(t, err)

	var missing *MissingHeadersError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"Full Name", "ID Number"}, missing.Missing)
}

func TestReadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patients.csv")
	require.NoError(t, os.WriteFile(path, []byte("Full Name,ID Number\nANA RUIZ,111A\n"), 0600))

	mock := logging.NewMockLogger()
	rows, err := ReadCSVFile[testCSVRow](path, CSVOptions{}, mock)
	require.NoError(t, err)
	assert.Equal(t, []testCSVRow{{Name: "ANA RUIZ", ID: "111A"}}, rows)
	assert.True(t, mock.HasEntry("DEBUG", "Successfully read CSV data"))

	_, err = ReadCSVFile[testCSVRow](filepath.Join(dir, "missing.csv"), CSVOptions{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []testCSVRow{{Name: "ANA RUIZ", ID: "111A"}}, CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, "Full Name;ID Number\nANA RUIZ;111A\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV[testCSVRow](&buf, nil, CSVOptions{}))
	assert.Equal(t, "Full Name,ID Number\n", buf.String())
}

func TestWriteCSVFile_RoundTripAndReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "patients.csv")

	first := []testCSVRow{{Name: "ANA RUIZ", ID: "111A"}}
	require.NoError(t, WriteCSVFile(path, first, CSVOptions{}, nil))

	second := append(first, testCSVRow{Name: "LUIS PEREZ", ID: "222B"})
	require.NoError(t, WriteCSVFile(path, second, CSVOptions{}, logging.NewMockLogger()))

	rows, err := ReadCSVFile[testCSVRow](path, CSVOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, second, rows)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}
