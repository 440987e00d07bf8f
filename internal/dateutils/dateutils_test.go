package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expected       time.Time
		expectedFormat string
		wantErr        bool
	}{
		{
			name:           "day first",
			input:          "03/02/2025",
			expected:       time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
			expectedFormat: DateLayoutDayFirst,
		},
		{
			name:           "day first without padding",
			input:          "3/2/2025",
			expected:       time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
			expectedFormat: "2/1/2006",
		},
		{
			name:           "ISO",
			input:          "2025-02-03",
			expected:       time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
			expectedFormat: DateLayoutISO,
		},
		{
			name:           "spreadsheet timestamp",
			input:          "2025-02-03 00:00:00",
			expected:       time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
			expectedFormat: DateLayoutFull,
		},
		{
			name:           "dotted with extra spaces",
			input:          "  03.02.2025 ",
			expected:       time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
			expectedFormat: DateLayoutEuropean,
		},
		{
			name:    "garbage",
			input:   "yesterday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, format, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expectedFormat, format)
		})
	}
}

func TestQuarter(t *testing.T) {
	assert.Equal(t, 1, Quarter(time.January))
	assert.Equal(t, 1, Quarter(time.March))
	assert.Equal(t, 2, Quarter(time.April))
	assert.Equal(t, 3, Quarter(time.September))
	assert.Equal(t, 4, Quarter(time.December))
}

func TestQuarterMonths(t *testing.T) {
	months, err := QuarterMonths(2)
	require.NoError(t, err)
	assert.Equal(t, []time.Month{time.April, time.May, time.June}, months)

	_, err = QuarterMonths(5)
	assert.Error(t, err)
	_, err = QuarterMonths(0)
	assert.Error(t, err)
}

func TestQuarterLabel(t *testing.T) {
	expected := map[int]string{
		1: "JAN-FEB-MAR",
		2: "APR-MAY-JUN",
		3: "JUL-AUG-SEP",
		4: "OCT-NOV-DEC",
	}
	for q, label := range expected {
		got, err := QuarterLabel(q)
		require.NoError(t, err)
		assert.Equal(t, label, got)
	}
}

func TestInQuarter(t *testing.T) {
	day := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, InQuarter(day, 2025, 2))
	assert.False(t, InQuarter(day, 2024, 2))
	assert.False(t, InQuarter(day, 2025, 1))
}
