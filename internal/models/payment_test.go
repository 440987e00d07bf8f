package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"100", "100"},
		{"100.00", "100"},
		{"100,00", "100"},
		{"1.234,50", "1234.5"},
		{"1,234.50", "1234.5"},
		{"-20,00", "-20"},
		{"€ 150,00", "150"},
		{"150 EUR", "150"},
		{"1'250.00", "1250"},
		{"", "0"},
		{"abc", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseAmount(tt.input)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestTransaction_IsCredit(t *testing.T) {
	assert.True(t, Transaction{Amount: decimal.NewFromInt(50)}.IsCredit())
	assert.False(t, Transaction{Amount: decimal.NewFromInt(-50)}.IsCredit())
	assert.False(t, Transaction{}.IsCredit())
}

func TestSessionCount(t *testing.T) {
	price := decimal.NewFromInt(50)

	tests := []struct {
		name     string
		amount   decimal.Decimal
		sessions int
		ok       bool
	}{
		{"one session", decimal.NewFromInt(50), 1, true},
		{"four sessions", decimal.NewFromInt(200), 4, true},
		{"decimal multiple", decimal.RequireFromString("100.00"), 2, true},
		{"not a multiple", decimal.NewFromInt(75), 0, false},
		{"cents off", decimal.RequireFromString("50.01"), 0, false},
		{"zero", decimal.Zero, 0, false},
		{"debit", decimal.NewFromInt(-50), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, ok := SessionCount(tt.amount, price)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.sessions, sessions)
		})
	}

	_, ok := SessionCount(decimal.NewFromInt(50), decimal.Zero)
	assert.False(t, ok, "a zero unit price never bills")
}

func TestNewReconciledPayment(t *testing.T) {
	tx := Transaction{
		Date:    NewDate(2025, time.March, 14),
		Concept: "BIZUM FROM ANA RUIZ",
		Amount:  decimal.NewFromInt(150),
	}
	payment := NewReconciledPayment(PatientRecord{FullName: "ANA RUIZ", IDNumber: "111A"}, tx, decimal.NewFromInt(50))

	assert.Equal(t, "ANA RUIZ", payment.FullName)
	assert.Equal(t, "111A", payment.IDNumber)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, tx.Date, payment.Date)
	assert.Equal(t, 3, payment.Sessions)
}

func TestPatientRecord_IsEmpty(t *testing.T) {
	assert.True(t, PatientRecord{}.IsEmpty())
	assert.False(t, PatientRecord{FullName: "ANA"}.IsEmpty())
	assert.False(t, PatientRecord{IDNumber: "1"}.IsEmpty())
}

func TestDate_CSV(t *testing.T) {
	d := NewDate(2025, time.February, 3)

	s, err := d.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "03/02/2025", s)

	var parsed Date
	require.NoError(t, parsed.UnmarshalCSV("03/02/2025"))
	assert.Equal(t, d, parsed)

	require.NoError(t, parsed.UnmarshalCSV("2025-02-03 00:00:00"))
	assert.Equal(t, d, parsed)

	require.NoError(t, parsed.UnmarshalCSV("  "))
	assert.True(t, parsed.IsZero())

	assert.Error(t, parsed.UnmarshalCSV("31/02/2025"))

	empty, err := Date{}.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestDate_JSON(t *testing.T) {
	entry := QuarterlyEntry{
		Number:   7,
		FullName: "ANA RUIZ",
		Payment:  decimal.NewFromInt(100),
		Date:     NewDate(2025, time.April, 1),
		Sessions: 2,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"01/04/2025"`)

	var decoded QuarterlyEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry.Date, decoded.Date)
	assert.True(t, entry.Payment.Equal(decoded.Payment))
}

func TestDate_Ordering(t *testing.T) {
	early := DateOf(time.Date(2025, time.January, 5, 18, 30, 0, 0, time.UTC))
	late := NewDate(2025, time.January, 6)

	assert.True(t, early.Before(late))
	assert.False(t, late.Before(early))
	assert.Equal(t, 2025, early.Year())
	assert.Equal(t, time.January, early.Month())
	assert.Equal(t, "05/01/2025", early.String())
}
