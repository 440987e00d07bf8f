// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is a bank movement as imported from a statement.
type Transaction struct {
	Date    Date            // Booking date of the movement
	Concept string          // Free-text description supplied by the bank
	Amount  decimal.Decimal // Positive for incoming money
}

// IsCredit returns true if the transaction brings money in
func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// ParseAmount parses a string amount to decimal.Decimal.
//
// Both "1234.50" and the European "1.234,50" forms are accepted, as well as
// currency symbols and thousand separators. Unparseable input yields zero.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	for _, symbol := range []string{"EUR", "€", "CHF", "USD", "$", " ", "'", " "} {
		amount = strings.ReplaceAll(amount, symbol, "")
	}

	// With both separators present the last one is the decimal separator
	lastDot := strings.LastIndex(amount, ".")
	lastComma := strings.LastIndex(amount, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.ReplaceAll(amount, ",", ".")
	case lastDot >= 0 && lastComma >= 0:
		amount = strings.ReplaceAll(amount, ",", "")
	case lastComma >= 0:
		amount = strings.ReplaceAll(amount, ",", ".")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}
