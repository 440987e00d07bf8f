// Package currencyutils formats and totals the amounts shown to the operator.
package currencyutils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats a decimal amount to a consistent display format with the specified currency.
// The amount is formatted with two decimal places without inserting thousands separators.
// Returns strings like "CHF 1234.56" or "€1234.56"
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)

	if currency == "" {
		return formattedAmount
	}

	switch strings.ToUpper(currency) {
	case "EUR":
		return "€" + formattedAmount
	case "USD":
		return "$" + formattedAmount
	case "GBP":
		return "£" + formattedAmount
	case "CHF":
		return "CHF " + formattedAmount
	default:
		return strings.ToUpper(currency) + " " + formattedAmount
	}
}

// Sum adds up the amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(amounts[0], amounts[1:]...)
}

