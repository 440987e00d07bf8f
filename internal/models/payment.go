package models

import (
	"github.com/shopspring/decimal"
)

// ReconciledPayment is a transaction attributed to a patient.
type ReconciledPayment struct {
	FullName string          `csv:"Full Name" json:"full_name"`
	IDNumber string          `csv:"ID Number" json:"id_number"`
	Amount   decimal.Decimal `csv:"Amount" json:"amount"`
	Date     Date            `csv:"Transaction date" json:"transaction_date"`
	Sessions int             `csv:"Sessions" json:"sessions"`
}

// QuarterlyEntry is a numbered line of a quarterly billing report.
type QuarterlyEntry struct {
	Number   int             `csv:"Number" json:"number"`
	FullName string          `csv:"Full Name" json:"full_name"`
	IDNumber string          `csv:"ID Number" json:"id_number"`
	Payment  decimal.Decimal `csv:"Payment (€)" json:"payment"`
	Date     Date            `csv:"Date" json:"date"`
	Sessions int             `csv:"Sessions" json:"sessions"`
}

// SessionCount returns how many sessions amount pays for at unitPrice.
// ok is false unless amount is positive and an exact multiple of unitPrice.
func SessionCount(amount, unitPrice decimal.Decimal) (sessions int, ok bool) {
	if !amount.IsPositive() || !unitPrice.IsPositive() {
		return 0, false
	}
	if !amount.Mod(unitPrice).IsZero() {
		return 0, false
	}
	return int(amount.Div(unitPrice).IntPart()), true
}

// NewReconciledPayment attributes tx to patient.
func NewReconciledPayment(patient PatientRecord, tx Transaction, unitPrice decimal.Decimal) ReconciledPayment {
	sessions, _ := SessionCount(tx.Amount, unitPrice)
	return ReconciledPayment{
		FullName: patient.FullName,
		IDNumber: patient.IDNumber,
		Amount:   tx.Amount,
		Date:     tx.Date,
		Sessions: sessions,
	}
}
