package xmlutils

import "gopkg.in/xmlpath.v2"

// CAMT053 holds the compiled XPath expressions used to read a CAMT.053
// statement. Entry fields are relative to an Ntry node.
type CAMT053 struct {
	Statement *xmlpath.Path
	Entries   *xmlpath.Path

	Entry struct {
		Amount          *xmlpath.Path
		Currency        *xmlpath.Path
		CreditDebitInd  *xmlpath.Path
		BookingDate     *xmlpath.Path
		BookingDateTime *xmlpath.Path
		ValueDate       *xmlpath.Path
		AddEntryInfo    *xmlpath.Path
	}

	Remittance struct {
		UnstructuredInfo *xmlpath.Path
		AdditionalTxInfo *xmlpath.Path
	}

	Party struct {
		DebtorName     *xmlpath.Path
		UltimateDebtor *xmlpath.Path
	}
}

// DefaultCamt053XPaths returns the XPath expressions for CAMT.053 statements
func DefaultCamt053XPaths() CAMT053 {
	var camt CAMT053

	camt.Statement = xmlpath.MustCompile("//BkToCstmrStmt/Stmt")
	camt.Entries = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Ntry")

	camt.Entry.Amount = xmlpath.MustCompile("Amt")
	camt.Entry.Currency = xmlpath.MustCompile("Amt/@Ccy")
	camt.Entry.CreditDebitInd = xmlpath.MustCompile("CdtDbtInd")
	camt.Entry.BookingDate = xmlpath.MustCompile("BookgDt/Dt")
	camt.Entry.BookingDateTime = xmlpath.MustCompile("BookgDt/DtTm")
	camt.Entry.ValueDate = xmlpath.MustCompile("ValDt/Dt")
	camt.Entry.AddEntryInfo = xmlpath.MustCompile("AddtlNtryInf")

	camt.Remittance.UnstructuredInfo = xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd")
	camt.Remittance.AdditionalTxInfo = xmlpath.MustCompile("NtryDtls/TxDtls/AddtlTxInf")

	camt.Party.DebtorName = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Dbtr/Nm")
	camt.Party.UltimateDebtor = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/UltmtDbtr/Nm")

	return camt
}
