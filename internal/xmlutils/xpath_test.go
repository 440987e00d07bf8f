package xmlutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/xmlpath.v2"
)

const sampleStatement = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Ntry>
        <Amt Ccy="EUR">100.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2025-03-14</Dt></BookgDt>
        <AddtlNtryInf>BIZUM FROM ANA
          RUIZ, CONCEPT SESSION</AddtlNtryInf>
        <NtryDtls><TxDtls><RmtInf>
          <Ustrd>first line</Ustrd>
          <Ustrd> </Ustrd>
          <Ustrd>second line</Ustrd>
        </RmtInf></TxDtls></NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">20.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func parseSample(t *testing.T) *xmlpath.Node {
	t.Helper()
	root, err := Parse(strings.NewReader(sampleStatement))
	require.NoError(t, err)
	return root
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("<Document><open></Document>"))
	assert.Error(t, err)
}

func TestExtractFromXML(t *testing.T) {
	root := parseSample(t)

	amounts, err := ExtractFromXML(root, "//Ntry/Amt")
	require.NoError(t, err)
	assert.Equal(t, []string{"100.00", "20.00"}, amounts)

	currencies, err := ExtractFromXML(root, "//Ntry/Amt/@Ccy")
	require.NoError(t, err)
	assert.Equal(t, []string{"EUR", "EUR"}, currencies)

	_, err = ExtractFromXML(root, "//Ntry[")
	assert.Error(t, err)
}

func TestEntryRelativePaths(t *testing.T) {
	root := parseSample(t)
	camt := DefaultCamt053XPaths()

	require.True(t, Exists(root, camt.Statement))
	entries := Nodes(root, camt.Entries)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "100.00", First(first, camt.Entry.Amount))
	assert.Equal(t, "CRDT", First(first, camt.Entry.CreditDebitInd))
	assert.Equal(t, "2025-03-14", First(first, camt.Entry.BookingDate))
	assert.Equal(t, "BIZUM FROM ANA RUIZ, CONCEPT SESSION", First(first, camt.Entry.AddEntryInfo))
	assert.Equal(t, []string{"first line", "second line"}, All(first, camt.Remittance.UnstructuredInfo))

	second := entries[1]
	assert.Equal(t, "DBIT", First(second, camt.Entry.CreditDebitInd))
	assert.Equal(t, "", First(second, camt.Entry.BookingDate))
	assert.Empty(t, All(second, camt.Remittance.UnstructuredInfo))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  plain  ", "plain"},
		{"line\n\tbreak", "line break"},
		{"many     spaces", "many spaces"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CleanText(tt.input))
	}
}
