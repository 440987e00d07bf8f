package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/session-payments/internal/container"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/reconciler"
	"fjacquet/session-payments/internal/report"
	"fjacquet/session-payments/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// camtStatement carries the same billable movements as testutil.Statement.
const camtStatement = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.04">
  <BkToCstmrStmt>
    <Stmt>
      <Ntry>
        <Amt Ccy="EUR">100.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2025-03-14</Dt></BookgDt>
        <AddtlNtryInf>BIZUM FROM ANA RUIZ, CONCEPT SESSION</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">20.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2025-03-15</Dt></BookgDt>
        <AddtlNtryInf>CARD PAYMENT OFFICE SUPPLIES</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">75.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2025-03-16</Dt></BookgDt>
        <AddtlNtryInf>BIZUM FROM ANA RUIZ</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">50.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2025-03-17</Dt></BookgDt>
        <NtryDtls><TxDtls>
          <RltdPties><Dbtr><Nm>LUIS PEREZ</Nm></Dbtr></RltdPties>
        </TxDtls></NtryDtls>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func reconcileFile(t *testing.T, w *testutil.Workspace, statementPath, operatorInput string) ([]models.ReconciledPayment, reconciler.Summary) {
	t.Helper()
	c, err := container.NewContainer(w.Config,
		container.WithIO(strings.NewReader(operatorInput), &bytes.Buffer{}),
		container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	txs, err := c.LoadBillable(statementPath)
	require.NoError(t, err)
	rec, err := c.NewReconciler()
	require.NoError(t, err)
	payments, summary, err := rec.Run(txs)
	require.NoError(t, err)
	return payments, summary
}

// TestStatementFormatsAgree checks that the movement sheet and the CAMT.053
// export of the same movements reconcile to the same payments.
func TestStatementFormatsAgree(t *testing.T) {
	csvWorkspace := testutil.NewWorkspace(t)
	fromCSV, csvSummary := reconcileFile(t, csvWorkspace, csvWorkspace.Config.Files.Statement, "222B\n")

	camtWorkspace := testutil.NewWorkspace(t)
	camtPath := camtWorkspace.Write(t, "statement.xml", camtStatement)
	fromCAMT, camtSummary := reconcileFile(t, camtWorkspace, camtPath, "222B\n")

	assert.Equal(t, csvSummary, camtSummary)
	require.Len(t, fromCAMT, len(fromCSV))
	for i := range fromCSV {
		assert.Equal(t, fromCSV[i].FullName, fromCAMT[i].FullName)
		assert.Equal(t, fromCSV[i].IDNumber, fromCAMT[i].IDNumber)
		assert.Equal(t, fromCSV[i].Date, fromCAMT[i].Date)
		assert.Equal(t, fromCSV[i].Sessions, fromCAMT[i].Sessions)
		assert.True(t, fromCSV[i].Amount.Equal(fromCAMT[i].Amount))
	}
}

// TestQuarterToQuarter runs two statements through reconciliation and
// reporting and checks that invoice numbers carry over between quarters and
// that a patient added in the first run is known in the second.
func TestQuarterToQuarter(t *testing.T) {
	w := testutil.NewWorkspace(t)

	q1, _ := reconcileFile(t, w, w.Config.Files.Statement, "222B\n")
	require.NoError(t, reconciler.WriteResults(w.Config.Files.Results, q1, nil))

	secondStatement := strings.ReplaceAll(testutil.Statement, "/03/2025", "/04/2025")
	q2Path := w.Write(t, "april.csv", secondStatement)
	q2, summary := reconcileFile(t, w, q2Path, "")
	assert.Equal(t, 0, summary.Created, "LUIS PEREZ was saved to the roster by the first run")
	assert.Equal(t, 2, summary.Matched)

	all, err := reconciler.ReadResults(w.Config.Files.Results, nil)
	require.NoError(t, err)
	all = append(all, q2...)

	gen := report.NewGenerator(w.Config.Files.ReportDir, nil)
	first, err := gen.Generate(all, report.Request{Year: 2025, Quarter: 1})
	require.NoError(t, err)
	second, err := gen.Generate(all, report.Request{Year: 2025, Quarter: 2})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, numbers(first.Entries))
	assert.Equal(t, []int{3, 4}, numbers(second.Entries))
	assert.Equal(t, models.NewDate(2025, time.April, 14), second.Entries[0].Date)

	data, err := os.ReadFile(filepath.Join(w.Config.Files.ReportDir, "2025", "APR-MAY-JUN.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "4,LUIS PEREZ,222B,50,17/04/2025,1")
}

func numbers(entries []models.QuarterlyEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Number
	}
	return out
}
