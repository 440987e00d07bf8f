package reconcile

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/session-payments/internal/container"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/reconciler"
	"fjacquet/session-payments/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T, w *testutil.Workspace, in io.Reader, out io.Writer) *container.Container {
	t.Helper()
	c, err := container.NewContainer(w.Config, container.WithIO(in, out), container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	return c
}

func TestReconcileCommand_Metadata(t *testing.T) {
	assert.Equal(t, "reconcile", Cmd.Use)
	assert.Contains(t, Cmd.Short, "billable transfers")
	assert.NotNil(t, Cmd.RunE)

	statementFlag := Cmd.Flags().Lookup("statement")
	require.NotNil(t, statementFlag)
	assert.Equal(t, "s", statementFlag.Shorthand)

	outputFlag := Cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	quarterlyFlag := Cmd.Flags().Lookup("quarterly")
	require.NotNil(t, quarterlyFlag)
	assert.Equal(t, "false", quarterlyFlag.DefValue)
}

func TestRun(t *testing.T) {
	w := testutil.NewWorkspace(t)
	var out bytes.Buffer
	c := newContainer(t, w, strings.NewReader("222b\n"), &out)

	require.NoError(t, Run(c, Options{}, &out))

	assert.Contains(t, out.String(), "Enter ID Number for LUIS PEREZ: ")
	assert.Contains(t, out.String(), "2 reconciled (1 new patients), 0 escalated, 0 skipped.")
	assert.Contains(t, out.String(), "€150.00 received for 3 sessions.")

	payments, err := reconciler.ReadResults(w.Config.Files.Results, nil)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "ANA RUIZ", payments[0].FullName)
	assert.Equal(t, 2, payments[0].Sessions)
	assert.Equal(t, "222B", payments[1].IDNumber)
}

func TestRun_SeveralStatements(t *testing.T) {
	w := testutil.NewWorkspace(t)
	var out bytes.Buffer
	c := newContainer(t, w, strings.NewReader("222B\n"), &out)

	header := strings.SplitAfter(testutil.Statement, "BALANCE (EUR)\n")[0]
	w.Write(t, "exports/march.csv", testutil.Statement)
	w.Write(t, "exports/april.csv", header+
		"17/03/2025,17/03/2025,TRANSFER FROM LUIS PEREZ WITHOUT CONCEPT,50,\"1.205,00\"\n"+
		"02/04/2025,02/04/2025,\"BIZUM FROM ANA RUIZ, CONCEPT APRIL\",50,\"1.255,00\"\n")

	require.NoError(t, Run(c, Options{Statements: []string{w.Path("exports")}}, &out))
	assert.Contains(t, out.String(), "3 reconciled (1 new patients), 0 escalated, 0 skipped.")

	payments, err := reconciler.ReadResults(w.Config.Files.Results, nil)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.Equal(t, "LUIS PEREZ", payments[1].FullName)
	assert.Equal(t, "ANA RUIZ", payments[2].FullName)
}

func TestRun_ChainsQuarterly(t *testing.T) {
	w := testutil.NewWorkspace(t)
	var out bytes.Buffer
	c := newContainer(t, w, strings.NewReader("222B\n2025\n1\n"), &out)

	output := w.Path("out/results.csv")
	require.NoError(t, Run(c, Options{Output: output, Quarterly: true}, &out))

	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(w.Config.Files.ReportDir, "2025", "JAN-FEB-MAR.csv"))
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing statement", func(t *testing.T) {
		w := testutil.NewWorkspace(t)
		var out bytes.Buffer
		c := newContainer(t, w, strings.NewReader(""), &out)
		assert.Error(t, Run(c, Options{Statements: []string{w.Path("nope.csv")}}, &out))
	})

	t.Run("operator input closed", func(t *testing.T) {
		w := testutil.NewWorkspace(t)
		var out bytes.Buffer
		c := newContainer(t, w, strings.NewReader(""), &out)

		err := Run(c, Options{}, &out)
		require.Error(t, err)
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
		assert.Contains(t, err.Error(), "reconciliation stopped after 1 of 2 transactions")
		assert.NoFileExists(t, w.Config.Files.Results)
	})
}
