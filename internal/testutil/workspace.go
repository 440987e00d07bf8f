// Package testutil lays out throwaway working directories for command and
// integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/session-payments/internal/config"

	"github.com/stretchr/testify/require"
)

// Statement is a movement sheet with a seven line preamble. Two of its
// movements are billable at 50: a transfer from a roster patient and one from
// a payer the roster does not know.
const Statement = `Bank of the Practice
Account: ES00 0000 0000 0000
Holder: Practice
Period: 01/01/2025 - 31/03/2025

Movements

TRANSACTION DATE,VALUE DATE,CONCEPT,AMOUNT (EUR),BALANCE (EUR)
14/03/2025,14/03/2025,"BIZUM FROM ANA RUIZ, CONCEPT SESSION",100,"1.100,00"
15/03/2025,15/03/2025,CARD PAYMENT OFFICE SUPPLIES,"-20,00","1.080,00"
16/03/2025,16/03/2025,BIZUM FROM ANA RUIZ,75,"1.155,00"
17/03/2025,17/03/2025,TRANSFER FROM LUIS PEREZ WITHOUT CONCEPT,50,"1.205,00"
`

// Workspace is a temporary directory holding every input file.
type Workspace struct {
	Dir    string
	Config *config.Config
}

// Path returns the absolute path of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Write creates name in the workspace with content.
func (w *Workspace) Write(t *testing.T, name, content string) string {
	t.Helper()
	path := w.Path(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// NewWorkspace writes the dictionaries, a one-patient roster and Statement
// to a temporary directory and loads a configuration pointing at them.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w := &Workspace{Dir: t.TempDir()}

	w.Write(t, "names_list.csv", "Name\nAna\nLuis\nJuan\n")
	w.Write(t, "surnames_list.csv", "Surname\nRuiz\nPérez\nGarcía\n")
	w.Write(t, "patients.csv", "Full Name,ID Number\nANA RUIZ,111A\n")
	w.Write(t, "transactions.csv", Statement)

	cfgFile := w.Write(t, "config.yaml", strings.Join([]string{
		"files:",
		"  names: " + w.Path("names_list.csv"),
		"  surnames: " + w.Path("surnames_list.csv"),
		"  patients: " + w.Path("patients.csv"),
		"  statement: " + w.Path("transactions.csv"),
		"  results: " + w.Path("transaction_results.csv"),
		"  report_dir: " + w.Path("reports"),
		"",
	}, "\n"))

	cfg, err := config.LoadConfig(cfgFile)
	require.NoError(t, err)
	w.Config = cfg
	return w
}
