// Package reconcile handles the statement reconciliation command
package reconcile

import (
	"fmt"
	"io"

	"fjacquet/session-payments/cmd/quarterly"
	"fjacquet/session-payments/cmd/root"
	"fjacquet/session-payments/internal/container"
	"fjacquet/session-payments/internal/currencyutils"
	"fjacquet/session-payments/internal/reconciler"
	"fjacquet/session-payments/internal/scanner"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Options locate the input statements and the results file.
type Options struct {
	Statements []string
	Output    string
	// Quarterly chains the quarterly report once the results are written.
	Quarterly bool
}

var flags Options

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Attribute the billable transfers of a statement to patients",
	Long: `Read one or more bank statements (movement sheet CSV or CAMT.053 XML), keep
the transfers that pay whole sessions and attribute each one to a patient.
A directory given to --statement contributes every .csv, .xml, .camt and
.053 file below it. Movements repeated by statements of overlapping periods
are counted once.

A transfer whose payer is corroborated by its note and found in the roster
is attributed directly; a corroborated payer missing from the roster is
added after asking for the ID number. Every other transfer is shown to the
operator with the closest roster entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringSliceVarP(&flags.Statements, "statement", "s", nil, "Bank statement files or directories, repeatable (default: files.statement)")
	Cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Results file (default: files.results)")
	Cmd.Flags().BoolVar(&flags.Quarterly, "quarterly", false, "Generate a quarterly report afterwards")
}

// Run reconciles the statement and writes the results file.
func Run(c *container.Container, opts Options, out io.Writer) error {
	cfg := c.GetConfig()
	logger := c.GetLogger()

	if len(opts.Statements) == 0 {
		opts.Statements = []string{cfg.Files.Statement}
	}
	if opts.Output == "" {
		opts.Output = cfg.Files.Results
	}

	files, err := scanner.NewStatementScanner(logger).ScanPaths(opts.Statements)
	if err != nil {
		return err
	}

	txs, err := c.LoadBillable(files...)
	if err != nil {
		return err
	}

	rec, err := c.NewReconciler()
	if err != nil {
		return err
	}

	payments, summary, err := rec.Run(txs)
	if err != nil {
		return fmt.Errorf("reconciliation stopped after %d of %d transactions: %w",
			summary.Reconciled()+summary.Skipped, summary.Total, err)
	}

	if err := reconciler.WriteResults(opts.Output, payments, logger); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "'%s' generated! %d reconciled (%d new patients), %d escalated, %d skipped.\n",
		opts.Output, summary.Reconciled(), summary.Created, summary.Escalated, summary.Skipped); err != nil {
		return err
	}

	amounts := make([]decimal.Decimal, len(payments))
	sessions := 0
	for i, p := range payments {
		amounts[i] = p.Amount
		sessions += p.Sessions
	}
	if _, err := fmt.Fprintf(out, "%s received for %d sessions.\n",
		currencyutils.FormatAmount(currencyutils.Sum(amounts...), cfg.Billing.Currency), sessions); err != nil {
		return err
	}

	if opts.Quarterly {
		return quarterly.Run(c, quarterly.Options{Input: opts.Output}, out)
	}
	return nil
}
