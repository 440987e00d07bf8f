// Package quarterly handles the quarterly billing report command
package quarterly

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/session-payments/cmd/root"
	"fjacquet/session-payments/internal/container"
	"fjacquet/session-payments/internal/currencyutils"
	"fjacquet/session-payments/internal/dateutils"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/reconciler"
	"fjacquet/session-payments/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Options select the report to produce. A zero Year or Quarter is asked for
// on the terminal.
type Options struct {
	Input   string
	Year    int
	Quarter int
	Format  string
}

var flags Options

// Cmd represents the quarterly command
var Cmd = &cobra.Command{
	Use:   "quarterly",
	Short: "Generate the numbered billing report of a quarter",
	Long: `Generate the billing report of one quarter from the reconciled payments.

Entries are sorted by date and numbered after the highest number of the
previous quarter's report of the same year. The report is written to
<report_dir>/<year>/JAN-FEB-MAR.csv (or APR-MAY-JUN, JUL-AUG-SEP, OCT-NOV-DEC).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&flags.Input, "input", "i", "", "Reconciled payments file (default: files.results)")
	Cmd.Flags().IntVarP(&flags.Year, "year", "y", 0, "Year of the quarter (asked when omitted)")
	Cmd.Flags().IntVarP(&flags.Quarter, "quarter", "q", 0, "Quarter 1-4 (asked when omitted)")
	Cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Report format: csv or json (default: report.format)")
}

// Run generates the report described by opts.
func Run(c *container.Container, opts Options, out io.Writer) error {
	cfg := c.GetConfig()
	logger := c.GetLogger()

	if opts.Input == "" {
		opts.Input = cfg.Files.Results
	}
	if opts.Format == "" {
		opts.Format = cfg.Report.Format
	}

	var err error
	if opts.Year == 0 {
		opts.Year, err = c.GetTerminal().AskNumber("Enter the year of the quarter: ", func(y int) bool { return y >= 0 })
		if err != nil {
			return err
		}
	}
	if opts.Quarter == 0 {
		opts.Quarter, err = c.GetTerminal().AskNumber("Enter the quarter (1-4): ", dateutils.ValidQuarter)
		if err != nil {
			return err
		}
	}

	payments, err := reconciler.ReadResults(opts.Input, logger)
	if err != nil {
		return err
	}

	res, err := c.GetReportGenerator().Generate(payments, report.Request{
		Year:    opts.Year,
		Quarter: opts.Quarter,
		Format:  report.Format(opts.Format),
	})
	if errors.Is(err, report.ErrEmptyQuarter) {
		_, err = fmt.Fprintln(out, "No payments in this quarter.")
		return err
	}
	if err != nil {
		return err
	}

	logger.Info("Quarterly report ready",
		logging.F(logging.FieldOutputFile, res.Path),
		logging.F(logging.FieldCount, len(res.Entries)))
	if _, err := fmt.Fprintf(out, "'%s' generated!\n", res.Path); err != nil {
		return err
	}

	last := res.Entries[len(res.Entries)-1].Number
	amounts := make([]decimal.Decimal, len(res.Entries))
	sessions := 0
	for i, e := range res.Entries {
		amounts[i] = e.Payment
		sessions += e.Sessions
	}
	_, err = fmt.Fprintf(out, "%d entries numbered %d-%d, %d sessions, %s billed.\n",
		len(res.Entries), res.StartNumber, last, sessions,
		currencyutils.FormatAmount(currencyutils.Sum(amounts...), cfg.Billing.Currency))
	return err
}
