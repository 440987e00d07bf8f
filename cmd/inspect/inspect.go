// Package inspect shows how a single concept line is understood
package inspect

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/session-payments/cmd/root"
	"fjacquet/session-payments/internal/conceptparser"
	"fjacquet/session-payments/internal/container"
	"fjacquet/session-payments/internal/matcher"
	"fjacquet/session-payments/internal/patient"

	"github.com/spf13/cobra"
)

var showCandidates bool

// Cmd represents the inspect command
var Cmd = &cobra.Command{
	Use:   "inspect <concept>",
	Short: "Show the payer, note and names found in a transfer concept",
	Long: `Parse one concept line offline and print the declared payer, the note,
the dictionary names found in the note and whether they corroborate the
payer. With --candidates the roster entries closest to the search query are
listed as well. Nothing is written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, strings.Join(args, " "), showCandidates, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVarP(&showCandidates, "candidates", "c", false, "Also rank the roster against the search query")
}

// Run prints the analysis of concept to out.
func Run(c *container.Container, concept string, candidates bool, out io.Writer) error {
	extractor, err := c.GetExtractor()
	if err != nil {
		return err
	}

	parsed, ok := conceptparser.Parse(concept)
	names := matcher.CandidateNames{}
	if parsed.HasNote {
		names = extractor.ExtractNames(parsed.Note)
	}
	consistent, matched := matcher.PayerAndConceptMatch(parsed.PayerNormalized, names)

	var b strings.Builder
	fmt.Fprintf(&b, "Concept:     %s\n", concept)
	if ok {
		fmt.Fprintf(&b, "Payer:       %s (%s)\n", parsed.PayerOriginal, parsed.PayerNormalized)
	} else {
		fmt.Fprintf(&b, "Payer:       none\n")
	}
	if parsed.HasNote {
		fmt.Fprintf(&b, "Note:        %s\n", parsed.Note)
	} else {
		fmt.Fprintf(&b, "Note:        none\n")
	}
	fmt.Fprintf(&b, "Names:       %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Consistent:  %t (matched: %s)\n", consistent, strings.Join(matched, ", "))

	if candidates {
		records, err := c.GetRosterStore().Load()
		if err != nil {
			return err
		}
		query := names.Query()
		if query == "" {
			query = parsed.PayerOriginal
		}
		if query == "" {
			query = concept
		}
		resolver := patient.NewResolver(patient.NewRoster(records), nil,
			c.GetConfig().Matching.PatientFloor, c.GetConfig().Matching.MaxCandidates, c.GetLogger())
		if rec, found := resolver.FindExact(query); found {
			fmt.Fprintf(&b, "Exact match: %s (%s)\n", rec.FullName, rec.IDNumber)
		}
		result := resolver.Lookup(query)
		fmt.Fprintf(&b, "Candidates for %q:\n", query)
		if len(result.Candidates) == 0 {
			fmt.Fprintf(&b, "  none\n")
		}
		for i, cand := range result.Candidates {
			fmt.Fprintf(&b, "  %d) %s (%s)   -   %.1f%%\n", i, cand.Record.FullName, cand.Record.IDNumber, cand.Score)
		}
	}

	_, err = io.WriteString(out, b.String())
	return err
}
