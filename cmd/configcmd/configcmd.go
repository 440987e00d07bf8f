// Package configcmd handles the configuration commands
package configcmd

import (
	"fjacquet/session-payments/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults, config.yaml and SESSIONS_*
environment variables have been applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return c.GetConfig().Dump(cmd.OutOrStdout())
	},
}

func init() {
	Cmd.AddCommand(showCmd)
}
