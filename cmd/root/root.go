// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/session-payments/internal/config"
	"fjacquet/session-payments/internal/container"
	"fjacquet/session-payments/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger before any subcommand runs.
	Log = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the dependencies of the running command
	AppContainer *container.Container

	// ConfigFile is the explicit configuration file given with --config
	ConfigFile string

	// LogLevel overrides the configured log level when set
	LogLevel string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "session-payments",
		Short: "Reconcile bank transfers with patient sessions and produce quarterly billing reports.",
		Long: `session-payments reads the bank movements of a private practice, works out
which patient paid each transfer and how many sessions it covers, and
produces numbered quarterly billing reports.

Unclear payers are never guessed: the operator picks the patient, adds a
new one or skips the transfer.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to session-payments!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.session-payments, .session-payments or .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// initialize loads .env and the configuration, then wires the container.
func initialize(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := config.LoadConfig(ConfigFile)
	if err != nil {
		return err
	}
	if LogLevel != "" {
		if _, err := logrus.ParseLevel(LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %s", LogLevel)
		}
		cfg.Log.Level = LogLevel
	}

	c, err := container.NewContainer(cfg, container.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// GetContainer returns the container wired for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return AppContainer, nil
}
