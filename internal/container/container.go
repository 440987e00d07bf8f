// Package container provides dependency injection for the session-payments
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"io"
	"os"

	"fjacquet/session-payments/internal/batch"
	"fjacquet/session-payments/internal/config"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/matcher"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/namedict"
	"fjacquet/session-payments/internal/patient"
	"fjacquet/session-payments/internal/prompt"
	"fjacquet/session-payments/internal/reconciler"
	"fjacquet/session-payments/internal/report"
	"fjacquet/session-payments/internal/statement"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to access them.
//
// The cheap dependencies are built eagerly. The name dictionary and the
// roster are read from disk on first use, so commands that do not need them
// (quarterly, config show) work without those files.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	terminal  *prompt.Terminal
	store     *patient.CSVRosterStore
	generator *report.Generator

	dict *namedict.Dictionary
}

// Option customizes a Container.
type Option func(*containerOptions)

type containerOptions struct {
	in     io.Reader
	out    io.Writer
	logger logging.Logger
}

// WithIO sets the streams the operator prompt reads from and writes to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *containerOptions) {
		o.in = in
		o.out = out
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *containerOptions) {
		o.logger = logger
	}
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := containerOptions{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	c := &Container{
		logger:    logger,
		config:    cfg,
		terminal:  prompt.NewTerminal(o.in, o.out),
		store:     patient.NewCSVRosterStore(cfg.Files.Patients, logger),
		generator: report.NewGenerator(cfg.Files.ReportDir, logger),
	}

	logger.Debug("Container initialized",
		logging.F("patients_file", cfg.Files.Patients),
		logging.F("report_dir", cfg.Files.ReportDir))
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTerminal returns the operator prompt.
func (c *Container) GetTerminal() *prompt.Terminal {
	return c.terminal
}

// GetRosterStore returns the patient roster store.
func (c *Container) GetRosterStore() *patient.CSVRosterStore {
	return c.store
}

// GetReportGenerator returns the quarterly report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// UnitPrice returns the configured price of one session.
func (c *Container) UnitPrice() decimal.Decimal {
	return decimal.NewFromFloat(c.config.Billing.SessionPrice)
}

// StatementOptions returns the parser options of the configuration.
func (c *Container) StatementOptions() statement.Options {
	return statement.Options{
		SkipRows:  c.config.Statement.SkipRows,
		Delimiter: c.config.Delimiter(),
	}
}

// GetDictionary loads the first-name and surname lists on first use.
func (c *Container) GetDictionary() (*namedict.Dictionary, error) {
	if c.dict != nil {
		return c.dict, nil
	}
	dict, err := namedict.Load(c.config.Files.Names, c.config.Files.Surnames)
	if err != nil {
		return nil, err
	}
	first, last := dict.Len()
	c.logger.Info("Loaded name dictionary",
		logging.F("first_names", first),
		logging.F("surnames", last))
	c.dict = dict
	return dict, nil
}

// GetExtractor returns a name extractor over the dictionary.
func (c *Container) GetExtractor() (*matcher.Extractor, error) {
	dict, err := c.GetDictionary()
	if err != nil {
		return nil, err
	}
	return matcher.NewExtractor(dict, c.config.Matching.TokenThreshold), nil
}

// LoadBillable reads the statements at paths, merges them in date order and
// keeps the movements that pay whole sessions.
func (c *Container) LoadBillable(paths ...string) ([]models.Transaction, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no statement given")
	}
	opts := c.StatementOptions()
	txs, err := batch.NewAggregator(c.logger).Aggregate(paths, func(path string) ([]models.Transaction, error) {
		return statement.Load(path, opts, c.logger)
	})
	if err != nil {
		return nil, err
	}
	billable := statement.FilterBillable(txs, c.UnitPrice(), c.logger)
	c.logger.Info("Billable movements selected",
		logging.F(logging.FieldCount, len(billable)),
		logging.F("ignored", len(txs)-len(billable)))
	return billable, nil
}

// NewReconciler loads the roster and wires a reconciler that asks the
// terminal operator.
func (c *Container) NewReconciler() (*reconciler.Reconciler, error) {
	extractor, err := c.GetExtractor()
	if err != nil {
		return nil, err
	}
	records, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	resolver := patient.NewResolver(
		patient.NewRoster(records),
		c.terminal,
		c.config.Matching.PatientFloor,
		c.config.Matching.MaxCandidates,
		c.logger,
	)
	return reconciler.New(extractor, resolver, c.terminal, c.store, reconciler.Options{
		UnitPrice:       c.UnitPrice(),
		PersistOnAppend: c.config.Roster.PersistOnAppend,
	}, c.logger), nil
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
