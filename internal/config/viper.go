// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. SESSIONS_LOG_LEVEL.
const EnvPrefix = "SESSIONS"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Files struct {
		Names     string `mapstructure:"names" yaml:"names"`
		Surnames  string `mapstructure:"surnames" yaml:"surnames"`
		Patients  string `mapstructure:"patients" yaml:"patients"`
		Statement string `mapstructure:"statement" yaml:"statement"`
		Results   string `mapstructure:"results" yaml:"results"`
		ReportDir string `mapstructure:"report_dir" yaml:"report_dir"`
	} `mapstructure:"files" yaml:"files"`

	Statement struct {
		SkipRows  int    `mapstructure:"skip_rows" yaml:"skip_rows"`
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"statement" yaml:"statement"`

	Billing struct {
		SessionPrice float64 `mapstructure:"session_price" yaml:"session_price"`
		Currency     string  `mapstructure:"currency" yaml:"currency"`
	} `mapstructure:"billing" yaml:"billing"`

	Matching struct {
		TokenThreshold float64 `mapstructure:"token_threshold" yaml:"token_threshold"`
		PatientFloor   float64 `mapstructure:"patient_floor" yaml:"patient_floor"`
		MaxCandidates  int     `mapstructure:"max_candidates" yaml:"max_candidates"`
	} `mapstructure:"matching" yaml:"matching"`

	Roster struct {
		PersistOnAppend bool `mapstructure:"persist_on_append" yaml:"persist_on_append"`
	} `mapstructure:"roster" yaml:"roster"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig loads the configuration from the default locations
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads the configuration hierarchically: defaults, then the
// config file, then SESSIONS_* environment variables. An empty configFile
// searches $HOME/.session-payments, .session-payments and the working
// directory for config.yaml; a missing file there is not an error.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.session-payments")
		v.AddConfigPath(".session-payments")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("files.names", "names_list.csv")
	v.SetDefault("files.surnames", "surnames_list.csv")
	v.SetDefault("files.patients", "patients.csv")
	v.SetDefault("files.statement", "transactions.csv")
	v.SetDefault("files.results", "transaction_results.csv")
	v.SetDefault("files.report_dir", "reports")

	// The bank export carries a seven line preamble above the header
	v.SetDefault("statement.skip_rows", 7)
	v.SetDefault("statement.delimiter", ",")

	v.SetDefault("billing.session_price", 50.0)
	v.SetDefault("billing.currency", "EUR")

	v.SetDefault("matching.token_threshold", 85.0)
	v.SetDefault("matching.patient_floor", 50.0)
	v.SetDefault("matching.max_candidates", 5)

	v.SetDefault("roster.persist_on_append", true)

	v.SetDefault("report.format", "csv")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Statement.SkipRows < 0 {
		return fmt.Errorf("statement.skip_rows must not be negative, got: %d", config.Statement.SkipRows)
	}

	if len([]rune(config.Statement.Delimiter)) != 1 {
		return fmt.Errorf("statement delimiter must be a single character, got: %s", config.Statement.Delimiter)
	}

	if config.Billing.SessionPrice <= 0 {
		return fmt.Errorf("billing.session_price must be positive, got: %v", config.Billing.SessionPrice)
	}

	if config.Matching.TokenThreshold < 0 || config.Matching.TokenThreshold > 100 {
		return fmt.Errorf("matching.token_threshold must be between 0 and 100, got: %v", config.Matching.TokenThreshold)
	}

	if config.Matching.PatientFloor < 0 || config.Matching.PatientFloor > 100 {
		return fmt.Errorf("matching.patient_floor must be between 0 and 100, got: %v", config.Matching.PatientFloor)
	}

	if config.Matching.MaxCandidates < 1 {
		return fmt.Errorf("matching.max_candidates must be at least 1, got: %d", config.Matching.MaxCandidates)
	}

	if config.Report.Format != "csv" && config.Report.Format != "json" {
		return fmt.Errorf("invalid report format: %s (must be 'csv' or 'json')", config.Report.Format)
	}

	return nil
}

// Dump writes the effective configuration as YAML
func (c *Config) Dump(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return encoder.Close()
}

// Delimiter returns the statement delimiter as a rune
func (c *Config) Delimiter() rune {
	r := []rune(c.Statement.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}
