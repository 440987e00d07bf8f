package config

import (
	"os"
	"path/filepath"

	"fjacquet/session-payments/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the working
// directory or its parent, when one exists. Variables already set in the
// environment win over the file. It returns the file that was loaded, or ""
// when none was found.
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.Discard()
	}

	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
		return envFile
	}

	logger.Debug("No .env file found, using environment variables")
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
