// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"

	"go.uber.org/multierr"
)

// Config represents the application configuration
type Config struct {
	// External collaborators
	API       *APIConfig
	Snowflake *SnowflakeConfig

	// Load settings
	DestinationTable string
	LoadBatchSize    int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load builds the configuration from environment variables. Missing required
// variables are collected and reported as a single aggregated error rather
// than one at a time.
func Load() (*Config, error) {
	cfg := &Config{
		DestinationTable: getEnv("DESTINATION_TABLE", "NYPD_ARRESTS"),
		LoadBatchSize:    getEnvAsInt("LOAD_BATCH_SIZE", 10000),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	var errs error

	apiCfg, err := LoadAPIConfig()
	errs = multierr.Append(errs, err)
	cfg.API = apiCfg

	snowCfg, err := LoadSnowflakeConfig()
	errs = multierr.Append(errs, err)
	cfg.Snowflake = snowCfg

	if errs != nil {
		return nil, errs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.API == nil {
		return errors.New("API configuration is required")
	}

	if c.Snowflake == nil {
		return errors.New("snowflake configuration is required")
	}

	if c.DestinationTable == "" {
		return errors.New("destination table must not be empty")
	}

	if c.LoadBatchSize <= 0 {
		return errors.New("load batch size must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
