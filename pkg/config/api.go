// pkg/config/api.go
package config

import (
	"errors"

	"go.uber.org/multierr"
)

// defaultEndpoint is the NYC Open Data arrest records resource.
const defaultEndpoint = "https://data.cityofnewyork.us/resource/uip8-fykc.json"

// APIConfig holds connection parameters for the NYC Open Data API
type APIConfig struct {
	Endpoint string // JSON resource URL
	AppToken string // Sent as the X-App-Token header
	PageSize int    // Records requested per page ($limit)
}

// LoadAPIConfig loads NYC Open Data API configuration from environment
// variables. All missing required variables are reported together.
func LoadAPIConfig() (*APIConfig, error) {
	var errs error

	appToken := getEnv("NYC_OPEN_DATA_API_KEY", "")
	if appToken == "" {
		errs = multierr.Append(errs, errors.New("NYC_OPEN_DATA_API_KEY environment variable is required"))
	}

	pageSize := getEnvAsInt("FETCH_PAGE_SIZE", 50000)
	if pageSize <= 0 {
		errs = multierr.Append(errs, errors.New("FETCH_PAGE_SIZE must be positive"))
	}

	if errs != nil {
		return nil, errs
	}

	return &APIConfig{
		Endpoint: getEnv("NYC_OPEN_DATA_ENDPOINT", defaultEndpoint),
		AppToken: appToken,
		PageSize: pageSize,
	}, nil
}
