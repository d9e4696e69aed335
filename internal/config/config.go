package config

import (
	"os"
	"strconv"

	"reflim/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input  InputConfig
	Output OutputConfig
	Run    RunConfig
}

// InputConfig holds data source settings
type InputConfig struct {
	File  string // .csv or .xlsx sample file
	Sheet string // worksheet name for Excel inputs
}

// OutputConfig holds report destination settings
type OutputConfig struct {
	Dir string // directory for CSV/markdown reports
}

// RunConfig holds estimation settings
type RunConfig struct {
	NQuantiles    int
	ApplyRounding bool
	Workers       int // concurrent analytes in batch mode
}

// Load builds configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Input: InputConfig{
			File:  os.Getenv("REFLIM_INPUT_FILE"),
			Sheet: getEnvOrDefault("REFLIM_SHEET", "Sheet1"),
		},
		Output: OutputConfig{
			Dir: getEnvOrDefault("REFLIM_OUTPUT_DIR", "."),
		},
		Run: RunConfig{
			NQuantiles:    100,
			ApplyRounding: os.Getenv("REFLIM_ROUND") == "true",
			Workers:       4,
		},
	}

	if v := os.Getenv("REFLIM_QUANTILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.ConfigInvalid("REFLIM_QUANTILES must be a positive integer")
		}
		cfg.Run.NQuantiles = n
	}

	if v := os.Getenv("REFLIM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.ConfigInvalid("REFLIM_WORKERS must be a positive integer")
		}
		cfg.Run.Workers = n
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
