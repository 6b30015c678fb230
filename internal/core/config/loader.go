package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file. A missing file is not an error:
// the result is built from defaults and the environment alone.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return cfg
}

// applyEnv lets the deployment environment override the endpoints.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("RPC_URL"); v != "" {
		cfg.Chain.RPCURL = v
	}
	if v := os.Getenv("FUND_ADDRESS"); v != "" {
		cfg.Fund.Address = v
	}
	if v := os.Getenv("API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Chain.RPCURL == "" {
		cfg.Chain.RPCURL = DefaultRPCURL
	}
	if cfg.Chain.Timeout == 0 {
		cfg.Chain.Timeout = 30 * time.Second
	}
	if cfg.Chain.RateLimitBurst == 0 {
		cfg.Chain.RateLimitBurst = 1
	}

	if cfg.Fund.Address == "" {
		cfg.Fund.Address = DefaultFundAddress
	}
	if cfg.Fund.InflowEvent == "" {
		cfg.Fund.InflowEvent = "sharesMinted"
	}
	if cfg.Fund.OutflowEvent == "" {
		cfg.Fund.OutflowEvent = "withdrawnShares"
	}
	if cfg.Fund.LookbackBlocks == 0 {
		cfg.Fund.LookbackBlocks = 10000
	}
	if cfg.Fund.SupplyAttempts == 0 {
		cfg.Fund.SupplyAttempts = 3
	}
	if cfg.Fund.SupplyRetryDelay == 0 {
		cfg.Fund.SupplyRetryDelay = time.Second
	}
	if cfg.Fund.TimestampConcurrency == 0 {
		cfg.Fund.TimestampConcurrency = 8
	}
	if cfg.Fund.OverloadMarker == "" {
		cfg.Fund.OverloadMarker = DefaultOverloadMarker
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultAPIURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if cfg.API.MessageLimit == 0 {
		cfg.API.MessageLimit = 100
	}
}
