package config

import "time"

const (
	DefaultRPCURL         = "http://127.0.0.1:8545"
	DefaultFundAddress    = "0xA15BB66138824a1c7167f5E85b957d04Dd34E468"
	DefaultAPIURL         = "http://localhost:8000"
	DefaultOverloadMarker = "no backend is currently healthy"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Chain   ChainConfig   `yaml:"chain"`
	Fund    FundConfig    `yaml:"fund"`
	API     APIConfig     `yaml:"api"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ChainConfig holds settings for the JSON-RPC node.
type ChainConfig struct {
	RPCURL         string        `yaml:"rpc_url"`
	Timeout        time.Duration `yaml:"timeout"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"` // 0 = unlimited
	RateLimitBurst int           `yaml:"rate_limit_burst"`
}

// FundConfig holds settings for the fund contract readers.
type FundConfig struct {
	Address              string        `yaml:"address"`
	ABIPath              string        `yaml:"abi_path"` // empty = embedded ABI
	InflowEvent          string        `yaml:"inflow_event"`
	OutflowEvent         string        `yaml:"outflow_event"`
	LookbackBlocks       uint64        `yaml:"lookback_blocks"`
	SupplyAttempts       int           `yaml:"supply_attempts"`
	SupplyRetryDelay     time.Duration `yaml:"supply_retry_delay"`
	TimestampConcurrency int           `yaml:"timestamp_concurrency"`
	OverloadMarker       string        `yaml:"overload_marker"`
}

// APIConfig holds settings for the REST backend.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MessageLimit int           `yaml:"message_limit"`
}
