// Package rpc builds the JSON-RPC client used to reach the node.
//
// The package is organized into sub-packages:
//
//   - provider/  - HTTPProvider and health monitoring
//   - ratelimit/ - token-bucket limiter and error classification
//   - routing/   - retry policy and error classification
package rpc

import (
	"log/slog"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/infra/rpc/provider"
	"github.com/vietddude/fundwatch/internal/infra/rpc/ratelimit"
)

// ProviderName labels metrics and logs for the configured node.
const ProviderName = "node"

// NewProvider creates an HTTP provider for cfg. A positive RateLimitRPS
// attaches a token-bucket limiter.
func NewProvider(cfg config.ChainConfig) *provider.HTTPProvider {
	p := provider.NewHTTPProvider(ProviderName, cfg.RPCURL, cfg.Timeout)
	if cfg.RateLimitRPS > 0 {
		p.SetRateLimiter(ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, ProviderName))
		slog.Debug("RPC rate limiter enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}
	return p
}
