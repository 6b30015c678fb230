package fund

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/infra/rpc/routing"
	"github.com/vietddude/fundwatch/internal/metrics"
)

// SummaryReader reports the fund's headline figures.
type SummaryReader struct {
	conn   Connector
	retry  routing.RetryConfig
	logger *slog.Logger
}

func NewSummaryReader(conn Connector, cfg config.FundConfig, logger *slog.Logger) *SummaryReader {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := cfg.SupplyAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &SummaryReader{
		conn:   conn,
		retry:  routing.FixedRetryConfig(attempts, cfg.SupplyRetryDelay),
		logger: logger,
	}
}

// Summary returns the fund's total supply. Read failures degrade to
// domain.ZeroSummary; only a failure to connect is returned.
func (r *SummaryReader) Summary(ctx context.Context) (domain.FundSummary, error) {
	conn, err := r.conn.EnsureConnected(ctx)
	if err != nil {
		return domain.ZeroSummary, err
	}

	var supply *big.Int
	err = routing.Do(ctx, r.retry, func(ctx context.Context, attempt int) error {
		v, err := conn.CallUint(ctx, "totalSupply")
		if err != nil {
			metrics.SummaryAttempts.WithLabelValues("failure").Inc()
			r.logger.Warn("totalSupply call failed",
				"attempt", attempt+1,
				"max_attempts", r.retry.MaxAttempts,
				"category", Classify(err),
				"error", err,
			)
			return err
		}
		metrics.SummaryAttempts.WithLabelValues("success").Inc()
		supply = v
		return nil
	})
	if err != nil {
		r.logger.Warn("Using zero total supply", "category", Classify(err), "error", err)
		return domain.ZeroSummary, nil
	}

	return domain.FundSummary{TotalSupply: FormatEther(supply)}, nil
}

// Shares returns the formatted share balance of account, or "0" when it
// cannot be read.
func (r *SummaryReader) Shares(ctx context.Context, account common.Address) string {
	conn, err := r.conn.EnsureConnected(ctx)
	if err != nil {
		r.logger.Warn("getShares skipped", "account", account.Hex(), "error", err)
		return "0"
	}

	shares, err := conn.CallUint(ctx, "getShares", account)
	if err != nil {
		r.logger.Warn("getShares call failed",
			"account", account.Hex(),
			"category", Classify(err),
			"error", err,
		)
		return "0"
	}
	return FormatEther(shares)
}
