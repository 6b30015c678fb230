// Package dashboard assembles the views served by the dashboard API from
// the REST backend and the fund contract.
package dashboard

import (
	"context"
	"log/slog"

	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/fund"
)

// Backend is the REST data the views are built from.
type Backend interface {
	Users(ctx context.Context) ([]domain.User, error)
	Channels(ctx context.Context) ([]domain.Channel, error)
	Messages(ctx context.Context, limit int) ([]domain.Message, error)
	Protocols(ctx context.Context) ([]string, error)
	ProtocolSentiment(ctx context.Context, name string) (*domain.ProtocolSentiment, error)
}

// FundReader reports the fund figures.
type FundReader interface {
	Summary(ctx context.Context) (domain.FundSummary, error)
}

// HistoryReader reports fund deposits and withdrawals.
type HistoryReader interface {
	Fetch(ctx context.Context) fund.HistoryReport
}

// Service builds dashboard views.
type Service struct {
	backend      Backend
	summary      FundReader
	history      HistoryReader
	fundAddress  string
	messageLimit int
	concurrency  int
	logger       *slog.Logger
}

// Options configures a Service.
type Options struct {
	FundAddress  string
	MessageLimit int // default page size for message lists
	Concurrency  int // parallel protocol sentiment lookups
}

func NewService(backend Backend, summary FundReader, history HistoryReader, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MessageLimit <= 0 {
		opts.MessageLimit = 100
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	return &Service{
		backend:      backend,
		summary:      summary,
		history:      history,
		fundAddress:  opts.FundAddress,
		messageLimit: opts.MessageLimit,
		concurrency:  opts.Concurrency,
		logger:       logger,
	}
}
