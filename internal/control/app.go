// Package control wires the configured components into a running service.
package control

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/dashboard"
	"github.com/vietddude/fundwatch/internal/fund"
	"github.com/vietddude/fundwatch/internal/infra/api"
	"github.com/vietddude/fundwatch/internal/infra/chain"
	"github.com/vietddude/fundwatch/internal/infra/chain/evm"
	"github.com/vietddude/fundwatch/internal/infra/rpc"
	"github.com/vietddude/fundwatch/internal/infra/rpc/provider"
	"github.com/vietddude/fundwatch/internal/metrics"
	"github.com/vietddude/fundwatch/internal/server"
)

// App is the main application struct that owns every component.
type App struct {
	cfg *config.AppConfig
	log *slog.Logger

	node      *provider.HTTPProvider
	chain     chain.Reader
	accessor  *fund.Accessor
	summary   *fund.SummaryReader
	history   *fund.History
	backend   *api.Client
	dashboard *dashboard.Service
	server    *server.Server
}

// New creates an App with all dependencies initialized. Nothing talks to the
// network until it is used.
func New(cfg *config.AppConfig) *App {
	log := slog.Default()

	node := rpc.NewProvider(cfg.Chain)
	reader := evm.NewClient(node)
	accessor := fund.NewAccessor(reader, cfg.Fund, log.With("component", "fund"))
	summary := fund.NewSummaryReader(accessor, cfg.Fund, log.With("component", "summary"))
	history := fund.NewHistory(accessor, cfg.Fund, log.With("component", "history"))
	backend := api.NewClient(cfg.API, log.With("component", "api"))

	svc := dashboard.NewService(backend, summary, history, dashboard.Options{
		FundAddress:  cfg.Fund.Address,
		MessageLimit: cfg.API.MessageLimit,
	}, log.With("component", "dashboard"))

	srv := server.New(cfg.Server.Port, server.Deps{
		Dashboard: svc,
		Fund:      summary,
		History:   history,
		Node:      node,
	}, log.With("component", "http"))

	return &App{
		cfg:       cfg,
		log:       log,
		node:      node,
		chain:     reader,
		accessor:  accessor,
		summary:   summary,
		history:   history,
		backend:   backend,
		dashboard: svc,
		server:    srv,
	}
}

// Chain returns the node reader.
func (a *App) Chain() chain.Reader {
	return a.chain
}

func (a *App) Summary() *fund.SummaryReader {
	return a.summary
}

func (a *App) History() *fund.History {
	return a.history
}

func (a *App) Dashboard() *dashboard.Service {
	return a.dashboard
}

func (a *App) FundConfig() config.FundConfig {
	return a.cfg.Fund
}

// Start runs the HTTP server and background tasks until ctx is cancelled
// or Stop is called.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()

	// Connect eagerly so configuration problems show up in the logs at
	// startup. Failures are retried on first use.
	go func() {
		if _, err := a.accessor.EnsureConnected(ctx); err != nil {
			a.log.Warn("Fund contract not reachable yet", "error", err)
		}
	}()

	go a.runMetricsUpdater(ctx)

	return nil
}

// Stop shuts the HTTP server down and releases the node connection.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping fundwatch...")

	if err := a.node.Close(); err != nil {
		a.log.Warn("Failed to close node provider", "error", err)
	}
	return a.server.Stop(ctx)
}

func (a *App) runMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.updateNodeMetrics()
		}
	}
}

func (a *App) updateNodeMetrics() {
	name := a.node.GetName()
	health := a.node.GetHealth()

	metrics.NodeErrorRate.WithLabelValues(name).Set(health.ErrorRate)
	if health.MonitorStats != nil {
		metrics.NodeStatus.WithLabelValues(name).Set(float64(health.MonitorStats.Status))
	}
	slog.Debug("Updating node metrics", "provider", name, "status", health.Status)
}
