// Package server exposes the dashboard views over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/dashboard"
	"github.com/vietddude/fundwatch/internal/fund"
	"github.com/vietddude/fundwatch/internal/infra/rpc/provider"
)

// Dashboard builds the page views.
type Dashboard interface {
	Overview(ctx context.Context) dashboard.Overview
	Messages(ctx context.Context, limit int) ([]dashboard.MessageView, error)
	Protocols(ctx context.Context) ([]dashboard.ProtocolView, error)
	FundPage(ctx context.Context) dashboard.FundPage
}

// FundReader reads the fund contract figures.
type FundReader interface {
	Summary(ctx context.Context) (domain.FundSummary, error)
	Shares(ctx context.Context, account common.Address) string
}

// HistoryReader reads the fund transaction history.
type HistoryReader interface {
	Fetch(ctx context.Context) fund.HistoryReport
}

// HealthReporter reports the node connection health.
type HealthReporter interface {
	GetName() string
	GetHealth() provider.HealthStatus
}

// Deps are the services behind the HTTP API.
type Deps struct {
	Dashboard Dashboard
	Fund      FundReader
	History   HistoryReader
	Node      HealthReporter
}

// Server serves the dashboard API, health and metrics endpoints.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// New creates a server listening on port.
func New(port int, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger), Metrics(), CORS())
	newHandlers(deps, logger).register(router)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  20 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
