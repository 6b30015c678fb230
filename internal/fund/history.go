package fund

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/metrics"
)

// HistoryStatus tells how a history report was produced.
type HistoryStatus string

const (
	HistoryLive        HistoryStatus = "live"
	HistoryFallback    HistoryStatus = "fallback"
	HistoryUnavailable HistoryStatus = "unavailable"
)

// HistoryReport is the outcome of one history fetch. Events is never nil.
type HistoryReport struct {
	Events []domain.LedgerEvent `json:"events"`
	Status HistoryStatus        `json:"status"`
	Window *domain.BlockWindow  `json:"window,omitempty"`
	Err    error                `json:"-"`
}

// History aggregates fund deposits and withdrawals over the lookback window.
type History struct {
	conn   Connector
	cfg    config.FundConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewHistory(conn Connector, cfg config.FundConfig, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.OverloadMarker == "" {
		cfg.OverloadMarker = config.DefaultOverloadMarker
	}
	if cfg.TimestampConcurrency < 1 {
		cfg.TimestampConcurrency = 1
	}
	return &History{conn: conn, cfg: cfg, now: time.Now, logger: logger}
}

// SetClock replaces the clock used to date fallback events.
func (h *History) SetClock(now func() time.Time) {
	h.now = now
}

// TransactionHistory returns fund events newest first. It never fails:
// retrieval errors yield the fallback set or an empty slice.
func (h *History) TransactionHistory(ctx context.Context) []domain.LedgerEvent {
	return h.Fetch(ctx).Events
}

// Fetch is TransactionHistory with the outcome kept.
func (h *History) Fetch(ctx context.Context) HistoryReport {
	conn, err := h.conn.EnsureConnected(ctx)
	if err != nil {
		return h.unavailable(nil, err)
	}

	height, err := conn.Chain.BlockNumber(ctx)
	if err != nil {
		return h.failed(nil, fmt.Errorf("read block height: %w", err))
	}
	metrics.ChainLatestBlock.Set(float64(height))
	window := domain.LookbackWindow(height, h.cfg.LookbackBlocks)

	events, err := h.collect(ctx, conn, window)
	if err != nil {
		return h.failed(&window, err)
	}

	inflows, outflows := domain.CountByKind(events)
	metrics.HistoryFetches.WithLabelValues(string(HistoryLive)).Inc()
	metrics.HistoryEvents.WithLabelValues(string(domain.LedgerInflow)).Set(float64(inflows))
	metrics.HistoryEvents.WithLabelValues(string(domain.LedgerOutflow)).Set(float64(outflows))
	h.logger.Debug("Fund history fetched",
		"window", window.String(),
		"deposits", inflows,
		"withdrawals", outflows,
	)

	return HistoryReport{Events: events, Status: HistoryLive, Window: &window}
}

// pendingEvent is a decoded event still waiting for its block time.
type pendingEvent struct {
	event  domain.LedgerEvent
	height uint64
}

func (h *History) collect(ctx context.Context, conn *Connection, window domain.BlockWindow) ([]domain.LedgerEvent, error) {
	var inflows, outflows []pendingEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inflows, err = h.query(gctx, conn, h.cfg.InflowEvent, domain.LedgerInflow, window)
		return err
	})
	g.Go(func() error {
		var err error
		outflows, err = h.query(gctx, conn, h.cfg.OutflowEvent, domain.LedgerOutflow, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pending := append(inflows, outflows...)
	blockTimes, err := h.resolveTimestamps(ctx, conn, pending)
	if err != nil {
		return nil, err
	}

	events := make([]domain.LedgerEvent, 0, len(pending))
	for _, p := range pending {
		ev := p.event
		ev.OccurredAt = time.UnixMilli(int64(blockTimes[p.height]) * 1000)
		events = append(events, ev)
	}

	slices.SortStableFunc(events, func(a, b domain.LedgerEvent) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})
	return events, nil
}

func (h *History) query(
	ctx context.Context,
	conn *Connection,
	name string,
	kind domain.LedgerKind,
	window domain.BlockWindow,
) ([]pendingEvent, error) {
	q, err := conn.EventQuery(name, window.FromHeight, window.ToHeight)
	if err != nil {
		return nil, err
	}

	logs, err := conn.Chain.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s logs: %w", name, err)
	}

	out := make([]pendingEvent, 0, len(logs))
	for _, lg := range logs {
		if lg.Removed {
			continue
		}
		account, amount, err := conn.DecodeTransfer(name, lg)
		if err != nil {
			h.logger.Warn("Skipping undecodable fund event",
				"event", name,
				"tx", lg.TxHash.Hex(),
				"error", err,
			)
			continue
		}
		out = append(out, pendingEvent{
			event: domain.LedgerEvent{
				Kind:      kind,
				Account:   account,
				Amount:    ToDecimal(amount),
				Reference: lg.TxHash.Hex(),
			},
			height: lg.BlockNumber,
		})
	}
	return out, nil
}

// resolveTimestamps fetches the block time of every distinct height once.
func (h *History) resolveTimestamps(ctx context.Context, conn *Connection, pending []pendingEvent) (map[uint64]uint64, error) {
	heights := make([]uint64, 0, len(pending))
	seen := make(map[uint64]struct{}, len(pending))
	for _, p := range pending {
		if _, ok := seen[p.height]; ok {
			continue
		}
		seen[p.height] = struct{}{}
		heights = append(heights, p.height)
	}

	var mu sync.Mutex
	blockTimes := make(map[uint64]uint64, len(heights))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.TimestampConcurrency)
	for _, height := range heights {
		g.Go(func() error {
			ts, err := conn.Chain.BlockTimestamp(gctx, height)
			if err != nil {
				return fmt.Errorf("block %d timestamp: %w", height, err)
			}
			mu.Lock()
			blockTimes[height] = ts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blockTimes, nil
}

func (h *History) failed(window *domain.BlockWindow, err error) HistoryReport {
	if isOverloaded(err, h.cfg.OverloadMarker) {
		h.logger.Warn("Node overloaded, serving placeholder fund history", "error", err)
		metrics.HistoryFetches.WithLabelValues(string(HistoryFallback)).Inc()
		return HistoryReport{
			Events: FallbackEvents(h.now()),
			Status: HistoryFallback,
			Window: window,
			Err:    fmt.Errorf("%w: %w", ErrOverloaded, err),
		}
	}
	return h.unavailable(window, err)
}

func (h *History) unavailable(window *domain.BlockWindow, err error) HistoryReport {
	h.logger.Error("Fund history unavailable", "category", Classify(err), "error", err)
	metrics.HistoryFetches.WithLabelValues(string(HistoryUnavailable)).Inc()
	return HistoryReport{
		Events: []domain.LedgerEvent{},
		Status: HistoryUnavailable,
		Window: window,
		Err:    err,
	}
}
