package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks JSON-RPC calls per provider, method and outcome
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundwatch_rpc_calls_total",
			Help: "Total number of JSON-RPC calls",
		},
		[]string{"provider", "method", "status"},
	)

	// RPCLatency tracks JSON-RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fundwatch_rpc_latency_seconds",
			Help:    "JSON-RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// RPCRateLimitWaits counts calls that had to wait for a rate limit token
	RPCRateLimitWaits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundwatch_rpc_rate_limit_waits_total",
			Help: "Total number of JSON-RPC calls delayed by the local rate limiter",
		},
		[]string{"provider"},
	)

	// HistoryFetches tracks transaction history outcomes (live, fallback, unavailable)
	HistoryFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundwatch_history_fetches_total",
			Help: "Total number of transaction history fetches by outcome",
		},
		[]string{"status"},
	)

	// HistoryEvents tracks the number of events returned by the last live fetch
	HistoryEvents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fundwatch_history_events",
			Help: "Number of fund events in the last live history fetch",
		},
		[]string{"kind"},
	)

	// SummaryAttempts tracks totalSupply attempts by outcome
	SummaryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundwatch_summary_attempts_total",
			Help: "Total number of totalSupply call attempts",
		},
		[]string{"outcome"},
	)

	// ChainLatestBlock tracks the latest block height seen by the history aggregator
	ChainLatestBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fundwatch_chain_latest_block",
			Help: "Latest block height of the chain",
		},
	)

	// APIRequestsTotal tracks REST backend requests per endpoint and status code
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundwatch_api_requests_total",
			Help: "Total number of REST backend requests",
		},
		[]string{"endpoint", "code"},
	)

	// HTTPRequestsTotal tracks requests served by the dashboard API
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundwatch_http_requests_total",
			Help: "Total number of dashboard API requests",
		},
		[]string{"route", "code"},
	)

	// NodeErrorRate tracks the recent JSON-RPC error rate of the node
	NodeErrorRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fundwatch_node_error_rate",
			Help: "Fraction of failed JSON-RPC requests to the node",
		},
		[]string{"provider"},
	)

	// NodeStatus tracks the node status (0=healthy, 1=degraded, 2=throttled, 3=overloaded)
	NodeStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fundwatch_node_status",
			Help: "Node status as seen by the provider monitor",
		},
		[]string{"provider"},
	)
)
