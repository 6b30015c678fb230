// Package provider implements the JSON-RPC transport used to reach the node.
//
// This package contains:
//   - Caller: the minimal JSON-RPC call surface consumers depend on
//   - HTTPProvider: JSON-RPC 2.0 over HTTP implementation
//   - ProviderMonitor: latency, throttle and overload tracking
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Caller makes single JSON-RPC requests. Results are returned undecoded so
// callers can unmarshal into their own types.
type Caller interface {
	Call(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// Provider defines the interface for a JSON-RPC endpoint.
type Provider interface {
	Caller

	// BatchCall makes multiple RPC calls in one request
	BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error)

	// GetName returns provider identifier (e.g., "local", "forno")
	GetName() string

	// GetHealth returns current health metrics
	GetHealth() HealthStatus

	// Close cleans up resources
	Close() error
}

// BatchRequest represents a single request in a batch call.
type BatchRequest struct {
	Method string
	Params []any
}

// BatchResponse represents a single response from a batch call.
type BatchResponse struct {
	Result json.RawMessage
	Error  error
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error: %s (code %d)", e.Message, e.Code)
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Status        string        `json:"status"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
	MonitorStats  *MonitorStats `json:"monitor_stats,omitempty"`
}
