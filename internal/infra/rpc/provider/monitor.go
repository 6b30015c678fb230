package provider

import (
	"strings"
	"sync"
	"time"
)

// ProviderStatus represents the health state of a provider.
type ProviderStatus int

const (
	StatusHealthy    ProviderStatus = iota // Provider is working normally
	StatusDegraded                         // Provider is slow but working
	StatusThrottled                        // Provider is rate limiting
	StatusOverloaded                       // Provider reports no healthy backend
)

func (s ProviderStatus) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusThrottled:
		return "throttled"
	case StatusOverloaded:
		return "overloaded"
	default:
		return "unknown"
	}
}

// MonitorStats holds monitoring statistics for a provider.
type MonitorStats struct {
	Status           ProviderStatus `json:"-"`
	StatusName       string         `json:"status"`
	AverageLatency   time.Duration  `json:"average_latency"`
	ThrottleCount429 int            `json:"throttle_count_429"`
	OverloadCount    int            `json:"overload_count"`
	TotalRequests    int            `json:"total_requests"`
}

// ProviderMonitor tracks provider latency, throttling and overload signals.
type ProviderMonitor struct {
	mu sync.RWMutex

	// Response time tracking
	recentLatencies  []time.Duration
	maxLatencyWindow int
	totalRequests    int

	// Error tracking
	status429Count     int
	overloadCount      int
	throttlePatterns   []string
	overloadPatterns   []string
	lastThrottleTime   time.Time
	lastOverloadTime   time.Time
	retryAfterDuration time.Duration
	overloadCooldown   time.Duration

	// Thresholds
	slowResponseThreshold time.Duration
}

// NewProviderMonitor creates a new monitor with default settings.
func NewProviderMonitor() *ProviderMonitor {
	return &ProviderMonitor{
		recentLatencies:  make([]time.Duration, 0, 100),
		maxLatencyWindow: 100,
		throttlePatterns: []string{
			"rate limit exceeded",
			"too many requests",
			"daily request count exceeded",
			"project rate limit",
			"monthly quota exceeded",
		},
		overloadPatterns: []string{
			"no backend is currently healthy",
		},
		overloadCooldown:      30 * time.Second,
		slowResponseThreshold: 3 * time.Second,
	}
}

// RecordRequest records a successful request with its latency.
func (pm *ProviderMonitor) RecordRequest(latency time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.totalRequests++
	pm.recentLatencies = append(pm.recentLatencies, latency)
	if len(pm.recentLatencies) > pm.maxLatencyWindow {
		pm.recentLatencies = pm.recentLatencies[1:]
	}
}

// RecordThrottle records a rate limiting response.
func (pm *ProviderMonitor) RecordThrottle(statusCode int, retryAfter string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.lastThrottleTime = time.Now()

	if statusCode == 429 {
		pm.status429Count++
		pm.retryAfterDuration = 60 * time.Second
		if d, err := time.ParseDuration(retryAfter + "s"); err == nil && d > 0 {
			pm.retryAfterDuration = d
		}
	}
}

// RecordOverload records that the endpoint reported it has no healthy backend.
func (pm *ProviderMonitor) RecordOverload() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.overloadCount++
	pm.lastOverloadTime = time.Now()
}

// DetectThrottlePattern checks if a message contains throttle patterns.
func (pm *ProviderMonitor) DetectThrottlePattern(message string) bool {
	return pm.matches(message, pm.throttlePatterns)
}

// DetectOverloadPattern checks if a message contains overload patterns.
func (pm *ProviderMonitor) DetectOverloadPattern(message string) bool {
	return pm.matches(message, pm.overloadPatterns)
}

func (pm *ProviderMonitor) matches(message string, patterns []string) bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	lowerMsg := strings.ToLower(message)
	for _, pattern := range patterns {
		if strings.Contains(lowerMsg, pattern) {
			return true
		}
	}

	return false
}

// CheckProviderStatus returns the current status of the provider.
func (pm *ProviderMonitor) CheckProviderStatus() ProviderStatus {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.statusLocked()
}

func (pm *ProviderMonitor) statusLocked() ProviderStatus {
	if pm.overloadCount > 0 && time.Since(pm.lastOverloadTime) < pm.overloadCooldown {
		return StatusOverloaded
	}

	if pm.status429Count > 5 && time.Since(pm.lastThrottleTime) < pm.retryAfterDuration {
		return StatusThrottled
	}

	if len(pm.recentLatencies) > 10 && pm.averageLatencyLocked() > pm.slowResponseThreshold {
		return StatusDegraded
	}

	return StatusHealthy
}

// GetRetryAfter returns remaining time before retry is allowed.
func (pm *ProviderMonitor) GetRetryAfter() time.Duration {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if pm.retryAfterDuration > 0 {
		remaining := pm.retryAfterDuration - time.Since(pm.lastThrottleTime)
		if remaining > 0 {
			return remaining
		}
	}

	return 0
}

// GetAverageLatency returns the average latency of recent requests.
func (pm *ProviderMonitor) GetAverageLatency() time.Duration {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.averageLatencyLocked()
}

func (pm *ProviderMonitor) averageLatencyLocked() time.Duration {
	if len(pm.recentLatencies) == 0 {
		return 0
	}

	var total time.Duration
	for _, lat := range pm.recentLatencies {
		total += lat
	}

	return total / time.Duration(len(pm.recentLatencies))
}

// GetStats returns current monitoring statistics.
func (pm *ProviderMonitor) GetStats() MonitorStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	status := pm.statusLocked()
	return MonitorStats{
		Status:           status,
		StatusName:       status.String(),
		AverageLatency:   pm.averageLatencyLocked(),
		ThrottleCount429: pm.status429Count,
		OverloadCount:    pm.overloadCount,
		TotalRequests:    pm.totalRequests,
	}
}
