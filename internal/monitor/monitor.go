// Package monitor probes the remote API on an interval and tracks whether it
// is reachable. The stores never consult it; it only feeds /status and the
// logs so an operator can tell a failing fetch from an unreachable API.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Remote health states.
const (
	StatusUnknown   = "unknown"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Health is a snapshot of the remote API's reachability.
type Health struct {
	Status           string    `json:"status"`
	LastCheck        time.Time `json:"lastCheck,omitzero"`
	LastHealthy      time.Time `json:"lastHealthy,omitzero"`
	ConsecutiveFails int       `json:"consecutiveFails"`
	LastError        string    `json:"lastError,omitempty"`
}

// Prober performs one reachability check.
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor runs a Prober periodically. The API is marked unhealthy after
// maxFailures consecutive failed probes and healthy again after one success.
// Safe for concurrent use.
type Monitor struct {
	prober      Prober
	logger      *slog.Logger
	onUnhealthy func(Health)
	interval    time.Duration
	timeout     time.Duration
	maxFailures int
	mu          sync.RWMutex
	health      Health
}

// New creates a monitor that probes every interval. Each probe is bounded by
// timeout. The API is marked unhealthy after 3 consecutive failures.
//
// Parameters:
//   - p: Performs one probe, normally the api.Client the stores use
//   - interval: How often to probe (default from config: 30s)
//   - timeout: Upper bound for a single probe
//   - logger: Destination for probe results; nil uses slog.Default()
//
// Returns:
//   - *Monitor: Monitor in the unknown state, ready to Run
//
// Example:
//
//	m := monitor.New(client, 30*time.Second, 5*time.Second, logger)
//	go m.Run(ctx)
func New(p Prober, interval, timeout time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		prober:      p,
		logger:      logger.With("component", "monitor"),
		interval:    interval,
		timeout:     timeout,
		maxFailures: 3,
		health:      Health{Status: StatusUnknown},
	}
}

// SetOnUnhealthy registers a callback invoked, in its own goroutine, each time
// the API transitions to unhealthy. It is not called again until the API has
// recovered and failed once more.
//
// Parameters:
//   - callback: Function to call with the Health at the moment of transition
//
// Example:
//
//	m.SetOnUnhealthy(func(h monitor.Health) {
//	    logger.Error("remote api unreachable", "lastError", h.LastError)
//	})
func (m *Monitor) SetOnUnhealthy(callback func(Health)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUnhealthy = callback
}

// Run probes immediately and then on every tick until ctx is canceled.
// It blocks, so callers start it in its own goroutine.
//
// Parameters:
//   - ctx: Stops the loop when canceled; also bounds in-flight probes
//
// Example:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	go m.Run(ctx)
//	defer cancel()
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("remote monitor started", "interval", m.interval)
	m.Check(ctx)

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			m.logger.Info("remote monitor stopped")
			return
		}
	}
}

// Check runs one probe, records its outcome and returns the new Health.
//
// Implementation:
//  1. Ping the remote API with a context bounded by the probe timeout
//  2. On failure, increment ConsecutiveFails and record the error
//  3. After maxFailures failures, mark the API unhealthy and fire the callback once
//  4. On success, reset the failure count and mark the API healthy
//
// Parameters:
//   - ctx: Parent context for the probe
//
// Returns:
//   - Health: Snapshot taken after the outcome was recorded
func (m *Monitor) Check(ctx context.Context) Health {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.prober.Ping(probeCtx)
	cancel()

	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	h := &m.health
	h.LastCheck = now
	if err != nil {
		h.ConsecutiveFails++
		h.LastError = err.Error()
		m.logger.Warn("remote probe failed", "attempt", h.ConsecutiveFails, "max", m.maxFailures, "err", err)

		if h.ConsecutiveFails >= m.maxFailures && h.Status != StatusUnhealthy {
			h.Status = StatusUnhealthy
			m.logger.Error("remote api marked unhealthy", "failures", h.ConsecutiveFails)
			if m.onUnhealthy != nil {
				go m.onUnhealthy(*h)
			}
		}
		return *h
	}

	if h.Status == StatusUnhealthy {
		m.logger.Info("remote api recovered")
	}
	h.Status = StatusHealthy
	h.ConsecutiveFails = 0
	h.LastError = ""
	h.LastHealthy = now
	return *h
}

// Health returns the latest snapshot.
func (m *Monitor) Health() Health {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.health
}

// IsHealthy reports whether the last probe left the API healthy.
func (m *Monitor) IsHealthy() bool {
	return m.Health().Status == StatusHealthy
}
