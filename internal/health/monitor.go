// Package health tracks whether the analysis service is reachable.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status is the last known service state.
type Status string

const (
	StatusChecking Status = "checking"
	StatusOK       Status = "ok"
	StatusDown     Status = "down"
)

// DefaultInterval is the polling period used by Run when none is given.
const DefaultInterval = 15 * time.Second

// Prober performs one health probe.
type Prober interface {
	Health(ctx context.Context) error
}

// Monitor polls a Prober and remembers the result. Failures are informational only.
type Monitor struct {
	prober Prober
	logger *slog.Logger

	mu       sync.RWMutex
	status   Status
	checked  time.Time
	onChange []func(Status)
}

// NewMonitor returns a monitor in StatusChecking.
func NewMonitor(p Prober, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{prober: p, logger: logger, status: StatusChecking}
}

// OnChange registers fn to be called whenever the status changes.
func (m *Monitor) OnChange(fn func(Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Status returns the last known status and when it was determined.
func (m *Monitor) Status() (Status, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.checked
}

// Check probes once and records the outcome.
func (m *Monitor) Check(ctx context.Context) Status {
	next := StatusOK
	if err := m.prober.Health(ctx); err != nil {
		m.logger.Debug("health probe failed", "error", err)
		next = StatusDown
	}
	if ctx.Err() != nil {
		// The caller gave up; keep the previous state.
		s, _ := m.Status()
		return s
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.checked = time.Now()
	var listeners []func(Status)
	if prev != next {
		listeners = append(listeners, m.onChange...)
	}
	m.mu.Unlock()

	if prev != next {
		m.logger.Info("service status changed", "from", prev, "to", next)
	}
	for _, fn := range listeners {
		fn(next)
	}
	return next
}

// Run checks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
