// Package health polls the actuator endpoint of each backend service.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alextreichler/storefront-console/internal/backend"
	"github.com/alextreichler/storefront-console/internal/models"
)

type Status string

const (
	StatusUnknown Status = "unknown"
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

type Prober interface {
	Probe(ctx context.Context) error
}

type Service struct {
	Name   string
	Prober Prober
}

type ServiceStatus struct {
	Name      string
	Status    Status
	CheckedAt time.Time
	// Answered is false when the last check got no response at all.
	Answered bool
}

// Monitor keeps the last known status of each service.
type Monitor struct {
	services []Service
	interval time.Duration
	timeout  time.Duration

	mu       sync.RWMutex
	statuses map[string]ServiceStatus
}

// DefaultInterval is used when NewMonitor is given a non-positive interval.
const DefaultInterval = 30 * time.Second

func NewMonitor(services []Service, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{
		services: services,
		interval: interval,
		timeout:  5 * time.Second,
		statuses: make(map[string]ServiceStatus, len(services)),
	}
	for _, s := range services {
		m.statuses[s.Name] = ServiceStatus{Name: s.Name, Status: StatusUnknown}
	}
	return m
}

// CheckAll probes every service concurrently and records the results.
func (m *Monitor) CheckAll(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	for _, svc := range m.services {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			status, answered := StatusOnline, true
			if err := svc.Prober.Probe(pctx); err != nil {
				slog.Debug("Health probe failed", "service", svc.Name, "error", err)
				status, answered = StatusOffline, backend.IsHTTPError(err)
			}
			m.record(svc.Name, status, answered)
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Monitor) record(name string, status Status, answered bool) {
	m.mu.Lock()
	prev := m.statuses[name].Status
	m.statuses[name] = ServiceStatus{Name: name, Status: status, CheckedAt: time.Now(), Answered: answered}
	m.mu.Unlock()

	if prev != status {
		slog.Info("Service status changed", "service", name, "from", prev, "to", status)
	}
}

// Run checks immediately, then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.CheckAll(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// Statuses returns the services in registration order.
func (m *Monitor) Statuses() []ServiceStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ServiceStatus, 0, len(m.services))
	for _, s := range m.services {
		out = append(out, m.statuses[s.Name])
	}
	return out
}

// StatusMessage is the notification text for a status change.
func StatusMessage(name string, s Status) (string, models.Severity) {
	if s == StatusOnline {
		return fmt.Sprintf("%s service is online", name), models.SeveritySuccess
	}
	return fmt.Sprintf("%s service is offline", name), models.SeverityError
}
