package network

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dvi/internal/logging"
)

// Prober checks backend reachability once.
type Prober interface {
	Probe(ctx context.Context) error
}

type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// ProbeMonitor polls a Prober and flips its status on success or failure.
type ProbeMonitor struct {
	broadcaster

	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
}

func NewProbeMonitor(p Prober, interval, timeout time.Duration, logger logging.Logger) *ProbeMonitor {
	return &ProbeMonitor{
		prober:   p,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Check runs one probe and updates the status.
func (m *ProbeMonitor) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.prober.Probe(pctx)
	cancel()

	online := err == nil
	if m.set(online) {
		if online {
			m.logger.Info(ctx, "backend reachable")
		} else {
			m.logger.Warn(ctx, "backend unreachable", "err", err)
		}
	}
	return online
}

// Run probes immediately and then every interval until ctx is done.
func (m *ProbeMonitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
