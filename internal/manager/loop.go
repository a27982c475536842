package manager

import (
	"context"
	"time"
)

// Run drives periodic reconciliation: display changes, persisted
// assignments, occlusion and power state all converge on the next tick.
// Blocks until the context is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info("wallpaper engine started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("wallpaper engine stopped")
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick performs one guarded reconciliation pass.
func (m *Manager) tick() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			m.logger.Error("reconcile panic recovered", "error", err)
		}
	}()

	if err := m.Reconcile(); err != nil {
		m.logger.Error("reconcile failed", "error", err)
	}
}
