package tui

import (
	"context"
	"log/slog"
	"time"
)

// ShutdownManager coordinates the orderly stop of alert-top's background
// components once the UI has exited.
type ShutdownManager struct {
	// DrainTimeout bounds how long pending history writes may take.
	DrainTimeout time.Duration

	// StopNavigation unsubscribes location listeners so no new work is queued.
	StopNavigation func()

	// FlushHistory drains queued visit records.
	FlushHistory func(ctx context.Context) error

	// Cleanup releases remaining resources such as the database handle.
	Cleanup func()
}

// NewShutdownManager creates a ShutdownManager with a 5-second drain timeout.
func NewShutdownManager() *ShutdownManager {
	return &ShutdownManager{
		DrainTimeout: 5 * time.Second,
	}
}

// Shutdown stops listeners, drains history writes, then runs cleanup. A
// flush failure is returned after cleanup has still run.
func (sm *ShutdownManager) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sm.DrainTimeout)
	defer cancel()

	if sm.StopNavigation != nil {
		sm.StopNavigation()
	}

	var flushErr error
	if sm.FlushHistory != nil {
		if flushErr = sm.FlushHistory(ctx); flushErr != nil {
			slog.Warn("flushing visit history failed", "error", flushErr)
		}
	}

	if sm.Cleanup != nil {
		sm.Cleanup()
	}

	return flushErr
}
