package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Prune deletes every visit older than the newest maxVisits rows and
// returns the number of rows removed.
func (h *SQLiteHistory) Prune(ctx context.Context) (int64, error) {
	if h.maxVisits <= 0 {
		return 0, nil
	}

	res, err := h.db.ExecContext(ctx, `
		DELETE FROM visits
		WHERE id <= (SELECT id FROM visits ORDER BY id DESC LIMIT 1 OFFSET ?)`,
		h.maxVisits)
	if err != nil {
		return 0, fmt.Errorf("pruning visits: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning visits: %w", err)
	}
	if n > 0 {
		slog.Debug("pruned visit history", "removed", n, "kept", h.maxVisits)
	}
	return n, nil
}
