package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nixlim/alert-top/internal/config"
)

// NewHistory opens the configured visit history. When the database cannot
// be opened it falls back to an in-memory history; the bool reports
// whether history is persistent.
func NewHistory(cfg config.StorageConfig) (History, bool, error) {
	if cfg.DBPath == "" {
		return NewMemoryHistory(cfg.MaxVisits), false, nil
	}

	dbPath := expandTilde(cfg.DBPath)

	h, err := NewSQLiteHistory(dbPath, cfg.MaxVisits)
	if err != nil {
		slog.Warn("SQLite history unavailable, falling back to in-memory history", "path", dbPath, "error", err)
		return NewMemoryHistory(cfg.MaxVisits), false, nil
	}

	return h, true, nil
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
