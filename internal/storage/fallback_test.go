package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nixlim/alert-top/internal/config"
)

func TestFallback_SQLiteSuccess(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "history.db")

	cfg := config.StorageConfig{DBPath: dbPath, MaxVisits: 50}

	h, isPersistent, err := NewHistory(cfg)
	if err != nil {
		t.Fatalf("NewHistory failed: %v", err)
	}
	defer func() { _ = h.Close() }()

	if !isPersistent {
		t.Error("expected isPersistent=true for valid DB path")
	}
	if _, ok := h.(*SQLiteHistory); !ok {
		t.Errorf("expected *SQLiteHistory, got %T", h)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("expected database file to exist: %v", err)
	}
}

func TestFallback_UnwritablePath(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing blocker file: %v", err)
	}

	cfg := config.StorageConfig{DBPath: filepath.Join(blocker, "history.db"), MaxVisits: 50}

	h, isPersistent, err := NewHistory(cfg)
	if err != nil {
		t.Fatalf("NewHistory should not return error on fallback: %v", err)
	}
	defer func() { _ = h.Close() }()

	if isPersistent {
		t.Error("expected isPersistent=false for unwritable path")
	}
	if _, ok := h.(*MemoryHistory); !ok {
		t.Errorf("expected *MemoryHistory fallback, got %T", h)
	}
}

func TestFallback_ExplicitInMemory(t *testing.T) {
	h, isPersistent, err := NewHistory(config.StorageConfig{DBPath: "", MaxVisits: 50})
	if err != nil {
		t.Fatalf("NewHistory failed: %v", err)
	}
	defer func() { _ = h.Close() }()

	if isPersistent {
		t.Error("expected isPersistent=false for empty db_path")
	}
	if _, ok := h.(*MemoryHistory); !ok {
		t.Errorf("expected *MemoryHistory, got %T", h)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandTilde("~/x/history.db"); got != filepath.Join(home, "x", "history.db") {
		t.Errorf("expandTilde = %s", got)
	}
	if got := expandTilde("/abs/history.db"); got != "/abs/history.db" {
		t.Errorf("absolute path changed: %s", got)
	}
}
