package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Visit is one location the dashboard was showing, with the time it was
// last navigated to.
type Visit struct {
	Location  string
	VisitedAt time.Time
}

// History records the locations the dashboard navigates through so the
// recent-views list and the restore-on-launch feature survive restarts.
type History interface {
	Record(ctx context.Context, location string) error
	// Last returns the most recently recorded location.
	Last(ctx context.Context) (string, bool, error)
	// Recent returns up to limit distinct locations, most recent first.
	Recent(ctx context.Context, limit int) ([]Visit, error)
	Close() error
}

const timeLayout = time.RFC3339Nano

// SQLiteHistory is a History persisted to a SQLite database.
type SQLiteHistory struct {
	db        *sql.DB
	maxVisits int
	now       func() time.Time
}

// NewSQLiteHistory opens the database at dbPath. At most maxVisits rows
// are retained; older rows are pruned on open and after every Record.
func NewSQLiteHistory(dbPath string, maxVisits int) (*SQLiteHistory, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}

	h := &SQLiteHistory{db: db, maxVisits: maxVisits, now: time.Now}
	if _, err := h.Prune(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return h, nil
}

func (h *SQLiteHistory) Record(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errors.New("recording visit: empty location")
	}

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO visits (location, visited_at) VALUES (?, ?)`,
		location, h.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}

	if _, err := h.Prune(ctx); err != nil {
		slog.Warn("pruning visit history failed", "error", err)
	}
	return nil
}

func (h *SQLiteHistory) Last(ctx context.Context) (string, bool, error) {
	var location string
	err := h.db.QueryRowContext(ctx,
		`SELECT location FROM visits ORDER BY id DESC LIMIT 1`).Scan(&location)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading last visit: %w", err)
	}
	return location, true, nil
}

func (h *SQLiteHistory) Recent(ctx context.Context, limit int) ([]Visit, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT location, visited_at, MAX(id) AS last_id
		FROM visits
		GROUP BY location
		ORDER BY last_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var visits []Visit
	for rows.Next() {
		var (
			v       Visit
			rawTime string
			lastID  int64
		)
		if err := rows.Scan(&v.Location, &rawTime, &lastID); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.VisitedAt, err = time.Parse(timeLayout, rawTime)
		if err != nil {
			return nil, fmt.Errorf("parsing visited_at %q: %w", rawTime, err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visits: %w", err)
	}
	return visits, nil
}

func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}
