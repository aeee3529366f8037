package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// MemoryHistory is a History that lives only as long as the process.
type MemoryHistory struct {
	mu        sync.Mutex
	visits    []Visit
	maxVisits int
	now       func() time.Time
}

func NewMemoryHistory(maxVisits int) *MemoryHistory {
	return &MemoryHistory{maxVisits: maxVisits, now: time.Now}
}

func (h *MemoryHistory) Record(_ context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errors.New("recording visit: empty location")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.visits = append(h.visits, Visit{Location: location, VisitedAt: h.now().UTC()})
	if h.maxVisits > 0 && len(h.visits) > h.maxVisits {
		h.visits = append([]Visit(nil), h.visits[len(h.visits)-h.maxVisits:]...)
	}
	return nil
}

func (h *MemoryHistory) Last(_ context.Context) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.visits) == 0 {
		return "", false, nil
	}
	return h.visits[len(h.visits)-1].Location, true, nil
}

func (h *MemoryHistory) Recent(_ context.Context, limit int) ([]Visit, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var out []Visit
	for i := len(h.visits) - 1; i >= 0 && len(out) < limit; i-- {
		v := h.visits[i]
		if seen[v.Location] {
			continue
		}
		seen[v.Location] = true
		out = append(out, v)
	}
	return out, nil
}

func (h *MemoryHistory) Close() error {
	return nil
}
