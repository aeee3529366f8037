package notify

import "sync"

// Log is a fixed-capacity, thread-safe ring buffer of notices. When the
// log is full the oldest notice is evicted.
type Log struct {
	mu    sync.RWMutex
	items []Notice
	cap   int
	head  int // index of the oldest element
	count int
}

// NewLog creates a Log with the given capacity (minimum 1).
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{
		items: make([]Notice, capacity),
		cap:   capacity,
	}
}

// Add appends a notice, overwriting the oldest one when full.
func (l *Log) Add(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count == l.cap {
		l.items[l.head] = n
		l.head = (l.head + 1) % l.cap
		return
	}
	l.items[(l.head+l.count)%l.cap] = n
	l.count++
}

// List returns all notices oldest first.
func (l *Log) List() []Notice {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.count == 0 {
		return nil
	}
	out := make([]Notice, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.items[(l.head+i)%l.cap]
	}
	return out
}

// Recent returns up to limit notices, newest first.
func (l *Log) Recent(limit int) []Notice {
	all := l.List()
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]Notice, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out
}

// Len returns the number of notices currently stored.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// Cap returns the capacity of the log.
func (l *Log) Cap() int {
	return l.cap
}
