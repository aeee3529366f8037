package storage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	recordChannelSize = 64
	recordTimeout     = 2 * time.Second
)

// Recorder writes visits to a History from a background goroutine so
// callers on the UI goroutine never wait on the database. Consecutive
// duplicate locations are collapsed.
type Recorder struct {
	history History
	ch      chan string
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
	last   string
}

func NewRecorder(h History) *Recorder {
	return newRecorderWithChannelSize(h, recordChannelSize)
}

func newRecorderWithChannelSize(h History, size int) *Recorder {
	r := &Recorder{
		history: h,
		ch:      make(chan string, size),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

// Record queues location. It never blocks; when the queue is full the
// visit is dropped and counted.
func (r *Recorder) Record(location string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || location == "" || location == r.last {
		return
	}
	select {
	case r.ch <- location:
		r.last = location
	default:
		r.dropped.Add(1)
		slog.Warn("visit queue full, dropped visit", "location", location)
	}
}

// Dropped returns the number of visits dropped because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Flush stops accepting visits and waits for queued ones to be written,
// or for ctx to end.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) loop() {
	defer close(r.done)
	for loc := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.history.Record(ctx, loc); err != nil {
			slog.Warn("recording visit failed", "location", loc, "error", err)
		}
		cancel()
	}
}
