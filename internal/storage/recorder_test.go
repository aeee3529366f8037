package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_FlushWritesQueuedVisits(t *testing.T) {
	h := newTestMemoryHistory(t, 10)
	r := NewRecorder(h)

	r.Record("manager_id=E2&scope=direct")
	r.Record("manager_id=E2&scope=direct&severity=high")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Flush(ctx))

	visits, err := h.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, "manager_id=E2&scope=direct&severity=high", visits[0].Location)
}

func TestRecorder_CollapsesConsecutiveDuplicates(t *testing.T) {
	h := newTestMemoryHistory(t, 10)
	r := NewRecorder(h)

	r.Record("a")
	r.Record("a")
	r.Record("b")
	r.Record("a")

	require.NoError(t, r.Flush(context.Background()))

	h.mu.Lock()
	n := len(h.visits)
	h.mu.Unlock()
	assert.Equal(t, 3, n)
}

func TestRecorder_RecordAfterFlushIsIgnored(t *testing.T) {
	h := newTestMemoryHistory(t, 10)
	r := NewRecorder(h)
	require.NoError(t, r.Flush(context.Background()))

	assert.NotPanics(t, func() { r.Record("late") })
	assert.NoError(t, r.Flush(context.Background()))

	_, ok, err := h.Last(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

// blockingHistory holds every Record until release is closed.
type blockingHistory struct {
	*MemoryHistory
	release chan struct{}
}

func (b *blockingHistory) Record(ctx context.Context, location string) error {
	<-b.release
	return b.MemoryHistory.Record(ctx, location)
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	h := &blockingHistory{MemoryHistory: NewMemoryHistory(10), release: make(chan struct{})}
	r := newRecorderWithChannelSize(h, 1)

	// The first visit is taken by the loop and blocks there; the second
	// fills the queue; the rest are dropped.
	r.Record("a")
	require.Eventually(t, func() bool { return len(r.ch) == 0 }, time.Second, time.Millisecond)
	r.Record("b")
	r.Record("c")
	r.Record("d")

	assert.Equal(t, int64(2), r.Dropped())

	close(h.release)
	require.NoError(t, r.Flush(context.Background()))
}

func TestRecorder_FlushHonoursContext(t *testing.T) {
	h := &blockingHistory{MemoryHistory: NewMemoryHistory(10), release: make(chan struct{})}
	r := NewRecorder(h)
	r.Record("a")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Flush(ctx), context.DeadlineExceeded)

	close(h.release)
}
