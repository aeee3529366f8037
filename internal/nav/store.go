// Package nav holds the dashboard's current location: the query string
// that is the source of truth for the active filters.
package nav

import (
	"sync"
)

// Listener is called with the new location after every change.
type Listener func(location string)

// Store is the location store. Navigate is the only setter for the
// current location; Back, Forward and Reset move through or clear the
// history. Listeners are invoked synchronously outside the store lock.
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	current   string
	back      []string
	forward   []string
	listeners map[int]Listener
	nextID    int
	maxDepth  int
}

// DefaultHistoryDepth bounds the back stack.
const DefaultHistoryDepth = 100

// NewStore creates a store positioned at initial with empty history.
func NewStore(initial string) *Store {
	return &Store{
		current:   initial,
		listeners: make(map[int]Listener),
		maxDepth:  DefaultHistoryDepth,
	}
}

// Current returns the current location.
func (s *Store) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate moves to location, pushing the previous one onto the back
// stack and clearing the forward stack. It reports whether the location
// changed; navigating to the current location is a no-op.
func (s *Store) Navigate(location string) bool {
	s.mu.Lock()
	if location == s.current {
		s.mu.Unlock()
		return false
	}
	s.back = append(s.back, s.current)
	if len(s.back) > s.maxDepth {
		s.back = s.back[len(s.back)-s.maxDepth:]
	}
	s.forward = nil
	s.current = location
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, location)
	return true
}

// Back moves to the previous location. It reports false when there is
// no history.
func (s *Store) Back() bool {
	s.mu.Lock()
	if len(s.back) == 0 {
		s.mu.Unlock()
		return false
	}
	prev := s.back[len(s.back)-1]
	s.back = s.back[:len(s.back)-1]
	s.forward = append(s.forward, s.current)
	s.current = prev
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, prev)
	return true
}

// Forward re-applies the most recently undone location.
func (s *Store) Forward() bool {
	s.mu.Lock()
	if len(s.forward) == 0 {
		s.mu.Unlock()
		return false
	}
	next := s.forward[len(s.forward)-1]
	s.forward = s.forward[:len(s.forward)-1]
	s.back = append(s.back, s.current)
	s.current = next
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, next)
	return true
}

// Reset jumps to location and discards all history. Listeners are
// notified even when the location is unchanged.
func (s *Store) Reset(location string) {
	s.mu.Lock()
	s.back = nil
	s.forward = nil
	s.current = location
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, location)
}

// CanBack reports whether Back would move.
func (s *Store) CanBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.back) > 0
}

// CanForward reports whether Forward would move.
func (s *Store) CanForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forward) > 0
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// snapshotListeners copies the listener set in registration order.
// Caller must hold s.mu.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(listeners []Listener, location string) {
	for _, fn := range listeners {
		fn(location)
	}
}
