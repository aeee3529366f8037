package nav

import (
	"sync"
	"testing"
)

func TestNavigate_PushesHistory(t *testing.T) {
	s := NewStore("a")

	if !s.Navigate("b") {
		t.Fatal("Navigate(b) should report a change")
	}
	if s.Navigate("b") {
		t.Error("Navigate to the current location should be a no-op")
	}
	s.Navigate("c")

	if got := s.Current(); got != "c" {
		t.Fatalf("Current() = %q, want c", got)
	}
	if !s.Back() || s.Current() != "b" {
		t.Fatalf("Back() should return to b, got %q", s.Current())
	}
	if !s.Back() || s.Current() != "a" {
		t.Fatalf("Back() should return to a, got %q", s.Current())
	}
	if s.Back() {
		t.Error("Back() with empty history should report false")
	}
}

func TestForward(t *testing.T) {
	s := NewStore("a")
	s.Navigate("b")
	s.Back()

	if !s.CanForward() {
		t.Fatal("expected forward history")
	}
	if !s.Forward() || s.Current() != "b" {
		t.Fatalf("Forward() should return to b, got %q", s.Current())
	}
	if s.Forward() {
		t.Error("Forward() with empty history should report false")
	}
}

func TestNavigate_ClearsForward(t *testing.T) {
	s := NewStore("a")
	s.Navigate("b")
	s.Back()
	s.Navigate("c")

	if s.CanForward() {
		t.Error("navigating after Back should clear forward history")
	}
}

func TestReset(t *testing.T) {
	s := NewStore("a")
	s.Navigate("b")
	s.Navigate("c")

	var got []string
	s.Subscribe(func(loc string) { got = append(got, loc) })

	s.Reset("home")
	if s.Current() != "home" || s.CanBack() || s.CanForward() {
		t.Errorf("Reset should clear history, current=%q back=%v fwd=%v", s.Current(), s.CanBack(), s.CanForward())
	}

	s.Reset("home")
	if len(got) != 2 {
		t.Errorf("Reset should always notify, got %d notifications", len(got))
	}
}

func TestSubscribe_OrderAndUnsubscribe(t *testing.T) {
	s := NewStore("")

	var calls []string
	unsubA := s.Subscribe(func(loc string) { calls = append(calls, "A:"+loc) })
	s.Subscribe(func(loc string) { calls = append(calls, "B:"+loc) })

	s.Navigate("x")
	unsubA()
	s.Navigate("y")

	want := []string{"A:x", "B:x", "B:y"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestListenerMayReadStore(t *testing.T) {
	s := NewStore("a")
	var seen string
	s.Subscribe(func(string) {
		// Listeners run outside the lock, so reading back must not deadlock.
		seen = s.Current()
	})
	s.Navigate("b")
	if seen != "b" {
		t.Errorf("listener saw %q, want b", seen)
	}
}

func TestHistoryDepthBounded(t *testing.T) {
	s := NewStore("0")
	s.maxDepth = 3
	for _, loc := range []string{"1", "2", "3", "4", "5"} {
		s.Navigate(loc)
	}
	n := 0
	for s.Back() {
		n++
	}
	if n != 3 {
		t.Errorf("back depth = %d, want 3", n)
	}
	if s.Current() != "2" {
		t.Errorf("oldest retained location = %q, want 2", s.Current())
	}
}

func TestConcurrentNavigate(t *testing.T) {
	s := NewStore("")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Navigate(string(rune('a' + (i+j)%26)))
				_ = s.Current()
			}
		}(i)
	}
	wg.Wait()
}
