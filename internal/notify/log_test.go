package notify

import (
	"fmt"
	"sync"
	"testing"
)

func notice(id uint64, msg string) Notice {
	return Notice{ID: id, Message: msg}
}

func TestLog_Eviction(t *testing.T) {
	l := NewLog(3)

	l.Add(notice(1, "n-1"))
	l.Add(notice(2, "n-2"))
	l.Add(notice(3, "n-3"))
	if l.Len() != 3 {
		t.Fatalf("expected len=3, got %d", l.Len())
	}

	l.Add(notice(4, "n-4"))
	if l.Len() != 3 {
		t.Fatalf("expected len=3 after eviction, got %d", l.Len())
	}

	all := l.List()
	want := []string{"n-2", "n-3", "n-4"}
	for i, w := range want {
		if all[i].Message != w {
			t.Errorf("position %d: expected %q, got %q", i, w, all[i].Message)
		}
	}
}

func TestLog_CapacityClamp(t *testing.T) {
	l := NewLog(0)
	if l.Cap() != 1 {
		t.Fatalf("expected capacity clamped to 1, got %d", l.Cap())
	}
	l.Add(notice(1, "first"))
	l.Add(notice(2, "second"))
	all := l.List()
	if len(all) != 1 || all[0].Message != "second" {
		t.Errorf("expected only 'second', got %+v", all)
	}
}

func TestLog_RecentNewestFirst(t *testing.T) {
	l := NewLog(10)
	for i := 1; i <= 5; i++ {
		l.Add(notice(uint64(i), fmt.Sprintf("n-%d", i)))
	}

	got := l.Recent(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}
	if got[0].Message != "n-5" || got[1].Message != "n-4" {
		t.Errorf("Recent(2) = [%s %s], want [n-5 n-4]", got[0].Message, got[1].Message)
	}

	if all := l.Recent(0); len(all) != 5 {
		t.Errorf("Recent(0) returned %d notices, want 5", len(all))
	}
}

func TestLog_EmptyList(t *testing.T) {
	l := NewLog(4)
	if l.List() != nil {
		t.Error("empty log should list nil")
	}
	if len(l.Recent(3)) != 0 {
		t.Error("empty log should have no recent notices")
	}
}

func TestLog_ConcurrentAdd(t *testing.T) {
	l := NewLog(50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Add(notice(uint64(g*100+i), "x"))
			}
		}(g)
	}
	wg.Wait()

	if l.Len() != 50 {
		t.Errorf("expected full log of 50, got %d", l.Len())
	}
}
