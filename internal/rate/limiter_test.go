package rate

import (
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if ok, _ := m.Allow("login:ip:1.2.3.4", 3, time.Minute); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	ok, retry := m.Allow("login:ip:1.2.3.4", 3, time.Minute)
	if ok {
		t.Fatalf("fourth request should be limited")
	}
	if retry != time.Minute {
		t.Fatalf("expected retry of 1m, got %s", retry)
	}
	if ok, _ := m.Allow("login:ip:5.6.7.8", 3, time.Minute); !ok {
		t.Fatalf("other keys are independent")
	}

	now = now.Add(time.Minute)
	if ok, _ := m.Allow("login:ip:1.2.3.4", 3, time.Minute); !ok {
		t.Fatalf("window should have reset")
	}
}

func TestMemoryLimiterPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	m.Allow("a", 1, time.Minute)
	m.Allow("b", 1, time.Hour)
	now = now.Add(2 * time.Minute)

	if removed := m.Prune(); removed != 1 {
		t.Fatalf("expected 1 pruned bucket, got %d", removed)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 remaining bucket, got %d", m.Len())
	}
}
