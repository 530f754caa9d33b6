package ratelimit

import (
	"testing"
	"time"
)

func TestTakeMinuteWindow(t *testing.T) {
	l := NewLimiter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		res := l.Take("10.0.0.1", base.Add(time.Duration(i)*time.Second), 3, 0)
		if !res.Allowed {
			t.Fatalf("request %d should be allowed, got %+v", i+1, res)
		}
	}

	res := l.Take("10.0.0.1", base.Add(3*time.Second), 3, 0)
	if res.Allowed {
		t.Fatalf("4th request within window should be blocked, got %+v", res)
	}
	if res.MinuteCount != 4 {
		t.Errorf("minute count = %d, want 4", res.MinuteCount)
	}
	if res.RetryAfter < time.Second {
		t.Errorf("retry after = %v, want at least 1s", res.RetryAfter)
	}

	// 最舊的時間戳離開視窗後恢復
	res = l.Take("10.0.0.1", base.Add(90*time.Second), 3, 0)
	if !res.Allowed {
		t.Fatalf("request after window slid should be allowed, got %+v", res)
	}
}

func TestTakeHourWindow(t *testing.T) {
	l := NewLimiter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// 分散在一小時內，不會踩到分鐘視窗
	if res := l.Take("k", base, 0, 2); !res.Allowed {
		t.Fatalf("1st request blocked: %+v", res)
	}
	if res := l.Take("k", base.Add(10*time.Minute), 0, 2); !res.Allowed {
		t.Fatalf("2nd request blocked: %+v", res)
	}

	res := l.Take("k", base.Add(20*time.Minute), 0, 2)
	if res.Allowed {
		t.Fatalf("3rd request within hour should be blocked, got %+v", res)
	}
	if res.HourCount != 3 {
		t.Errorf("hour count = %d, want 3", res.HourCount)
	}
	if res.RetryAfter <= 0 {
		t.Errorf("retry after = %v, want positive", res.RetryAfter)
	}

	if res := l.Take("k", base.Add(2*time.Hour), 0, 2); !res.Allowed {
		t.Fatalf("request after hour window slid should be allowed, got %+v", res)
	}
}

func TestTakeBothThresholds(t *testing.T) {
	l := NewLimiter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if res := l.Take("k", base, 1, 10); !res.Allowed {
		t.Fatalf("1st request blocked: %+v", res)
	}
	res := l.Take("k", base.Add(time.Second), 1, 10)
	if res.Allowed {
		t.Fatalf("minute threshold should block, got %+v", res)
	}
}

func TestTakeKeysAreIndependent(t *testing.T) {
	l := NewLimiter()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if res := l.Take("a", now, 1, 0); !res.Allowed {
		t.Fatalf("key a 1st request blocked: %+v", res)
	}
	if res := l.Take("a", now, 1, 0); res.Allowed {
		t.Fatalf("key a 2nd request should be blocked")
	}
	if res := l.Take("b", now, 1, 0); !res.Allowed {
		t.Fatalf("key b should not share key a's window")
	}
}

func TestPeekDoesNotRecord(t *testing.T) {
	l := NewLimiter()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if m, h := l.Peek("k", now); m != 0 || h != 0 {
		t.Fatalf("peek on unknown key = (%d, %d), want (0, 0)", m, h)
	}

	l.Take("k", now, 10, 0)
	l.Take("k", now, 10, 0)

	m, h := l.Peek("k", now)
	if m != 2 || h != 2 {
		t.Fatalf("peek = (%d, %d), want (2, 2)", m, h)
	}
	// Peek 本身不計入
	if m, h = l.Peek("k", now); m != 2 || h != 2 {
		t.Fatalf("second peek = (%d, %d), want (2, 2)", m, h)
	}
}

func TestSweepIdle(t *testing.T) {
	l := NewLimiter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	l.Take("stale", base, 0, 100)
	l.Take("fresh", base.Add(3*time.Hour), 0, 100)

	if got := l.Len(); got != 2 {
		t.Fatalf("len = %d, want 2", got)
	}

	removed := l.SweepIdle(base.Add(3*time.Hour), DefaultIdleCutoff)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if got := l.Len(); got != 1 {
		t.Fatalf("len after sweep = %d, want 1", got)
	}
	if m, h := l.Peek("fresh", base.Add(3*time.Hour)); h != 1 {
		t.Fatalf("fresh key lost its window: (%d, %d)", m, h)
	}
}
