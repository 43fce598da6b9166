package breaker

import (
	"testing"
	"time"
)

func TestOpensAtThreshold(t *testing.T) {
	b := New(3, time.Minute)
	now := time.Now()

	if opened := b.RecordFailure(now); opened {
		t.Fatal("opened after 1 failure")
	}
	if opened := b.RecordFailure(now); opened {
		t.Fatal("opened after 2 failures")
	}
	if opened := b.RecordFailure(now); !opened {
		t.Fatal("did not open after 3 failures")
	}

	active, remaining := b.IsActive(now)
	if !active {
		t.Fatal("expected active breaker")
	}
	if remaining != time.Minute {
		t.Errorf("remaining = %v, want %v", remaining, time.Minute)
	}
}

func TestSuccessResetsStreakButNotOpenState(t *testing.T) {
	b := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		b.RecordFailure(now)
	}

	b.RecordSuccess()

	if b.Failures() != 0 {
		t.Errorf("failures = %d, want 0", b.Failures())
	}
	if active, _ := b.IsActive(now); !active {
		t.Error("success must not close an open breaker")
	}
}

func TestTimeoutExpiryObservedLazily(t *testing.T) {
	b := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		b.RecordFailure(now)
	}

	active, remaining := b.IsActive(now.Add(30 * time.Second))
	if !active || remaining != 30*time.Second {
		t.Errorf("IsActive(+30s) = (%v, %v), want (true, 30s)", active, remaining)
	}

	active, remaining = b.IsActive(now.Add(time.Minute))
	if active || remaining != 0 {
		t.Errorf("IsActive(+60s) = (%v, %v), want (false, 0)", active, remaining)
	}
}

func TestReopensAfterExpiryOnNextFailure(t *testing.T) {
	b := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		b.RecordFailure(now)
	}

	// Timeout elapses with no success in between; the streak is intact, so
	// the next failure re-opens immediately with a fresh window.
	later := now.Add(2 * time.Minute)
	if opened := b.RecordFailure(later); !opened {
		t.Fatal("expected breaker to re-open")
	}

	active, remaining := b.IsActive(later)
	if !active || remaining != time.Minute {
		t.Errorf("IsActive = (%v, %v), want (true, 1m)", active, remaining)
	}
}

func TestReset(t *testing.T) {
	b := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 5; i++ {
		b.RecordFailure(now)
	}

	b.Reset()

	if active, _ := b.IsActive(now); active {
		t.Error("breaker still active after reset")
	}
	if b.Failures() != 0 {
		t.Errorf("failures = %d, want 0", b.Failures())
	}

	// Threshold evaluation starts over from zero.
	b.RecordFailure(now)
	if active, _ := b.IsActive(now); active {
		t.Error("breaker re-opened after a single post-reset failure")
	}
}

func TestFailuresKeepCountingWhileOpen(t *testing.T) {
	b := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		b.RecordFailure(now)
	}
	opened := b.RecordFailure(now.Add(time.Second))

	if opened {
		t.Error("already-open breaker must not report opening again")
	}
	if b.Failures() != 4 {
		t.Errorf("failures = %d, want 4", b.Failures())
	}
	// opened_at is not re-stamped by failures while open.
	if _, remaining := b.IsActive(now.Add(time.Second)); remaining != 59*time.Second {
		t.Errorf("remaining = %v, want 59s", remaining)
	}
}
