package probe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestChecker(lookup lookupFunc) (*Checker, *time.Time) {
	c := New(Config{CheckInterval: 30, Hosts: []string{"a.example", "b.example"}})
	c.lookup = lookup
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestOnlineFirstHostResolves(t *testing.T) {
	c, _ := newTestChecker(func(ctx context.Context, host string) error {
		return nil
	})

	if !c.Online(context.Background()) {
		t.Fatal("expected online")
	}
	if c.Offline() {
		t.Error("Offline() = true after successful check")
	}
}

func TestFallbackHost(t *testing.T) {
	c, _ := newTestChecker(func(ctx context.Context, host string) error {
		if host == "a.example" {
			return errors.New("no such host")
		}
		return nil
	})

	if !c.Online(context.Background()) {
		t.Fatal("expected fallback host to mark us online")
	}
}

func TestAllHostsFailMarksOffline(t *testing.T) {
	c, _ := newTestChecker(func(ctx context.Context, host string) error {
		return errors.New("no such host")
	})

	if c.Online(context.Background()) {
		t.Fatal("expected offline")
	}
	if !c.Offline() {
		t.Error("Offline() = false after failed check")
	}
}

func TestChecksAreThrottled(t *testing.T) {
	calls := 0
	c, now := newTestChecker(func(ctx context.Context, host string) error {
		calls++
		return nil
	})

	for i := 0; i < 5; i++ {
		c.Online(context.Background())
	}
	if calls != 1 {
		t.Fatalf("lookup calls = %d, want 1 (throttled)", calls)
	}

	// After the interval elapses a fresh check runs.
	*now = now.Add(31 * time.Second)
	c.Online(context.Background())
	if calls != 2 {
		t.Fatalf("lookup calls = %d, want 2", calls)
	}
}

func TestThrottledResultSticks(t *testing.T) {
	fail := true
	c, now := newTestChecker(func(ctx context.Context, host string) error {
		if fail {
			return errors.New("no such host")
		}
		return nil
	})

	if c.Online(context.Background()) {
		t.Fatal("expected offline")
	}

	// Connectivity returns, but inside the throttle window the cached
	// offline state is still reported.
	fail = false
	if c.Online(context.Background()) {
		t.Error("expected cached offline state inside throttle window")
	}

	*now = now.Add(time.Minute)
	if !c.Online(context.Background()) {
		t.Error("expected fresh check to report online")
	}
}
