package ratelimit

import (
	"testing"
	"time"
)

func TestAllowEnforcesFixedWindow(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	l := New(10, time.Minute).WithClock(func() time.Time { return at })

	for i := 0; i < 10; i++ {
		if !l.Allow("user-1") {
			t.Fatalf("call %d denied, want allowed", i+1)
		}
	}
	if l.Allow("user-1") {
		t.Fatal("11th call allowed, want denied")
	}

	// Still inside the window.
	at = at.Add(30 * time.Second)
	if l.Allow("user-1") {
		t.Fatal("call inside window allowed after limit")
	}

	// A new window resets the count.
	at = at.Add(31 * time.Second)
	if !l.Allow("user-1") {
		t.Fatal("call in fresh window denied")
	}
}

func TestAllowTracksRequestersIndependently(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	l := New(2, time.Minute).WithClock(func() time.Time { return at })

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("requester a denied within limit")
	}
	if l.Allow("a") {
		t.Fatal("requester a allowed over limit")
	}
	if !l.Allow("b") {
		t.Fatal("requester b throttled by a's window")
	}
}

func TestDeniedCallDoesNotExtendWindow(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	l := New(1, time.Minute).WithClock(func() time.Time { return at })

	if !l.Allow("user-1") {
		t.Fatal("first call denied")
	}

	// Hammering while denied must not push the reset point out.
	for i := 0; i < 5; i++ {
		at = at.Add(10 * time.Second)
		if l.Allow("user-1") {
			t.Fatalf("call at +%ds allowed, want denied", (i+1)*10)
		}
	}

	at = at.Add(11 * time.Second)
	if !l.Allow("user-1") {
		t.Fatal("call after original window elapsed denied")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	l := New(0, 0)
	if l.limit != DefaultLimit || l.window != DefaultWindow {
		t.Fatalf("defaults = (%d, %v)", l.limit, l.window)
	}
}
