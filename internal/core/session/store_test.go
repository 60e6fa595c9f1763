package session

import (
	"errors"
	"testing"
	"time"
)

func TestCreateAndResolve(t *testing.T) {
	store := NewStore(time.Hour)

	token, err := store.Create(42)
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("create: expected non-empty token")
	}

	sess, err := store.Resolve(token)
	if err != nil {
		t.Fatalf("resolve: unexpected error: %v", err)
	}
	if sess.UserID != 42 {
		t.Fatalf("resolve: expected user 42, got %d", sess.UserID)
	}
}

func TestTokensAreUnique(t *testing.T) {
	store := NewStore(time.Hour)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := store.Create(uint(i))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token issued: %q", token)
		}
		seen[token] = struct{}{}
	}
}

func TestResolveUnknownToken(t *testing.T) {
	store := NewStore(time.Hour)
	if _, err := store.Resolve("no-such-token"); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	store := NewStore(time.Hour)
	token, err := store.Create(7)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.Invalidate(token)
	if _, err := store.Resolve(token); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired after invalidate, got %v", err)
	}

	// Invalidating again must be a no-op.
	store.Invalidate(token)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := NewStoreWithClock(30*time.Minute, clock)

	token, err := store.Create(9)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(29 * time.Minute)
	if _, err := store.Resolve(token); err != nil {
		t.Fatalf("resolve before expiry: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Resolve(token); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired after ttl, got %v", err)
	}
}

func TestSweepRemovesExpiredOnCreate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := NewStoreWithClock(time.Minute, clock)

	for i := 0; i < 5; i++ {
		if _, err := store.Create(uint(i)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if got := store.Active(); got != 5 {
		t.Fatalf("expected 5 active sessions, got %d", got)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Create(99); err != nil {
		t.Fatalf("create after expiry: %v", err)
	}
	if got := store.Active(); got != 1 {
		t.Fatalf("expected sweep to leave 1 session, got %d", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore(time.Hour)
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				token, err := store.Create(uint(g))
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				if _, err := store.Resolve(token); err != nil {
					t.Errorf("resolve: %v", err)
					return
				}
				store.Invalidate(token)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
	if got := store.Active(); got != 0 {
		t.Fatalf("expected no sessions left, got %d", got)
	}
}
