// Package session holds the in-process mapping from opaque bearer tokens to
// authenticated users. Sessions live only in memory: a restart logs every
// caller out.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"
)

// DefaultTTL applies when no TTL is configured.
const DefaultTTL = 8 * time.Hour

const tokenBytes = 32

// ErrInvalidOrExpired signals a token that is unknown or past its expiry.
// "Known token, deleted user" is deliberately not detected here; callers
// resolve the user and invalidate stale tokens themselves.
var ErrInvalidOrExpired = errors.New("session: invalid or expired token")

// Session pairs a user id with an absolute expiry.
type Session struct {
	UserID    uint
	ExpiresAt time.Time
}

// Store tracks active sessions behind a single mutex. Expired entries are
// swept on every Create and Resolve; the scan is linear over active
// sessions, which is fine at the expected session counts.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]Session
}

// NewStore builds a store with the given TTL. Non-positive TTLs fall back
// to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// NewStoreWithClock is NewStore with an injectable clock for expiry tests.
func NewStoreWithClock(ttl time.Duration, now func() time.Time) *Store {
	s := NewStore(ttl)
	if now != nil {
		s.now = now
	}
	return s
}

// Create issues a fresh URL-safe token (256 bits of entropy) bound to the
// user id, expiring TTL from now.
func (s *Store) Create(userID uint) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[token] = Session{UserID: userID, ExpiresAt: s.now().Add(s.ttl)}
	return token, nil
}

// Resolve sweeps, then looks the token up. Absent or expired tokens fail
// with ErrInvalidOrExpired.
func (s *Store) Resolve(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrInvalidOrExpired
	}
	return sess, nil
}

// Invalidate removes the token if present. Idempotent.
func (s *Store) Invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Active reports the number of live sessions after a sweep.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	if len(s.sessions) == 0 {
		return
	}
	now := s.now()
	for token, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, token)
		}
	}
}
