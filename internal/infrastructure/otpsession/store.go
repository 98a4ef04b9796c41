// Package otpsession holds in-flight OTP sessions in memory. Sessions are
// keyed by (normalized email, device ID) and disappear on process restart,
// which is acceptable: a lost session just means the caller requests a new
// code.
package otpsession

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// deviceIDPattern accepts opaque client-generated identifiers only. Anything
// missing, short, long, or outside the URL-safe alphabet is rejected to keep
// codes bound to the device that requested them.
var deviceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{16,128}$`)

// IsValidDeviceID reports whether id is a well-formed device identifier.
func IsValidDeviceID(id string) bool {
	return deviceIDPattern.MatchString(id)
}

// Session is one pending OTP issuance.
type Session struct {
	Email     string
	OTPHash   string
	ExpiresAt time.Time
}

// Store is a process-wide expiring map of OTP sessions. One Store is
// constructed per authentication realm (participant, admin) so the two flows
// cannot read each other's codes. Safe for concurrent use; the last write for
// a given (email, device) key wins.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's time source. Used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func key(email, deviceID string) string {
	return normalizeEmail(email) + ":" + deviceID
}

// Set stores a session for (email, deviceID), replacing any existing one for
// that pair. Expired entries across the store are pruned on the way in so the
// map cannot grow unbounded.
func (s *Store) Set(email, deviceID, otpHash string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, k)
		}
	}
	s.sessions[key(email, deviceID)] = Session{
		Email:     normalizeEmail(email),
		OTPHash:   otpHash,
		ExpiresAt: expiresAt,
	}
}

// Get returns the live session for (email, deviceID), or nil when none exists
// or the stored one has expired. Expired entries are deleted on lookup.
func (s *Store) Get(email, deviceID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(email, deviceID)
	sess, ok := s.sessions[k]
	if !ok {
		return nil
	}
	if !sess.ExpiresAt.After(s.now()) {
		delete(s.sessions, k)
		return nil
	}
	return &sess
}

// Clear removes the session for (email, deviceID). Idempotent.
func (s *Store) Clear(email, deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key(email, deviceID))
}
