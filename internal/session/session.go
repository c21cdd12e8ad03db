// ABOUTME: Process-wide holder of the currently authenticated identity
// ABOUTME: Set on login, cleared on logout, read by every screen that needs the current user

package session

import (
	"log/slog"
	"sync"

	"github.com/artflow/artflow/internal/store"
)

// Identity is the authenticated user visible to the rest of the process.
type Identity struct {
	AccountID string
	FullName  string
	Email     string
	Role      store.Role
}

// Session is a single-slot holder for the current identity. One Session
// is constructed at startup and passed to consumers; there is no expiry
// and no multi-session support, which matches a single-user desktop
// process.
type Session struct {
	mu       sync.RWMutex
	identity *Identity
	logger   *slog.Logger
}

// New creates an empty session. Pass nil logger for default.
func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{logger: logger.With("component", "session")}
}

// Login stores the identity of a successfully authenticated user,
// replacing any previous one.
func (s *Session) Login(id Identity) {
	s.mu.Lock()
	s.identity = &id
	s.mu.Unlock()

	s.logger.Info("session started", "email", id.Email, "role", id.Role)
}

// Current returns a copy of the logged-in identity, or false when no one
// is logged in.
func (s *Session) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Logout clears the slot. Safe to call when no one is logged in.
func (s *Session) Logout() {
	s.mu.Lock()
	had := s.identity != nil
	s.identity = nil
	s.mu.Unlock()

	if had {
		s.logger.Info("session ended")
	}
}
