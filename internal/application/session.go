// Package application holds the session state and the orchestration
// services between the web adapter and the family API.
package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adrianwozniak/hearth/internal/domain/model"
	"github.com/adrianwozniak/hearth/internal/domain/port/driven"
)

const (
	credentialService = "familyapi"
	credentialKey     = "token"
)

// Session is the single source of truth for "am I logged in and as whom".
// It is an explicit dependency of every component that needs it, not a
// package-level singleton. The credential survives restarts through the
// CredentialStore; the user profile is in-memory only and re-derived from
// the API after a restart.
//
// Authentication is decided on credential presence alone. No expiry is
// tracked locally; a stale credential is discovered when a request fails
// with 401, at which point Invalidate clears the session and notifies
// subscribers.
type Session struct {
	creds driven.CredentialStore

	mu    sync.RWMutex
	token string
	user  *model.User

	subMu sync.Mutex
	subs  []chan struct{}
}

// NewSession creates an empty, unauthenticated session backed by creds.
func NewSession(creds driven.CredentialStore) *Session {
	return &Session{creds: creds}
}

// Restore loads a previously persisted credential, marking the session
// optimistically authenticated. The profile stays absent until a
// RefreshProfile call fetches it.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.creds.Get(ctx, credentialService, credentialKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// SetCredential persists the token and then updates in-memory state, so a
// crash between the two steps never leaves memory claiming a credential
// that storage lost.
func (s *Session) SetCredential(ctx context.Context, token string) error {
	if err := s.creds.Set(ctx, credentialService, credentialKey, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// SetUser replaces the in-memory profile.
func (s *Session) SetUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Token returns the current credential, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the in-memory profile, or nil when it has not been fetched
// since the last credential change.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a credential is held. It says nothing about
// whether the remote API still accepts it.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Logout clears the durable credential and in-memory state.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.creds.Delete(ctx, credentialService, credentialKey); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return nil
}

// Invalidate is the 401 path: the remote API no longer accepts the stored
// credential. It clears the session like Logout, best-effort on storage,
// and notifies subscribers so views can react instead of silently showing
// stale state.
func (s *Session) Invalidate(ctx context.Context) {
	if err := s.creds.Delete(ctx, credentialService, credentialKey); err != nil {
		slog.Warn("failed to clear invalidated credential", "error", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default: // subscriber hasn't drained the last event; don't block
		}
	}
}

// Invalidations returns a channel that receives an event each time the
// session is invalidated by a 401 response. The channel has a buffer of one;
// slow consumers see at most one coalesced event.
func (s *Session) Invalidations() <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()

	return ch
}
