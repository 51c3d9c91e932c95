package application

import (
	"context"
	"fmt"

	"github.com/adrianwozniak/hearth/internal/domain/model"
	"github.com/adrianwozniak/hearth/internal/domain/port/driven"
)

// AuthService orchestrates credential acquisition and profile refresh
// between the family API and the session.
type AuthService struct {
	api     driven.FamilyAPI
	session *Session
}

// NewAuthService creates an AuthService with the required dependencies.
func NewAuthService(api driven.FamilyAPI, session *Session) *AuthService {
	return &AuthService{api: api, session: session}
}

// Login exchanges credentials for a token, stores it in the session, and
// fetches the profile. A profile-fetch failure does not roll back the
// credential: the session is authenticated and the profile is re-derived
// on the next page load.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.session.SetCredential(ctx, token); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	if user, err := s.api.Me(ctx); err == nil {
		s.session.SetUser(user)
	}

	return nil
}

// Register creates an account and immediately logs it in, so a fresh
// registration lands on the dashboard's "create or join a family" branch
// without a second form.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) error {
	if _, err := s.api.Register(ctx, email, password, fullName); err != nil {
		return err
	}
	return s.Login(ctx, email, password)
}

// RefreshProfile re-fetches the profile and stores it in the session.
// Callers use it after any operation that changes family membership
// server-side (create family, join family).
func (s *AuthService) RefreshProfile(ctx context.Context) (*model.User, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.session.SetUser(user)
	return user, nil
}

// Logout clears the session's durable and in-memory state.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}
