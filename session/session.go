// Package session logs users in against the backend and keeps their tokens in the
// repository under an opaque session id.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/dashboard"
	"github.com/jacobmichels/Course-Portal-Go/repository"
	"github.com/jacobmichels/Course-Portal-Go/token"
)

var ErrExpired = errors.New("session expired")

// Backends returns a backend client authenticated with token. An empty token gives an
// anonymous client.
type Backends func(token string) portal.Backend

type Manager struct {
	sessions portal.Repository
	backends Backends
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(r portal.Repository, b Backends, ttl time.Duration) Manager {
	return Manager{r, b, ttl, time.Now}
}

// NewID returns a random session id
func NewID() string {
	return uuid.NewString()
}

// Login exchanges the credentials for tokens and stores them under id
func (m Manager) Login(ctx context.Context, id, username, password string) (portal.Session, error) {
	// Login steps
	// 1. Obtain the token pair from the backend
	// 2. Read role and username out of the access token, refusing roles without a dashboard
	// 3. Persist the session

	username = strings.TrimSpace(username)
	tokens, err := m.backends("").Login(ctx, username, password)
	if err != nil {
		return portal.Session{}, fmt.Errorf("failed to log in: %w", err)
	}

	claims, err := token.Parse(tokens.Access, username)
	if err != nil {
		return portal.Session{}, err
	}
	if err := claims.Role.Valid(); err != nil {
		return portal.Session{}, fmt.Errorf("%w: %w", dashboard.ErrUnknownRole, err)
	}

	now := m.now()
	s := portal.Session{
		ID:           id,
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		Username:     claims.Username,
		Role:         claims.Role,
		CreatedAt:    now,
		ExpiresAt:    m.expiry(now, claims, tokens.Refresh),
	}

	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return portal.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	log.Ctx(ctx).Info().Str("user", s.Username).Str("role", string(s.Role)).Msg("logged in")
	return s, nil
}

// Resolve returns the live session for id, refreshing its access token when it has
// run out. Expired sessions are deleted and reported as ErrExpired.
func (m Manager) Resolve(ctx context.Context, id string) (portal.Session, error) {
	s, err := m.sessions.GetSession(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return portal.Session{}, ErrExpired
	} else if err != nil {
		return portal.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	now := m.now()
	if s.Expired(now) {
		m.drop(ctx, id)
		return portal.Session{}, ErrExpired
	}

	claims, err := token.Parse(s.AccessToken, s.Username)
	if err != nil || claims.ExpiresAt.IsZero() || now.Before(claims.ExpiresAt) || s.RefreshToken == "" {
		return s, nil
	}

	return m.refresh(ctx, s)
}

func (m Manager) refresh(ctx context.Context, s portal.Session) (portal.Session, error) {
	tokens, err := m.backends("").Refresh(ctx, s.RefreshToken)
	if err == nil && tokens.Access == "" {
		err = errors.New("refresh returned no access token")
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user", s.Username).Msg("token refresh failed")
		m.drop(ctx, s.ID)
		return portal.Session{}, fmt.Errorf("%w: %w", ErrExpired, err)
	}

	s.AccessToken = tokens.Access
	if tokens.Refresh != "" {
		s.RefreshToken = tokens.Refresh
	}

	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return portal.Session{}, fmt.Errorf("failed to save refreshed session: %w", err)
	}

	log.Ctx(ctx).Debug().Str("user", s.Username).Msg("access token refreshed")
	return s, nil
}

func (m Manager) Logout(ctx context.Context, id string) error {
	if err := m.sessions.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

// Backend returns the backend client acting for s
func (m Manager) Backend(s portal.Session) portal.Backend {
	return m.backends(s.AccessToken)
}

// a session lives for the configured ttl, or until its access token expires when
// there is no refresh token to renew it with
func (m Manager) expiry(now time.Time, claims token.Claims, refresh string) time.Time {
	expires := now.Add(m.ttl)
	if refresh == "" && !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(expires) {
		return claims.ExpiresAt
	}
	return expires
}

func (m Manager) drop(ctx context.Context, id string) {
	if err := m.sessions.DeleteSession(ctx, id); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to delete expired session")
	}
}
