package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/config"
	"github.com/jacobmichels/Course-Portal-Go/dashboard"
	"github.com/jacobmichels/Course-Portal-Go/internal/fake"
	"github.com/jacobmichels/Course-Portal-Go/repository"
	"github.com/jacobmichels/Course-Portal-Go/token"
)

var start = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func newManager(t *testing.T, backend *fake.Backend) (*Manager, portal.Repository) {
	t.Helper()
	repo, err := repository.New(context.Background(), config.Database{Type: "sqlite", SQLite: config.SQLite{ConnectionString: ":memory:"}})
	require.NoError(t, err)

	m := NewManager(repo, func(string) portal.Backend { return backend }, 12*time.Hour)
	m.now = func() time.Time { return start }
	return &m, repo
}

func TestLogin(t *testing.T) {
	backend := &fake.Backend{Tokens: portal.Tokens{
		Access:  signed(t, jwt.MapClaims{"role": "student", "username": "s1", "exp": start.Add(5 * time.Minute).Unix()}),
		Refresh: "r1",
	}}
	m, repo := newManager(t, backend)

	s, err := m.Login(context.Background(), "abc", " s1 ", "pw")
	require.NoError(t, err)
	assert.Equal(t, portal.RoleStudent, s.Role)
	assert.Equal(t, "s1", s.Username)
	assert.Equal(t, start.Add(12*time.Hour), s.ExpiresAt)

	stored, err := repo.GetSession(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "r1", stored.RefreshToken)
}

func TestLoginWithoutRefreshExpiresWithToken(t *testing.T) {
	exp := start.Add(30 * time.Minute)
	backend := &fake.Backend{Tokens: portal.Tokens{
		Access: signed(t, jwt.MapClaims{"user_role": "admin", "exp": exp.Unix()}),
	}}
	m, _ := newManager(t, backend)

	s, err := m.Login(context.Background(), "abc", "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, "root", s.Username)
	assert.Equal(t, exp.Unix(), s.ExpiresAt.Unix())
}

func TestLoginFailures(t *testing.T) {
	t.Run("no role", func(t *testing.T) {
		backend := &fake.Backend{Tokens: portal.Tokens{Access: signed(t, jwt.MapClaims{"username": "x"})}}
		m, _ := newManager(t, backend)

		_, err := m.Login(context.Background(), "abc", "x", "pw")
		assert.ErrorIs(t, err, token.ErrNoRole)
	})

	t.Run("role without dashboard", func(t *testing.T) {
		backend := &fake.Backend{Tokens: portal.Tokens{Access: signed(t, jwt.MapClaims{"role": "staff"})}}
		m, repo := newManager(t, backend)

		_, err := m.Login(context.Background(), "abc", "x", "pw")
		assert.ErrorIs(t, err, dashboard.ErrUnknownRole)

		_, err = repo.GetSession(context.Background(), "abc")
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("backend rejects", func(t *testing.T) {
		backend := &fake.Backend{LoginErr: errors.New("bad credentials")}
		m, repo := newManager(t, backend)

		_, err := m.Login(context.Background(), "abc", "x", "pw")
		assert.ErrorIs(t, err, backend.LoginErr)

		_, err = repo.GetSession(context.Background(), "abc")
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	backend := &fake.Backend{Tokens: portal.Tokens{
		Access:  signed(t, jwt.MapClaims{"role": "professor", "username": "p1", "exp": start.Add(5 * time.Minute).Unix()}),
		Refresh: "r1",
	}}
	m, _ := newManager(t, backend)
	first, err := m.Login(ctx, "abc", "p1", "pw")
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		_, err := m.Resolve(ctx, "nope")
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("fresh token is kept", func(t *testing.T) {
		s, err := m.Resolve(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, first.AccessToken, s.AccessToken)
		assert.Zero(t, backend.Called("Refresh"))
	})

	t.Run("stale token is refreshed", func(t *testing.T) {
		renewed := signed(t, jwt.MapClaims{"role": "professor", "exp": start.Add(time.Hour).Unix()})
		backend.Tokens = portal.Tokens{Access: renewed}
		m.now = func() time.Time { return start.Add(10 * time.Minute) }

		s, err := m.Resolve(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, renewed, s.AccessToken)
		assert.Equal(t, "r1", s.RefreshToken)
		assert.Equal(t, 1, backend.Called("Refresh"))
	})

	t.Run("expired session is removed", func(t *testing.T) {
		m.now = func() time.Time { return start.Add(13 * time.Hour) }

		_, err := m.Resolve(ctx, "abc")
		assert.ErrorIs(t, err, ErrExpired)

		m.now = func() time.Time { return start }
		_, err = m.Resolve(ctx, "abc")
		assert.ErrorIs(t, err, ErrExpired)
	})
}

func TestResolveRefreshFailure(t *testing.T) {
	tests := []struct {
		name   string
		answer func(*fake.Backend)
	}{
		{name: "backend rejects the refresh token", answer: func(b *fake.Backend) {
			b.LoginErr = errors.New("refresh token blacklisted")
		}},
		{name: "backend returns no access token", answer: func(b *fake.Backend) {
			b.Tokens = portal.Tokens{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := &fake.Backend{Tokens: portal.Tokens{
				Access:  signed(t, jwt.MapClaims{"role": "student", "exp": start.Add(time.Minute).Unix()}),
				Refresh: "r1",
			}}
			m, repo := newManager(t, backend)
			_, err := m.Login(ctx, "abc", "s1", "pw")
			require.NoError(t, err)

			tt.answer(backend)
			m.now = func() time.Time { return start.Add(2 * time.Minute) }

			_, err = m.Resolve(ctx, "abc")
			assert.ErrorIs(t, err, ErrExpired)

			_, err = repo.GetSession(ctx, "abc")
			assert.ErrorIs(t, err, repository.ErrSessionNotFound)
		})
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	backend := &fake.Backend{Tokens: portal.Tokens{Access: signed(t, jwt.MapClaims{"role": "admin"})}}
	m, _ := newManager(t, backend)
	_, err := m.Login(ctx, "abc", "root", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx, "abc"))
	_, err = m.Resolve(ctx, "abc")
	assert.ErrorIs(t, err, ErrExpired)
	assert.NotEqual(t, NewID(), NewID())
}
