package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/config"
)

//go:embed migrations/sqlite/*.sql
var migrations embed.FS

var _ portal.Repository = SQLiteRepository{}

type SQLiteRepository struct {
	db  *sql.DB
	cfg config.SQLite
}

// creates a new repository backed by sqlite
// returns an error if the connection cannot be established or if a ping fails
func newSQLiteRepository(ctx context.Context, cfg config.SQLite) (SQLiteRepository, error) {
	// open connection
	db, err := sql.Open("sqlite", cfg.ConnectionString)
	if err != nil {
		return SQLiteRepository{}, fmt.Errorf("failed to open connection to sqlite: %w", err)
	}

	// in-memory databases are per connection
	db.SetMaxOpenConns(1)

	// check connection
	err = db.PingContext(ctx)
	if err != nil {
		return SQLiteRepository{}, fmt.Errorf("failed to ping db: %w", err)
	}

	// perform migrations
	source, err := iofs.New(migrations, "migrations/sqlite")
	if err != nil {
		return SQLiteRepository{}, fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return SQLiteRepository{}, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return SQLiteRepository{}, fmt.Errorf("failed to create migration: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return SQLiteRepository{}, fmt.Errorf("failed to execute migrations: %w", err)
	}

	return SQLiteRepository{db, cfg}, nil
}

// SaveSession inserts the session or replaces the one with the same id
func (r SQLiteRepository) SaveSession(ctx context.Context, s portal.Session) error {
	if err := s.Valid(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, access_token, refresh_token, username, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT(id) DO UPDATE SET
			access_token=excluded.access_token,
			refresh_token=excluded.refresh_token,
			username=excluded.username,
			role=excluded.role,
			expires_at=excluded.expires_at`,
		s.ID, s.AccessToken, s.RefreshToken, s.Username, string(s.Role), s.CreatedAt.Unix(), s.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return nil
}

func (r SQLiteRepository) GetSession(ctx context.Context, id string) (portal.Session, error) {
	var (
		s                  portal.Session
		role               string
		created, expiresAt int64
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT id, access_token, refresh_token, username, role, created_at, expires_at FROM sessions WHERE id=$1", id).
		Scan(&s.ID, &s.AccessToken, &s.RefreshToken, &s.Username, &role, &created, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return portal.Session{}, ErrSessionNotFound
	} else if err != nil {
		return portal.Session{}, fmt.Errorf("failed to fetch session: %w", err)
	}

	s.Role = portal.Role(role)
	s.CreatedAt = time.Unix(created, 0).UTC()
	s.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	return s, nil
}

func (r SQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session that expired at or before now
func (r SQLiteRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at<=$1", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}

	if count > 0 {
		log.Info().Msgf("deleted %d expired sessions", count)
	}
	return int(count), nil
}

func (r SQLiteRepository) Close() error {
	return r.db.Close()
}
