package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/config"
)

var ErrSessionNotFound = errors.New("session not found")

func New(ctx context.Context, cfg config.Database) (portal.Repository, error) {
	if cfg.Type == "firestore" {
		log.Info().Msg("creating firestore repository")
		return newFirestoreRepository(ctx, cfg.Firestore)
	} else if cfg.Type == "sqlite" {
		log.Info().Msg("creating sqlite repository")
		return newSQLiteRepository(ctx, cfg.SQLite)
	} else {
		return nil, errors.New("invalid database type")
	}
}
