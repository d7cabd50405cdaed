package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/api"
	"github.com/jacobmichels/Course-Portal-Go/config"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/internal/logger"
	"github.com/jacobmichels/Course-Portal-Go/repository"
	"github.com/jacobmichels/Course-Portal-Go/server"
	"github.com/jacobmichels/Course-Portal-Go/session"
	"github.com/jacobmichels/Course-Portal-Go/trigger"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Read()
	if err != nil {
		log.Panic().Err(err).Msg("failed to read config")
	}

	logger.Configure(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	catalog, err := i18n.New(cfg.Locale)
	if err != nil {
		log.Panic().Err(err).Msg("failed to build message catalog")
	}

	validator, err := validate.New(catalog)
	if err != nil {
		log.Panic().Err(err).Msg("failed to create validator")
	}

	repo, err := repository.New(ctx, cfg.Database)
	if err != nil {
		log.Panic().Err(err).Msg("failed to create repository")
	}

	client := api.New(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout), api.WithCatalog(catalog))
	sessions := session.NewManager(repo, func(token string) portal.Backend {
		return client.WithToken(token)
	}, cfg.Session.TTL)

	sweeper := trigger.NewTrigger(repo)
	go sweeper.Run(ctx, cfg.Session.SweepInterval)

	srv := server.NewServer(cfg.Server.Addr, cfg.Session, sessions, sweeper, validator, catalog)
	if err := srv.Start(ctx); err != nil {
		log.Panic().Err(err).Msg("server failure")
	}
}
