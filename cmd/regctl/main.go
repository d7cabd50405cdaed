package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/api"
	"github.com/jacobmichels/Course-Portal-Go/config"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/internal/logger"
	"github.com/jacobmichels/Course-Portal-Go/repository"
	"github.com/jacobmichels/Course-Portal-Go/session"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Read()
	errAndDie(err)

	// keep stdout for command output
	logger.Configure(logger.Config{Level: cfg.Log.Level, Pretty: true, Output: os.Stderr})

	catalog, err := i18n.New(cfg.Locale)
	errAndDie(err)
	validator, err := validate.New(catalog)
	errAndDie(err)

	repo, err := repository.New(context.Background(), cfg.Database)
	errAndDie(err)

	client := api.New(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout), api.WithCatalog(catalog))

	cli := commandLine{
		sessions: session.NewManager(repo, func(token string) portal.Backend {
			return client.WithToken(token)
		}, cfg.Session.TTL),
		validator: validator,
		catalog:   catalog,
		out:       os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("regctl setup failed")
	}
}
