// Package server is the portal's HTTP front door. It keeps each user's backend tokens in
// a server-side session and serves the dashboard panels as JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/config"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/session"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

type Server struct {
	sessions       session.Manager
	triggerService portal.TriggerService
	validator      *validate.Validator
	catalog        *i18n.Catalog
	cookie         config.Session
	addr           string
}

func NewServer(addr string, cookie config.Session, m session.Manager, t portal.TriggerService, v *validate.Validator, c *i18n.Catalog) Server {
	return Server{m, t, v, c, cookie, addr}
}

// Handler returns the routed handler wrapped in access logging
func (s Server) Handler() http.Handler {
	r := httprouter.New()
	s.routes(r)

	var h http.Handler = r
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(log.Logger)(h)
	return h
}

func (s Server) Start(ctx context.Context) error {
	srv := http.Server{Addr: s.addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	log.Info().Msgf("listening on %s", s.addr)

	// start server, respecting context cancelation
	errChan := make(chan error)
	go func() { errChan <- srv.ListenAndServe() }()
	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info().Msg("server shutdown complete")
	}

	return nil
}
