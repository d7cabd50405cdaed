// Package trigger sweeps expired portal sessions out of the repository.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
)

// Trigger implements TriggerService
var _ portal.TriggerService = Trigger{}

type Trigger struct {
	sessions portal.Repository
	now      func() time.Time
}

func NewTrigger(r portal.Repository) Trigger {
	return Trigger{r, time.Now}
}

// Trigger deletes every session past its expiry
func (t Trigger) Trigger(ctx context.Context) error {
	removed, err := t.sessions.DeleteExpiredSessions(ctx, t.now())
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	if removed == 0 {
		log.Debug().Msg("no expired sessions")
		return nil
	}

	log.Info().Int("removed", removed).Msg("expired sessions swept")
	return nil
}

// Run calls Trigger every interval until ctx is cancelled. A failed sweep is logged and
// retried on the next tick.
func (t Trigger) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		log.Warn().Msg("session sweeping disabled")
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Trigger(ctx); err != nil {
				log.Error().Err(err).Msg("session sweep failed")
			}
		}
	}
}
