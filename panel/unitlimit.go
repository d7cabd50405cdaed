package panel

import (
	"context"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

// DefaultUnitLimit prefills the form before any limit exists
var DefaultUnitLimit = portal.UnitLimit{MinUnits: 12, MaxUnits: 20}

type UnitLimitManager struct {
	env Env
}

func NewUnitLimitManager(env Env) UnitLimitManager {
	return UnitLimitManager{env}
}

type UnitLimitView struct {
	Limit   portal.UnitLimit `json:"limit"`
	Exists  bool             `json:"exists"`
	Message *Message         `json:"message,omitempty"`
}

func (m UnitLimitManager) Load(ctx context.Context) UnitLimitView {
	limit, err := m.env.Backend.UnitLimit(ctx)
	if err != nil {
		return UnitLimitView{Limit: DefaultUnitLimit, Message: m.env.LoadFailed(ctx, err, i18n.UnitLimitLoadFailed)}
	}
	if limit == nil {
		return UnitLimitView{Limit: DefaultUnitLimit}
	}
	return UnitLimitView{Limit: *limit, Exists: true}
}

// Save creates the limit or replaces the existing one
func (m UnitLimitManager) Save(ctx context.Context, form portal.UnitLimitForm) (UnitLimitView, error) {
	if err := m.env.Validator.Check(form); err != nil {
		return UnitLimitView{}, m.env.Failure(err, i18n.InvalidInput)
	}

	saved, err := m.env.Backend.SaveUnitLimit(ctx, form.Limit())
	if err != nil {
		return UnitLimitView{}, m.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Int("min", saved.MinUnits).Int("max", saved.MaxUnits).Msg("unit limit saved")

	return UnitLimitView{Limit: saved, Exists: true, Message: m.env.Success(i18n.UnitLimitSaved)}, nil
}
