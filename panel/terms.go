package panel

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

type TermManager struct {
	env Env
}

func NewTermManager(env Env) TermManager {
	return TermManager{env}
}

type TermView struct {
	Terms   []portal.Term `json:"terms"`
	Message *Message      `json:"message,omitempty"`
}

// Load lists the terms, newest selection window first
func (m TermManager) Load(ctx context.Context) TermView {
	terms, err := m.env.Backend.Terms(ctx)
	if err != nil {
		return TermView{Terms: []portal.Term{}, Message: m.env.LoadFailed(ctx, err, i18n.TermsLoadFailed)}
	}

	terms = orEmpty(terms)
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].StartSelection.After(terms[j].StartSelection.Time)
	})
	return TermView{Terms: terms}
}

type TermEditView struct {
	ID   int             `json:"id"`
	Form portal.TermForm `json:"form"`
}

// Edit loads one term into the editor form
func (m TermManager) Edit(ctx context.Context, id int) (TermEditView, error) {
	term, err := m.env.Backend.Term(ctx, id)
	if err != nil {
		return TermEditView{}, m.env.Failure(err, i18n.TermsLoadFailed)
	}
	return TermEditView{ID: id, Form: portal.TermFormFrom(term)}, nil
}

func (m TermManager) Create(ctx context.Context, form portal.TermForm) (TermView, error) {
	if err := m.env.Validator.Check(form); err != nil {
		return TermView{}, m.env.Failure(err, i18n.InvalidInput)
	}

	created, err := m.env.Backend.CreateTerm(ctx, form.Term())
	if err != nil {
		return TermView{}, m.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Int("id", created.ID).Msg("term created")
	return m.reload(ctx, i18n.TermCreated, form.Term().Name), nil
}

func (m TermManager) Update(ctx context.Context, id int, form portal.TermForm) (TermView, error) {
	if err := m.env.Validator.Check(form); err != nil {
		return TermView{}, m.env.Failure(err, i18n.InvalidInput)
	}

	if _, err := m.env.Backend.UpdateTerm(ctx, id, form.Term()); err != nil {
		return TermView{}, m.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Int("id", id).Msg("term updated")
	return m.reload(ctx, i18n.TermUpdated, form.Term().Name), nil
}

// Toggle flips whether the term is open for selection
func (m TermManager) Toggle(ctx context.Context, id int) (TermView, error) {
	active, err := m.env.Backend.ToggleTerm(ctx, id)
	if err != nil {
		return TermView{}, m.env.Failure(err, i18n.ServerError)
	}

	key := i18n.TermDeactivated
	if active {
		key = i18n.TermActivated
	}
	return m.reload(ctx, key), nil
}

func (m TermManager) reload(ctx context.Context, key string, params ...string) TermView {
	view := m.Load(ctx)
	if view.Message == nil {
		view.Message = m.env.Success(key, params...)
	}
	return view
}
