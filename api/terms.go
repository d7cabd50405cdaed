package api

import (
	"context"
	"net/http"
	"time"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

type termRequest struct {
	Name           string `json:"name"`
	StartSelection string `json:"start_selection"`
	EndSelection   string `json:"end_selection"`
	IsActive       bool   `json:"is_active"`
}

func newTermRequest(t portal.Term) termRequest {
	return termRequest{
		Name:           t.Name,
		StartSelection: t.StartSelection.Format(time.RFC3339),
		EndSelection:   t.EndSelection.Format(time.RFC3339),
		IsActive:       t.IsActive,
	}
}

func (c Client) Terms(ctx context.Context) ([]portal.Term, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/terms/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var terms []portal.Term
	return terms, decodeList(raw, &terms)
}

func (c Client) Term(ctx context.Context, id int) (portal.Term, error) {
	raw, err := c.send(ctx, http.MethodGet, idPath("/api/terms/%d/", id), nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return portal.Term{}, err
	}

	var term portal.Term
	return term, decode(raw, &term)
}

func (c Client) CreateTerm(ctx context.Context, term portal.Term) (portal.Term, error) {
	raw, err := c.send(ctx, http.MethodPost, "/api/terms/", nil, newTermRequest(term), c.text(i18n.ServerError))
	if err != nil {
		return portal.Term{}, err
	}

	var created portal.Term
	return created, decode(raw, &created)
}

func (c Client) UpdateTerm(ctx context.Context, id int, term portal.Term) (portal.Term, error) {
	raw, err := c.send(ctx, http.MethodPut, idPath("/api/terms/%d/", id), nil, newTermRequest(term), c.text(i18n.ServerError))
	if err != nil {
		return portal.Term{}, err
	}

	var updated portal.Term
	return updated, decode(raw, &updated)
}

// ToggleTerm flips a term's active flag and returns the new value
func (c Client) ToggleTerm(ctx context.Context, id int) (bool, error) {
	raw, err := c.send(ctx, http.MethodPost, idPath("/api/terms/%d/toggle-active/", id), nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return false, err
	}

	var res struct {
		IsActive bool `json:"is_active"`
	}
	return res.IsActive, decode(raw, &res)
}
