package api

import (
	"context"
	"errors"
	"net/http"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

var ErrNoAccessToken = errors.New("no access token in token response")

func (c Client) Login(ctx context.Context, username, password string) (portal.Tokens, error) {
	body := map[string]string{"username": username, "password": password}
	raw, err := c.send(ctx, http.MethodPost, "/api/token/", nil, body, c.text(i18n.ServerError))
	if err != nil {
		return portal.Tokens{}, err
	}

	var tokens portal.Tokens
	if err := decode(raw, &tokens); err != nil {
		return portal.Tokens{}, err
	}
	if tokens.Access == "" {
		return portal.Tokens{}, ErrNoAccessToken
	}

	return tokens, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh token is kept
// when the backend does not rotate it.
func (c Client) Refresh(ctx context.Context, refresh string) (portal.Tokens, error) {
	body := map[string]string{"refresh": refresh}
	raw, err := c.send(ctx, http.MethodPost, "/api/token/refresh/", nil, body, c.text(i18n.ServerError))
	if err != nil {
		return portal.Tokens{}, err
	}

	var tokens portal.Tokens
	if err := decode(raw, &tokens); err != nil {
		return portal.Tokens{}, err
	}
	if tokens.Access == "" {
		return portal.Tokens{}, ErrNoAccessToken
	}
	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}

	return tokens, nil
}

func (c Client) Me(ctx context.Context) (portal.User, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/users/me/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return portal.User{}, err
	}

	var user portal.User
	return user, decode(raw, &user)
}

func (c Client) LoginHistory(ctx context.Context) ([]portal.LoginHistoryEntry, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/users/login-history/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var entries []portal.LoginHistoryEntry
	return entries, decodeList(raw, &entries)
}
