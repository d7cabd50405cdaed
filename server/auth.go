package server

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/hlog"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/dashboard"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/panel"
	"github.com/jacobmichels/Course-Portal-Go/session"
	"github.com/jacobmichels/Course-Portal-Go/token"
)

type sessionHandle func(http.ResponseWriter, *http.Request, httprouter.Params, portal.Session)

type panelHandle func(http.ResponseWriter, *http.Request, httprouter.Params, panel.Env)

type loginResponse struct {
	Username  string              `json:"username"`
	Role      portal.Role         `json:"role"`
	Dashboard dashboard.Dashboard `json:"dashboard"`
}

// authed resolves the session cookie before calling next. Requests without a live
// session get 401.
func (s Server) authed(next sessionHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		cookie, err := r.Cookie(s.cookie.CookieName)
		if err != nil || cookie.Value == "" {
			s.writeError(w, r, http.StatusUnauthorized, i18n.Unauthorized)
			return
		}

		sess, err := s.sessions.Resolve(r.Context(), cookie.Value)
		if errors.Is(err, session.ErrExpired) {
			s.clearCookie(w)
			s.writeError(w, r, http.StatusUnauthorized, i18n.Unauthorized)
			return
		} else if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to resolve session")
			s.writeError(w, r, http.StatusInternalServerError, i18n.ServerError)
			return
		}

		logger := hlog.FromRequest(r).With().Str("user", sess.Username).Str("role", string(sess.Role)).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		next(w, r, p, sess)
	}
}

// panel gates next on the panel being part of the user's dashboard
func (s Server) panel(id panel.ID, next panelHandle) httprouter.Handle {
	return s.authed(func(w http.ResponseWriter, r *http.Request, p httprouter.Params, sess portal.Session) {
		if !dashboard.Allows(sess.Role, id) {
			s.writeError(w, r, http.StatusForbidden, i18n.Forbidden)
			return
		}

		next(w, r, p, s.env(sess))
	})
}

func (s Server) env(sess portal.Session) panel.Env {
	return panel.Env{Backend: s.sessions.Backend(sess), Validator: s.validator, Catalog: s.catalog}
}

func (s Server) loginHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		var form portal.LoginForm
		if !s.decode(w, r, &form) {
			return
		}

		env := panel.Env{Validator: s.validator, Catalog: s.catalog}
		if err := s.validator.Check(form); err != nil {
			s.respond(w, r, nil, env.Failure(err, i18n.InvalidInput))
			return
		}

		sess, err := s.sessions.Login(r.Context(), session.NewID(), form.Username, form.Password)
		if errors.Is(err, token.ErrNoRole) {
			hlog.FromRequest(r).Warn().Str("user", form.Username).Msg("token carries no role")
			s.writeError(w, r, http.StatusUnauthorized, i18n.NoRole)
			return
		} else if errors.Is(err, dashboard.ErrUnknownRole) {
			hlog.FromRequest(r).Warn().Err(err).Str("user", form.Username).Msg("login with unsupported role")
			s.writeError(w, r, http.StatusForbidden, i18n.Forbidden)
			return
		} else if err != nil {
			s.respond(w, r, nil, env.Failure(err, i18n.LoginFailed))
			return
		}

		d, err := dashboard.For(sess.Role)
		if err != nil {
			s.writeError(w, r, http.StatusForbidden, i18n.Forbidden)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     s.cookie.CookieName,
			Value:    sess.ID,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			Secure:   s.cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, r, http.StatusOK, loginResponse{Username: sess.Username, Role: sess.Role, Dashboard: d})
	}
}

func (s Server) logoutHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if cookie, err := r.Cookie(s.cookie.CookieName); err == nil && cookie.Value != "" {
			if err := s.sessions.Logout(r.Context(), cookie.Value); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("logout failed")
				s.writeError(w, r, http.StatusInternalServerError, i18n.ServerError)
				return
			}
		}

		s.clearCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s Server) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s Server) meHandler() sessionHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, sess portal.Session) {
		env := s.env(sess)
		user, err := env.Backend.Me(r.Context())
		if err != nil {
			s.respond(w, r, nil, env.Failure(err, i18n.ServerError))
			return
		}
		writeJSON(w, r, http.StatusOK, user)
	}
}

func (s Server) dashboardHandler() sessionHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, sess portal.Session) {
		d, err := dashboard.For(sess.Role)
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("no dashboard for role")
			s.writeError(w, r, http.StatusForbidden, i18n.Forbidden)
			return
		}
		writeJSON(w, r, http.StatusOK, d)
	}
}

func (s Server) pingHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		hlog.FromRequest(r).Debug().Msg("ping request received")

		if _, err := w.Write([]byte("OK")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("error writing ping response")
		}
	}
}

func (s Server) triggerHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if err := s.triggerService.Trigger(r.Context()); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("trigger failed")
			s.writeError(w, r, http.StatusInternalServerError, i18n.ServerError)
			return
		}

		if _, err := w.Write([]byte("OK")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("error writing trigger response")
		}
	}
}
