package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/hlog"

	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/panel"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

type errorResponse struct {
	Message string                `json:"message"`
	Fields  []validate.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error writing response")
	}
}

func (s Server) writeError(w http.ResponseWriter, r *http.Request, status int, key string) {
	writeJSON(w, r, status, errorResponse{Message: s.catalog.Text(key)})
}

// respond writes the view of a panel action, or the failure that stopped it
func (s Server) respond(w http.ResponseWriter, r *http.Request, view any, err error) {
	if err == nil {
		writeJSON(w, r, http.StatusOK, view)
		return
	}

	var failure *panel.Failure
	if !errors.As(err, &failure) {
		hlog.FromRequest(r).Error().Err(err).Msg("panel action failed")
		s.writeError(w, r, http.StatusInternalServerError, i18n.ServerError)
		return
	}

	hlog.FromRequest(r).Warn().Err(failure.Err).Int("status", failure.Status).Msg(failure.Message.Text)
	writeJSON(w, r, failure.Status, errorResponse{Message: failure.Message.Text, Fields: failure.Message.Fields})
}

// decode reads the request body into form, answering 400 itself when it cannot
func (s Server) decode(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := json.NewDecoder(r.Body).Decode(form); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("error decoding request body")
		s.writeError(w, r, http.StatusBadRequest, i18n.InvalidInput)
		return false
	}
	return true
}

func (s Server) pathID(w http.ResponseWriter, r *http.Request, p httprouter.Params) (int, bool) {
	id, err := strconv.Atoi(p.ByName("id"))
	if err != nil || id <= 0 {
		s.writeError(w, r, http.StatusBadRequest, i18n.InvalidInput)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
