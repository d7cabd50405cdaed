// Package panel implements the portal's feature panels. Every action follows the same
// steps: validate the form, call one backend endpoint, reload the affected list and
// report the outcome as a message.
package panel

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/api"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

type ID string

const (
	CourseManagerID   ID = "course-manager"
	CoursesID         ID = "courses"
	PrerequisitesID   ID = "prerequisites"
	UnitLimitID       ID = "unit-limit"
	UsersID           ID = "users"
	TermsID           ID = "terms"
	LoginHistoryID    ID = "login-history"
	CourseSelectionID ID = "course-selection"
	WeeklyScheduleID  ID = "weekly-schedule"
	ReportCardID      ID = "report-card"
	CourseStudentsID  ID = "course-students"
)

type MessageKind string

const (
	Success MessageKind = "success"
	Failed  MessageKind = "error"
)

// Message is the inline notice shown above a panel
type Message struct {
	Kind   MessageKind           `json:"kind"`
	Text   string                `json:"text"`
	Fields []validate.FieldError `json:"fields,omitempty"`
}

// Failure is a panel action that did not go through. Status follows the backend answer
// where there was one.
type Failure struct {
	Status  int
	Message Message
	Err     error
}

func (f *Failure) Error() string {
	return f.Message.Text
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Env is what every panel needs
type Env struct {
	Backend   portal.Backend
	Validator *validate.Validator
	Catalog   *i18n.Catalog
}

func (e Env) Success(key string, params ...string) *Message {
	return &Message{Kind: Success, Text: e.Catalog.Text(key, params...)}
}

// Failure turns err into the message to display, using fallbackKey when the error
// carries no text of its own.
func (e Env) Failure(err error, fallbackKey string) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	var verr *validate.Error
	if errors.As(err, &verr) {
		return &Failure{
			Status:  http.StatusBadRequest,
			Message: Message{Kind: Failed, Text: verr.Error(), Fields: verr.Fields},
			Err:     err,
		}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return &Failure{
			Status:  apiErr.StatusCode,
			Message: Message{Kind: Failed, Text: apiErr.Message},
			Err:     err,
		}
	}

	return &Failure{
		Status:  http.StatusBadGateway,
		Message: Message{Kind: Failed, Text: e.Catalog.Text(fallbackKey)},
		Err:     err,
	}
}

// Rejected is a failure found before calling the backend
func (e Env) Rejected(key string, params ...string) *Failure {
	return &Failure{
		Status:  http.StatusBadRequest,
		Message: Message{Kind: Failed, Text: e.Catalog.Text(key, params...)},
	}
}

// LoadFailed is the message for a list that could not be fetched
func (e Env) LoadFailed(ctx context.Context, err error, fallbackKey string) *Message {
	log.Ctx(ctx).Warn().Err(err).Msg("panel load failed")
	msg := e.Failure(err, fallbackKey).Message
	return &msg
}
