// Package register is the admin's account manager for students and professors.
package register

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/panel"
)

type Mode string

const (
	Students   Mode = "student"
	Professors Mode = "professor"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Students, Professors:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown user kind %q", s)
}

type Register struct {
	env panel.Env
}

func NewRegister(env panel.Env) Register {
	return Register{env}
}

type View struct {
	Mode       Mode                 `json:"mode"`
	Students   []portal.Student     `json:"students"`
	Professors []portal.Professor   `json:"professors"`
	Created    *portal.Registration `json:"created,omitempty"`
	Message    *panel.Message       `json:"message,omitempty"`
}

// Load lists the accounts of the given kind
func (r Register) Load(ctx context.Context, mode Mode) View {
	view := View{Mode: mode, Students: []portal.Student{}, Professors: []portal.Professor{}}

	var err error
	switch mode {
	case Professors:
		var professors []portal.Professor
		if professors, err = r.env.Backend.Professors(ctx); professors != nil {
			view.Professors = professors
		}
	default:
		view.Mode = Students
		var students []portal.Student
		if students, err = r.env.Backend.Students(ctx); students != nil {
			view.Students = students
		}
	}

	if err != nil {
		view.Message = r.env.LoadFailed(ctx, err, i18n.UsersLoadFailed)
	}
	return view
}

func (r Register) RegisterStudent(ctx context.Context, form portal.StudentForm) (View, error) {
	// Registration steps
	// 1. Validate the numbers locally
	// 2. Create the account and keep the generated credentials
	// 3. Reload the student list
	form.StudentNumber = strings.TrimSpace(form.StudentNumber)
	form.NationalCode = strings.TrimSpace(form.NationalCode)
	if err := r.env.Validator.Check(form); err != nil {
		return View{}, r.env.Failure(err, i18n.InvalidInput)
	}

	reg, err := r.env.Backend.RegisterStudent(ctx, form)
	if err != nil {
		return View{}, r.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("username", reg.Username).Msg("student registered")
	return r.created(ctx, Students, reg, i18n.StudentRegistered), nil
}

func (r Register) RegisterProfessor(ctx context.Context, form portal.ProfessorForm) (View, error) {
	form.PersonnelNumber = strings.TrimSpace(form.PersonnelNumber)
	form.NationalCode = strings.TrimSpace(form.NationalCode)
	if err := r.env.Validator.Check(form); err != nil {
		return View{}, r.env.Failure(err, i18n.InvalidInput)
	}

	reg, err := r.env.Backend.RegisterProfessor(ctx, form)
	if err != nil {
		return View{}, r.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("username", reg.Username).Msg("professor registered")
	return r.created(ctx, Professors, reg, i18n.ProfessorRegistered), nil
}

func (r Register) Delete(ctx context.Context, mode Mode, id int) (View, error) {
	var err error
	if mode == Professors {
		err = r.env.Backend.DeleteProfessor(ctx, id)
	} else {
		err = r.env.Backend.DeleteStudent(ctx, id)
	}
	if err != nil {
		return View{}, r.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("kind", string(mode)).Int("id", id).Msg("user deleted")

	view := r.Load(ctx, mode)
	if view.Message == nil {
		view.Message = r.env.Success(i18n.UserDeleted)
	}
	return view, nil
}

func (r Register) created(ctx context.Context, mode Mode, reg portal.Registration, key string) View {
	view := r.Load(ctx, mode)
	view.Created = &reg
	if view.Message == nil {
		name := reg.FullName
		if name == "" {
			name = reg.Username
		}
		view.Message = r.env.Success(key, name)
	}
	return view
}
