package api

import (
	"context"
	"net/http"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

func (c Client) Students(ctx context.Context) ([]portal.Student, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/users/students/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var students []portal.Student
	return students, decodeList(raw, &students)
}

func (c Client) RegisterStudent(ctx context.Context, form portal.StudentForm) (portal.Registration, error) {
	raw, err := c.send(ctx, http.MethodPost, "/api/users/register/register-student/", nil, form, c.text(i18n.ServerError))
	if err != nil {
		return portal.Registration{}, err
	}

	var reg portal.Registration
	return reg, decode(raw, &reg)
}

func (c Client) DeleteStudent(ctx context.Context, id int) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/users/students/%d/", id), nil, nil, c.text(i18n.ServerError))
	return err
}

func (c Client) Professors(ctx context.Context) ([]portal.Professor, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/users/professors/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var professors []portal.Professor
	return professors, decodeList(raw, &professors)
}

func (c Client) ProfessorOptions(ctx context.Context) ([]portal.Professor, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/professors/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var professors []portal.Professor
	return professors, decodeList(raw, &professors)
}

func (c Client) RegisterProfessor(ctx context.Context, form portal.ProfessorForm) (portal.Registration, error) {
	raw, err := c.send(ctx, http.MethodPost, "/api/users/register/register-professor/", nil, form, c.text(i18n.ServerError))
	if err != nil {
		return portal.Registration{}, err
	}

	var reg portal.Registration
	return reg, decode(raw, &reg)
}

func (c Client) DeleteProfessor(ctx context.Context, id int) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/users/professors/%d/", id), nil, nil, c.text(i18n.ServerError))
	return err
}
