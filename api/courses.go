package api

import (
	"context"
	"net/http"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

func (c Client) Courses(ctx context.Context) ([]portal.Course, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/courses/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var courses []portal.Course
	return courses, decodeList(raw, &courses)
}

func (c Client) CatalogCourses(ctx context.Context) ([]portal.CatalogCourse, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/courses-with-prerequisites/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var courses []portal.CatalogCourse
	return courses, decodeList(raw, &courses)
}

func (c Client) CreateCourse(ctx context.Context, payload map[string]any) (portal.Course, error) {
	raw, err := c.send(ctx, http.MethodPost, "/api/courses/", nil, payload, c.text(i18n.ServerError))
	if err != nil {
		return portal.Course{}, err
	}

	var course portal.Course
	return course, decode(raw, &course)
}

func (c Client) UpdateCourse(ctx context.Context, id int, payload map[string]any) (portal.Course, error) {
	raw, err := c.send(ctx, http.MethodPut, idPath("/api/courses/%d/", id), nil, payload, c.text(i18n.ServerError))
	if err != nil {
		return portal.Course{}, err
	}

	var course portal.Course
	return course, decode(raw, &course)
}

func (c Client) DeleteCourse(ctx context.Context, id int) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/courses/%d/", id), nil, nil, c.text(i18n.CourseDeleteFailed))
	return err
}

func (c Client) Prerequisites(ctx context.Context) ([]portal.Prerequisite, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/prerequisites/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var prerequisites []portal.Prerequisite
	return prerequisites, decodeList(raw, &prerequisites)
}

func (c Client) CreatePrerequisite(ctx context.Context, course, prerequisite int) (portal.Prerequisite, error) {
	body := map[string]int{"course": course, "prerequisite": prerequisite}
	raw, err := c.send(ctx, http.MethodPost, "/api/prerequisites/", nil, body, c.text(i18n.ServerError))
	if err != nil {
		return portal.Prerequisite{}, err
	}

	var p portal.Prerequisite
	return p, decode(raw, &p)
}

func (c Client) DeletePrerequisite(ctx context.Context, id int) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/prerequisites/%d/", id), nil, nil, c.text(i18n.ServerError))
	return err
}

// UnitLimit returns nil when the backend has no limit yet
func (c Client) UnitLimit(ctx context.Context) (*portal.UnitLimit, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/unit-limit/", nil, nil, c.text(i18n.ServerError))
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var limit portal.UnitLimit
	if err := decode(raw, &limit); err != nil {
		return nil, err
	}
	return &limit, nil
}

// SaveUnitLimit creates the limit or updates the existing one
func (c Client) SaveUnitLimit(ctx context.Context, limit portal.UnitLimit) (portal.UnitLimit, error) {
	raw, err := c.send(ctx, http.MethodPost, "/api/unit-limit/", nil, limit, c.text(i18n.ServerError))
	if err != nil {
		return portal.UnitLimit{}, err
	}

	saved := limit
	return saved, decode(raw, &saved)
}
