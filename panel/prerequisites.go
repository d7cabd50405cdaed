package panel

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

type PrerequisiteManager struct {
	env Env
}

func NewPrerequisiteManager(env Env) PrerequisiteManager {
	return PrerequisiteManager{env}
}

type PrerequisiteView struct {
	Courses       []portal.Course       `json:"courses"`
	Prerequisites []portal.Prerequisite `json:"prerequisites"`
	Message       *Message              `json:"message,omitempty"`
}

// Load fetches the courses first, since prerequisite rows are labelled from them
func (m PrerequisiteManager) Load(ctx context.Context) PrerequisiteView {
	view := PrerequisiteView{Courses: []portal.Course{}, Prerequisites: []portal.Prerequisite{}}

	courses, err := m.env.Backend.Courses(ctx)
	if err != nil {
		view.Message = m.env.LoadFailed(ctx, err, i18n.CoursesLoadFailed)
		return view
	}
	view.Courses = orEmpty(courses)

	prerequisites, err := m.env.Backend.Prerequisites(ctx)
	if err != nil {
		view.Message = m.env.LoadFailed(ctx, err, i18n.PrerequisitesLoadFailed)
		return view
	}
	view.Prerequisites = label(orEmpty(prerequisites), courses)

	return view
}

// label fills in codes and names the backend left out
func label(prerequisites []portal.Prerequisite, courses []portal.Course) []portal.Prerequisite {
	byID := make(map[int]portal.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	for i, p := range prerequisites {
		if c, ok := byID[p.Course]; ok {
			if p.CourseCode == "" {
				prerequisites[i].CourseCode = c.Code
			}
			if p.CourseName == "" {
				prerequisites[i].CourseName = c.Name
			}
		}
		if c, ok := byID[p.Prerequisite]; ok {
			if p.PrerequisiteCode == "" {
				prerequisites[i].PrerequisiteCode = c.Code
			}
			if p.PrerequisiteName == "" {
				prerequisites[i].PrerequisiteName = c.Name
			}
		}
	}
	return prerequisites
}

// Create links two courses given by code. Both codes must belong to known courses.
func (m PrerequisiteManager) Create(ctx context.Context, form portal.PrerequisiteForm) (PrerequisiteView, error) {
	form.CourseCode = strings.TrimSpace(form.CourseCode)
	form.PrerequisiteCode = strings.TrimSpace(form.PrerequisiteCode)
	if err := m.env.Validator.Check(form); err != nil {
		return PrerequisiteView{}, m.env.Failure(err, i18n.InvalidInput)
	}

	courses, err := m.env.Backend.Courses(ctx)
	if err != nil {
		return PrerequisiteView{}, m.env.Failure(err, i18n.CoursesLoadFailed)
	}

	course, okCourse := findCourse(courses, form.CourseCode)
	prerequisite, okPrerequisite := findCourse(courses, form.PrerequisiteCode)
	if !okCourse || !okPrerequisite {
		return PrerequisiteView{}, m.env.Rejected(i18n.UnknownCourseCode)
	}

	if _, err := m.env.Backend.CreatePrerequisite(ctx, course.ID, prerequisite.ID); err != nil {
		return PrerequisiteView{}, m.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("course", course.Code).Str("prerequisite", prerequisite.Code).Msg("prerequisite created")

	view := m.Load(ctx)
	if view.Message == nil {
		view.Message = m.env.Success(i18n.PrerequisiteCreated)
	}
	return view, nil
}

func (m PrerequisiteManager) Delete(ctx context.Context, id int) (PrerequisiteView, error) {
	if err := m.env.Backend.DeletePrerequisite(ctx, id); err != nil {
		return PrerequisiteView{}, m.env.Failure(err, i18n.ServerError)
	}

	view := m.Load(ctx)
	if view.Message == nil {
		view.Message = m.env.Success(i18n.PrerequisiteDeleted)
	}
	return view, nil
}

func findCourse(courses []portal.Course, code string) (portal.Course, bool) {
	for _, c := range courses {
		if c.Code == code {
			return c, true
		}
	}
	return portal.Course{}, false
}
