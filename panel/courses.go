package panel

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

// Courses is the read-only course list shown on every dashboard
type Courses struct {
	env Env
}

func NewCourses(env Env) Courses {
	return Courses{env}
}

type CoursesView struct {
	Courses []portal.Course `json:"courses"`
	Message *Message        `json:"message,omitempty"`
}

func (c Courses) Load(ctx context.Context) CoursesView {
	courses, err := c.env.Backend.Courses(ctx)
	if err != nil {
		return CoursesView{Courses: []portal.Course{}, Message: c.env.LoadFailed(ctx, err, i18n.CoursesLoadFailed)}
	}
	return CoursesView{Courses: orEmpty(courses)}
}

// CourseManager is the admin's course editor
type CourseManager struct {
	env Env
}

func NewCourseManager(env Env) CourseManager {
	return CourseManager{env}
}

// CourseOptions are the fixed choices of the course form
type CourseOptions struct {
	Days       []string          `json:"days"`
	StartTimes []string          `json:"start_times"`
	EndTimes   map[string]string `json:"end_times"`
	Locations  []string          `json:"locations"`
}

type CourseManagerView struct {
	Courses    []portal.Course    `json:"courses"`
	Terms      []portal.Term      `json:"terms"`
	Professors []portal.Professor `json:"professors"`
	Options    CourseOptions      `json:"options"`
	Message    *Message           `json:"message,omitempty"`
}

func courseOptions() CourseOptions {
	ends := make(map[string]string, len(portal.StartTimes))
	for _, start := range portal.StartTimes {
		ends[start], _ = portal.EndTimeFor(start)
	}
	return CourseOptions{
		Days:       portal.Weekdays,
		StartTimes: portal.StartTimes,
		EndTimes:   ends,
		Locations:  portal.Locations,
	}
}

// Load fetches courses, terms and professors together. Only the course list is
// required, the other two fall back to empty lists.
func (m CourseManager) Load(ctx context.Context) CourseManagerView {
	var (
		courses              []portal.Course
		terms                []portal.Term
		professors           []portal.Professor
		coursesErr, termsErr error
		professorsErr        error
	)

	var g errgroup.Group
	g.Go(func() error {
		courses, coursesErr = m.env.Backend.Courses(ctx)
		return nil
	})
	g.Go(func() error {
		terms, termsErr = m.env.Backend.Terms(ctx)
		return nil
	})
	g.Go(func() error {
		professors, professorsErr = m.env.Backend.ProfessorOptions(ctx)
		return nil
	})
	_ = g.Wait()

	if termsErr != nil {
		log.Ctx(ctx).Warn().Err(termsErr).Msg("failed to load terms, continuing without them")
		terms = nil
	}
	if professorsErr != nil {
		log.Ctx(ctx).Warn().Err(professorsErr).Msg("failed to load professors, continuing without them")
		professors = nil
	}

	view := CourseManagerView{
		Courses:    orEmpty(courses),
		Terms:      orEmpty(terms),
		Professors: orEmpty(professors),
		Options:    courseOptions(),
	}
	if coursesErr != nil {
		view.Courses = []portal.Course{}
		view.Message = m.env.LoadFailed(ctx, coursesErr, i18n.CoursesLoadFailed)
	}

	return view
}

// Save creates the course, or updates it when the form has an id
func (m CourseManager) Save(ctx context.Context, form portal.CourseForm) (CourseManagerView, error) {
	form = form.Normalize()
	if err := m.env.Validator.Check(form); err != nil {
		return CourseManagerView{}, m.env.Failure(err, i18n.InvalidInput)
	}

	key := i18n.CourseCreated
	var err error
	if form.ID == 0 {
		_, err = m.env.Backend.CreateCourse(ctx, form.Payload())
	} else {
		key = i18n.CourseUpdated
		_, err = m.env.Backend.UpdateCourse(ctx, form.ID, form.Payload())
	}
	if err != nil {
		return CourseManagerView{}, m.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("code", form.Code).Msg("course saved")

	view := m.Load(ctx)
	if view.Message == nil {
		view.Message = m.env.Success(key, form.Code)
	}
	return view, nil
}

func (m CourseManager) Delete(ctx context.Context, id int) (CourseManagerView, error) {
	if err := m.env.Backend.DeleteCourse(ctx, id); err != nil {
		return CourseManagerView{}, m.env.Failure(err, i18n.CourseDeleteFailed)
	}

	log.Ctx(ctx).Info().Int("id", id).Msg("course deleted")

	view := m.Load(ctx)
	if view.Message == nil {
		view.Message = m.env.Success(i18n.CourseDeleted)
	}
	return view, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
