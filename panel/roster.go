package panel

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

// CourseStudents lets a professor see and prune the students of a course
type CourseStudents struct {
	env Env
}

func NewCourseStudents(env Env) CourseStudents {
	return CourseStudents{env}
}

type CourseStudentsView struct {
	Courses    []portal.Course      `json:"courses"`
	CourseCode string               `json:"course_code,omitempty"`
	Students   []portal.RosterEntry `json:"students"`
	Message    *Message             `json:"message,omitempty"`
}

// Load lists the course options and, when courseCode is set, that course's students
func (c CourseStudents) Load(ctx context.Context, courseCode string) CourseStudentsView {
	view := CourseStudentsView{Courses: []portal.Course{}, Students: []portal.RosterEntry{}, CourseCode: strings.TrimSpace(courseCode)}

	courses, err := c.env.Backend.Courses(ctx)
	if err != nil {
		view.Message = c.env.LoadFailed(ctx, err, i18n.CoursesLoadFailed)
	} else {
		view.Courses = orEmpty(courses)
	}

	if view.CourseCode == "" {
		return view
	}

	students, err := c.env.Backend.CourseStudents(ctx, view.CourseCode)
	if err != nil {
		view.Message = c.env.LoadFailed(ctx, err, i18n.RosterLoadFailed)
		return view
	}
	view.Students = orEmpty(students)
	return view
}

func (c CourseStudents) Remove(ctx context.Context, form portal.RemoveStudentForm) (CourseStudentsView, error) {
	form.CourseCode = strings.TrimSpace(form.CourseCode)
	form.StudentNumber = strings.TrimSpace(form.StudentNumber)
	if err := c.env.Validator.Check(form); err != nil {
		return CourseStudentsView{}, c.env.Failure(err, i18n.InvalidInput)
	}

	if err := c.env.Backend.RemoveStudent(ctx, form.CourseCode, form.StudentNumber); err != nil {
		return CourseStudentsView{}, c.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("course", form.CourseCode).Str("student", form.StudentNumber).Msg("student removed from course")

	view := c.Load(ctx, form.CourseCode)
	if view.Message == nil {
		view.Message = c.env.Success(i18n.StudentRemoved)
	}
	return view, nil
}
