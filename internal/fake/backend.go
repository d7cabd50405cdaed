// Package fake provides an in-memory registration backend for tests.
package fake

import (
	"context"
	"encoding/json"
	"sync"

	portal "github.com/jacobmichels/Course-Portal-Go"
)

var _ portal.Backend = (*Backend)(nil)

// Backend serves canned data. Set an Err field to make the matching calls fail and
// MutateErr to make every write fail.
type Backend struct {
	mu    sync.Mutex
	Calls []string

	Tokens   portal.Tokens
	LoginErr error
	User     portal.User

	CourseList    []portal.Course
	CoursesErr    error
	Catalog       []portal.CatalogCourse
	CatalogErr    error
	Prereqs       []portal.Prerequisite
	PrereqsErr    error
	Limit         *portal.UnitLimit
	LimitErr      error
	TermList      []portal.Term
	TermsErr      error
	StudentList   []portal.Student
	ProfessorList []portal.Professor
	ProfessorsErr error
	History       []portal.LoginHistoryEntry
	HistoryErr    error
	DraftList     []portal.Selection
	DraftErr      error
	Final         []portal.Selection
	ScheduleRaw   json.RawMessage
	ReportRaw     json.RawMessage
	Roster        []portal.RosterEntry
	RosterErr     error

	MutateErr error
	Payload   map[string]any
	LinkedIDs [2]int
	Saved     portal.UnitLimit
	SavedTerm portal.Term
	Active    bool
	Selected  []string
	Removed   []string
	Finalized portal.FinalizeResult
	Reg       portal.Registration
	Deleted   []int
	ReportFor int
}

func (b *Backend) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, call)
}

// Called reports how many times call was made
func (b *Backend) Called(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int
	for _, c := range b.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *Backend) Login(ctx context.Context, username, password string) (portal.Tokens, error) {
	b.record("Login")
	return b.Tokens, b.LoginErr
}

func (b *Backend) Refresh(ctx context.Context, refresh string) (portal.Tokens, error) {
	b.record("Refresh")
	return b.Tokens, b.LoginErr
}

func (b *Backend) Me(ctx context.Context) (portal.User, error) {
	b.record("Me")
	return b.User, nil
}

func (b *Backend) LoginHistory(ctx context.Context) ([]portal.LoginHistoryEntry, error) {
	b.record("LoginHistory")
	return append([]portal.LoginHistoryEntry(nil), b.History...), b.HistoryErr
}

func (b *Backend) Courses(ctx context.Context) ([]portal.Course, error) {
	b.record("Courses")
	return b.CourseList, b.CoursesErr
}

func (b *Backend) CatalogCourses(ctx context.Context) ([]portal.CatalogCourse, error) {
	b.record("CatalogCourses")
	return b.Catalog, b.CatalogErr
}

func (b *Backend) CreateCourse(ctx context.Context, payload map[string]any) (portal.Course, error) {
	b.record("CreateCourse")
	b.Payload = payload
	return portal.Course{}, b.MutateErr
}

func (b *Backend) UpdateCourse(ctx context.Context, id int, payload map[string]any) (portal.Course, error) {
	b.record("UpdateCourse")
	b.Payload = payload
	return portal.Course{ID: id}, b.MutateErr
}

func (b *Backend) DeleteCourse(ctx context.Context, id int) error {
	b.record("DeleteCourse")
	b.Deleted = append(b.Deleted, id)
	return b.MutateErr
}

func (b *Backend) Prerequisites(ctx context.Context) ([]portal.Prerequisite, error) {
	b.record("Prerequisites")
	return append([]portal.Prerequisite(nil), b.Prereqs...), b.PrereqsErr
}

func (b *Backend) CreatePrerequisite(ctx context.Context, course, prerequisite int) (portal.Prerequisite, error) {
	b.record("CreatePrerequisite")
	b.LinkedIDs = [2]int{course, prerequisite}
	return portal.Prerequisite{Course: course, Prerequisite: prerequisite}, b.MutateErr
}

func (b *Backend) DeletePrerequisite(ctx context.Context, id int) error {
	b.record("DeletePrerequisite")
	b.Deleted = append(b.Deleted, id)
	return b.MutateErr
}

func (b *Backend) UnitLimit(ctx context.Context) (*portal.UnitLimit, error) {
	b.record("UnitLimit")
	return b.Limit, b.LimitErr
}

func (b *Backend) SaveUnitLimit(ctx context.Context, limit portal.UnitLimit) (portal.UnitLimit, error) {
	b.record("SaveUnitLimit")
	b.Saved = limit
	return limit, b.MutateErr
}

func (b *Backend) Terms(ctx context.Context) ([]portal.Term, error) {
	b.record("Terms")
	return append([]portal.Term(nil), b.TermList...), b.TermsErr
}

func (b *Backend) Term(ctx context.Context, id int) (portal.Term, error) {
	b.record("Term")
	for _, t := range b.TermList {
		if t.ID == id {
			return t, nil
		}
	}
	return portal.Term{}, b.TermsErr
}

func (b *Backend) CreateTerm(ctx context.Context, term portal.Term) (portal.Term, error) {
	b.record("CreateTerm")
	b.SavedTerm = term
	return term, b.MutateErr
}

func (b *Backend) UpdateTerm(ctx context.Context, id int, term portal.Term) (portal.Term, error) {
	b.record("UpdateTerm")
	term.ID = id
	b.SavedTerm = term
	return term, b.MutateErr
}

func (b *Backend) ToggleTerm(ctx context.Context, id int) (bool, error) {
	b.record("ToggleTerm")
	return b.Active, b.MutateErr
}

func (b *Backend) Students(ctx context.Context) ([]portal.Student, error) {
	b.record("Students")
	return b.StudentList, nil
}

func (b *Backend) RegisterStudent(ctx context.Context, form portal.StudentForm) (portal.Registration, error) {
	b.record("RegisterStudent")
	return b.Reg, b.MutateErr
}

func (b *Backend) DeleteStudent(ctx context.Context, id int) error {
	b.record("DeleteStudent")
	b.Deleted = append(b.Deleted, id)
	return b.MutateErr
}

func (b *Backend) Professors(ctx context.Context) ([]portal.Professor, error) {
	b.record("Professors")
	return b.ProfessorList, b.ProfessorsErr
}

func (b *Backend) ProfessorOptions(ctx context.Context) ([]portal.Professor, error) {
	b.record("ProfessorOptions")
	return b.ProfessorList, b.ProfessorsErr
}

func (b *Backend) RegisterProfessor(ctx context.Context, form portal.ProfessorForm) (portal.Registration, error) {
	b.record("RegisterProfessor")
	return b.Reg, b.MutateErr
}

func (b *Backend) DeleteProfessor(ctx context.Context, id int) error {
	b.record("DeleteProfessor")
	b.Deleted = append(b.Deleted, id)
	return b.MutateErr
}

func (b *Backend) Draft(ctx context.Context) ([]portal.Selection, error) {
	b.record("Draft")
	return b.DraftList, b.DraftErr
}

func (b *Backend) SelectCourse(ctx context.Context, code string) error {
	b.record("SelectCourse")
	b.Selected = append(b.Selected, code)
	return b.MutateErr
}

func (b *Backend) DropCourse(ctx context.Context, code string) error {
	b.record("DropCourse")
	b.Removed = append(b.Removed, code)
	return b.MutateErr
}

func (b *Backend) Finalize(ctx context.Context) (portal.FinalizeResult, error) {
	b.record("Finalize")
	return b.Finalized, b.MutateErr
}

func (b *Backend) FinalSelections(ctx context.Context) ([]portal.Selection, error) {
	b.record("FinalSelections")
	return b.Final, nil
}

func (b *Backend) Schedule(ctx context.Context) (json.RawMessage, error) {
	b.record("Schedule")
	return b.ScheduleRaw, nil
}

func (b *Backend) ReportCard(ctx context.Context, termID int) (json.RawMessage, error) {
	b.record("ReportCard")
	b.ReportFor = termID
	return b.ReportRaw, nil
}

func (b *Backend) CourseStudents(ctx context.Context, courseCode string) ([]portal.RosterEntry, error) {
	b.record("CourseStudents")
	return b.Roster, b.RosterErr
}

func (b *Backend) RemoveStudent(ctx context.Context, courseCode, studentNumber string) error {
	b.record("RemoveStudent")
	b.Removed = append(b.Removed, courseCode+"/"+studentNumber)
	return b.MutateErr
}
