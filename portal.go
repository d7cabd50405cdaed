package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Domain types are defined in this file

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

func (r Role) Valid() error {
	switch r {
	case RoleAdmin, RoleStudent, RoleProfessor:
		return nil
	}
	return fmt.Errorf("unknown role %q", string(r))
}

// Tokens is the pair issued by the backend on login
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// Session binds a portal cookie (or the CLI) to the backend tokens of a logged in user.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s Session) Valid() error {
	if s.ID == "" {
		return errors.New("session id cannot be empty")
	}
	if s.AccessToken == "" {
		return errors.New("access token cannot be empty")
	}
	return s.Role.Valid()
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s Session) String() string {
	return fmt.Sprintf("%s:%s", s.Username, s.Role)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a backend date-time. Values without a zone are read as UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("failed to decode timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// TermRef is a course's term. The backend sends either the id or the nested term object.
type TermRef int

func (t *TermRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = 0
		return nil
	}

	switch b[0] {
	case '{':
		var obj struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("failed to decode term object: %w", err)
		}
		*t = TermRef(obj.ID)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*t = 0
			return nil
		}
		id, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid term id %q", s)
		}
		*t = TermRef(id)
	default:
		var id int
		if err := json.Unmarshal(b, &id); err != nil {
			return fmt.Errorf("failed to decode term id: %w", err)
		}
		*t = TermRef(id)
	}

	return nil
}

type Course struct {
	ID                       int     `json:"id"`
	Code                     string  `json:"code"`
	Name                     string  `json:"name"`
	Capacity                 int     `json:"capacity"`
	Units                    int     `json:"units"`
	Day                      string  `json:"day"`
	StartTime                string  `json:"start_time"`
	EndTime                  string  `json:"end_time"`
	Location                 string  `json:"location"`
	Term                     TermRef `json:"term"`
	ProfessorPersonnelNumber string  `json:"professor_personnel_number"`
	ProfessorName            string  `json:"professor_name"`
}

func (c Course) String() string {
	return fmt.Sprintf("%s %s", c.Code, c.Name)
}

// PrerequisiteCodes decodes the prerequisite list of a catalog course, which may hold
// plain codes or course objects.
type PrerequisiteCodes []string

func (p *PrerequisiteCodes) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("failed to decode prerequisites: %w", err)
	}

	codes := make(PrerequisiteCodes, 0, len(raw))
	for _, item := range raw {
		var code string
		if err := json.Unmarshal(item, &code); err == nil {
			codes = append(codes, code)
			continue
		}

		var obj struct {
			Code             string `json:"code"`
			PrerequisiteCode string `json:"prerequisite_code"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("failed to decode prerequisite: %w", err)
		}
		if obj.PrerequisiteCode != "" {
			code = obj.PrerequisiteCode
		} else {
			code = obj.Code
		}
		codes = append(codes, code)
	}

	*p = codes
	return nil
}

// CatalogCourse is a course as listed with its prerequisite codes
type CatalogCourse struct {
	Course
	Prerequisites PrerequisiteCodes `json:"prerequisites"`
}

// Prerequisite is an edge between a course and the course required before it
type Prerequisite struct {
	ID               int    `json:"id"`
	Course           int    `json:"course"`
	Prerequisite     int    `json:"prerequisite"`
	CourseCode       string `json:"course_code,omitempty"`
	PrerequisiteCode string `json:"prerequisite_code,omitempty"`
	CourseName       string `json:"course_name,omitempty"`
	PrerequisiteName string `json:"prerequisite_name,omitempty"`
}

type UnitLimit struct {
	MinUnits int `json:"min_units"`
	MaxUnits int `json:"max_units"`
}

// Allows reports whether total units fall in the limit. A zero bound is not enforced.
func (u UnitLimit) Allows(total int) bool {
	if u.MinUnits > 0 && total < u.MinUnits {
		return false
	}
	if u.MaxUnits > 0 && total > u.MaxUnits {
		return false
	}
	return true
}

type Term struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	StartSelection Timestamp `json:"start_selection"`
	EndSelection   Timestamp `json:"end_selection"`
	IsActive       bool      `json:"is_active"`
}

func (t Term) String() string {
	return t.Name
}

type Student struct {
	ID           int    `json:"id"`
	Number       string `json:"number"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	NationalCode string `json:"national_code,omitempty"`
}

func (s *Student) UnmarshalJSON(b []byte) error {
	type student Student
	var raw struct {
		student
		StudentNumber string `json:"student_number"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Student(raw.student)
	if s.Number == "" {
		s.Number = raw.StudentNumber
	}
	return nil
}

type Professor struct {
	ID        int    `json:"id"`
	Number    string `json:"number"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name,omitempty"`
}

func (p *Professor) UnmarshalJSON(b []byte) error {
	type professor Professor
	var raw struct {
		professor
		PersonnelNumber string `json:"personnel_number"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Professor(raw.professor)
	if p.Number == "" {
		p.Number = raw.PersonnelNumber
	}
	return nil
}

func (p Professor) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

// Registration is what the backend returns after creating a student or professor account
type Registration struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginHistoryEntry struct {
	ID            int       `json:"id"`
	LoginAt       Timestamp `json:"login_at"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent"`
	IsSuccess     bool      `json:"is_success"`
	FailureReason string    `json:"failure_reason"`
}

// Selection is one course in a student's draft or final list. Depending on the endpoint
// the course fields arrive either flat or with a course_ prefix.
type Selection struct {
	ID          int    `json:"id"`
	Course      int    `json:"course"`
	Code        string `json:"code"`
	CourseCode  string `json:"course_code"`
	Name        string `json:"name"`
	CourseName  string `json:"course_name"`
	Units       *int   `json:"units"`
	CourseUnits *int   `json:"course_units"`
	IsFinalized bool   `json:"is_finalized"`
}

func (s Selection) CodeValue() string {
	if s.Code != "" {
		return s.Code
	}
	return s.CourseCode
}

func (s Selection) NameValue() string {
	if s.Name != "" {
		return s.Name
	}
	return s.CourseName
}

func (s Selection) UnitsValue() int {
	if s.Units != nil {
		return *s.Units
	}
	if s.CourseUnits != nil {
		return *s.CourseUnits
	}
	return 0
}

// TotalUnits sums the units of a selection list
func TotalUnits(selections []Selection) int {
	var total int
	for _, s := range selections {
		total += s.UnitsValue()
	}
	return total
}

type FinalizeResult struct {
	Detail     string `json:"detail"`
	TotalUnits int    `json:"total_units"`
}

// RosterEntry is a student enrolled in one of a professor's courses
type RosterEntry struct {
	ID            int    `json:"id"`
	StudentNumber string `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	CourseName    string `json:"course_name"`
}

func (r *RosterEntry) UnmarshalJSON(b []byte) error {
	type entry RosterEntry
	var raw struct {
		entry
		Number string `json:"number"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = RosterEntry(raw.entry)
	if r.StudentNumber == "" {
		r.StudentNumber = raw.Number
	}
	if r.StudentNumber == "" && r.ID != 0 {
		r.StudentNumber = strconv.Itoa(r.ID)
	}
	return nil
}

// Service that authenticates against the backend
type AuthService interface {
	Login(ctx context.Context, username, password string) (Tokens, error)
	Refresh(ctx context.Context, refresh string) (Tokens, error)
	Me(ctx context.Context) (User, error)
	LoginHistory(ctx context.Context) ([]LoginHistoryEntry, error)
}

type CourseService interface {
	Courses(ctx context.Context) ([]Course, error)
	CatalogCourses(ctx context.Context) ([]CatalogCourse, error)
	CreateCourse(ctx context.Context, payload map[string]any) (Course, error)
	UpdateCourse(ctx context.Context, id int, payload map[string]any) (Course, error)
	DeleteCourse(ctx context.Context, id int) error
}

type PrerequisiteService interface {
	Prerequisites(ctx context.Context) ([]Prerequisite, error)
	CreatePrerequisite(ctx context.Context, course, prerequisite int) (Prerequisite, error)
	DeletePrerequisite(ctx context.Context, id int) error
}

type UnitLimitService interface {
	// UnitLimit returns nil when no limit has been created yet
	UnitLimit(ctx context.Context) (*UnitLimit, error)
	SaveUnitLimit(ctx context.Context, limit UnitLimit) (UnitLimit, error)
}

type TermService interface {
	Terms(ctx context.Context) ([]Term, error)
	Term(ctx context.Context, id int) (Term, error)
	CreateTerm(ctx context.Context, term Term) (Term, error)
	UpdateTerm(ctx context.Context, id int, term Term) (Term, error)
	ToggleTerm(ctx context.Context, id int) (bool, error)
}

type UserService interface {
	Students(ctx context.Context) ([]Student, error)
	RegisterStudent(ctx context.Context, form StudentForm) (Registration, error)
	DeleteStudent(ctx context.Context, id int) error
	Professors(ctx context.Context) ([]Professor, error)
	// ProfessorOptions lists professors for course assignment
	ProfessorOptions(ctx context.Context) ([]Professor, error)
	RegisterProfessor(ctx context.Context, form ProfessorForm) (Registration, error)
	DeleteProfessor(ctx context.Context, id int) error
}

type SelectionService interface {
	Draft(ctx context.Context) ([]Selection, error)
	SelectCourse(ctx context.Context, code string) error
	DropCourse(ctx context.Context, code string) error
	Finalize(ctx context.Context) (FinalizeResult, error)
	FinalSelections(ctx context.Context) ([]Selection, error)
	Schedule(ctx context.Context) (json.RawMessage, error)
	ReportCard(ctx context.Context, termID int) (json.RawMessage, error)
}

type ProfessorService interface {
	CourseStudents(ctx context.Context, courseCode string) ([]RosterEntry, error)
	RemoveStudent(ctx context.Context, courseCode, studentNumber string) error
}

// Backend is everything the portal needs from the registration backend
type Backend interface {
	AuthService
	CourseService
	PrerequisiteService
	UnitLimitService
	TermService
	UserService
	SelectionService
	ProfessorService
}

// Repository persists portal sessions
type Repository interface {
	SaveSession(context.Context, Session) error
	GetSession(context.Context, string) (Session, error)
	DeleteSession(context.Context, string) error
	DeleteExpiredSessions(context.Context, time.Time) (int, error)
}

type TriggerService interface {
	Trigger(context.Context) error
}
