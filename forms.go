package portal

import (
	"strings"
	"time"
)

// Week days offered for a course, Saturday through Wednesday
var Weekdays = []string{"شنبه", "یکشنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه"}

var Locations = []string{"کلاس ۱۰۱", "کلاس ۱۰۲", "کلاس ۱۰۳", "کلاس ۲۰۱", "کلاس ۲۰۲", "کلاس ۲۰۳"}

// every slot is two hours long
var slots = map[string]string{
	"08:00": "10:00",
	"10:00": "12:00",
	"14:00": "16:00",
	"16:00": "18:00",
}

// StartTimes lists the start of each class slot in order
var StartTimes = []string{"08:00", "10:00", "14:00", "16:00"}

// EndTimeFor returns the end of the slot beginning at start
func EndTimeFor(start string) (string, bool) {
	end, ok := slots[ShortTime(start)]
	return end, ok
}

// ShortTime trims a backend time such as 08:00:00 to HH:MM.
func ShortTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// CourseForm is the admin's course editor. ID is zero when creating.
type CourseForm struct {
	ID                       int    `json:"id,omitempty"`
	Code                     string `json:"code" validate:"required,digits,len=7"`
	Name                     string `json:"name" validate:"required"`
	Term                     int    `json:"term" validate:"required"`
	Capacity                 *int   `json:"capacity" validate:"omitempty,min=20,max=60"`
	Units                    *int   `json:"units" validate:"omitempty,min=1,max=4"`
	Day                      string `json:"day"`
	StartTime                string `json:"start_time" validate:"omitempty,coursetime"`
	EndTime                  string `json:"end_time"`
	Location                 string `json:"location"`
	ProfessorPersonnelNumber string `json:"professor_personnel_number"`
}

// CourseFormFrom fills the editor from an existing course
func CourseFormFrom(c Course) CourseForm {
	return CourseForm{
		ID:                       c.ID,
		Code:                     c.Code,
		Name:                     c.Name,
		Term:                     int(c.Term),
		Capacity:                 optional(c.Capacity),
		Units:                    optional(c.Units),
		Day:                      c.Day,
		StartTime:                ShortTime(c.StartTime),
		EndTime:                  ShortTime(c.EndTime),
		Location:                 c.Location,
		ProfessorPersonnelNumber: c.ProfessorPersonnelNumber,
	}
}

// a zero from the backend means the field was never set
func optional(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// Normalize trims the text fields and fills the end time from the start time slot.
func (f CourseForm) Normalize() CourseForm {
	f.Code = strings.TrimSpace(f.Code)
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	f.ProfessorPersonnelNumber = strings.TrimSpace(f.ProfessorPersonnelNumber)
	f.StartTime = ShortTime(f.StartTime)
	f.EndTime = ShortTime(f.EndTime)
	if f.StartTime != "" && f.EndTime == "" {
		if end, ok := EndTimeFor(f.StartTime); ok {
			f.EndTime = end
		}
	}
	return f
}

// Payload is the request body for creating or updating the course.
// Optional fields are only sent when they hold a value.
func (f CourseForm) Payload() map[string]any {
	payload := map[string]any{
		"code": f.Code,
		"name": f.Name,
		"term": f.Term,
	}
	if f.Capacity != nil {
		payload["capacity"] = *f.Capacity
	}
	if f.Units != nil {
		payload["units"] = *f.Units
	}
	if f.Day != "" {
		payload["day"] = f.Day
	}
	if f.StartTime != "" {
		payload["start_time"] = f.StartTime
	}
	if f.EndTime != "" {
		payload["end_time"] = f.EndTime
	}
	if f.Location != "" {
		payload["location"] = f.Location
	}
	if f.ProfessorPersonnelNumber != "" {
		payload["professor_personnel_number"] = f.ProfessorPersonnelNumber
	}
	return payload
}

type PrerequisiteForm struct {
	CourseCode       string `json:"course_code" validate:"required"`
	PrerequisiteCode string `json:"prerequisite_code" validate:"required,nefield=CourseCode"`
}

type UnitLimitForm struct {
	MinUnits *int `json:"min_units" validate:"required,min=0"`
	MaxUnits *int `json:"max_units" validate:"required,min=0"`
}

func (f UnitLimitForm) Limit() UnitLimit {
	var l UnitLimit
	if f.MinUnits != nil {
		l.MinUnits = *f.MinUnits
	}
	if f.MaxUnits != nil {
		l.MaxUnits = *f.MaxUnits
	}
	return l
}

type TermForm struct {
	Name           string    `json:"name" validate:"required"`
	StartSelection time.Time `json:"start_selection" validate:"required"`
	EndSelection   time.Time `json:"end_selection" validate:"required,gtefield=StartSelection"`
	IsActive       bool      `json:"is_active"`
}

// TermFormFrom fills the editor from an existing term
func TermFormFrom(t Term) TermForm {
	return TermForm{
		Name:           t.Name,
		StartSelection: t.StartSelection.Time,
		EndSelection:   t.EndSelection.Time,
		IsActive:       t.IsActive,
	}
}

func (f TermForm) Term() Term {
	return Term{
		Name:           strings.TrimSpace(f.Name),
		StartSelection: Timestamp{f.StartSelection},
		EndSelection:   Timestamp{f.EndSelection},
		IsActive:       f.IsActive,
	}
}

type StudentForm struct {
	StudentNumber string `json:"student_number" validate:"required,digits,len=8"`
	NationalCode  string `json:"national_code" validate:"required,digits,len=10"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
}

type ProfessorForm struct {
	PersonnelNumber string `json:"personnel_number" validate:"required,digits,len=8"`
	NationalCode    string `json:"national_code" validate:"required,digits,len=10"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
}

type SelectForm struct {
	CourseCode string `json:"course_code" validate:"required"`
}

type RemoveStudentForm struct {
	CourseCode    string `json:"course_code" validate:"required"`
	StudentNumber string `json:"student_number" validate:"required"`
}

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
