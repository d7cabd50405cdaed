// Package dashboard maps a logged in role to the panels it may open.
package dashboard

import (
	"errors"
	"fmt"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/panel"
)

var ErrUnknownRole = errors.New("unknown role")

type Dashboard struct {
	Role   portal.Role `json:"role"`
	Title  string      `json:"title"`
	Panels []panel.ID  `json:"panels"`
}

var dashboards = map[portal.Role]Dashboard{
	portal.RoleAdmin: {
		Role:  portal.RoleAdmin,
		Title: "Admin dashboard",
		Panels: []panel.ID{
			panel.CourseManagerID,
			panel.CoursesID,
			panel.PrerequisitesID,
			panel.UnitLimitID,
			panel.UsersID,
			panel.TermsID,
			panel.LoginHistoryID,
		},
	},
	portal.RoleStudent: {
		Role:  portal.RoleStudent,
		Title: "Student dashboard",
		Panels: []panel.ID{
			panel.CourseSelectionID,
			panel.CoursesID,
			panel.WeeklyScheduleID,
			panel.ReportCardID,
			panel.LoginHistoryID,
		},
	},
	portal.RoleProfessor: {
		Role:  portal.RoleProfessor,
		Title: "Professor dashboard",
		Panels: []panel.ID{
			panel.CourseStudentsID,
			panel.CoursesID,
			panel.LoginHistoryID,
		},
	},
}

func For(role portal.Role) (Dashboard, error) {
	d, ok := dashboards[role]
	if !ok {
		return Dashboard{}, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
	}

	d.Panels = append([]panel.ID(nil), d.Panels...)
	return d, nil
}

// Allows reports whether the role's dashboard contains the panel
func Allows(role portal.Role, id panel.ID) bool {
	d, ok := dashboards[role]
	if !ok {
		return false
	}
	for _, p := range d.Panels {
		if p == id {
			return true
		}
	}
	return false
}
