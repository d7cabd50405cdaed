package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/panel"
)

func TestFor(t *testing.T) {
	admin, err := For(portal.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admin.Panels, 7)
	assert.Equal(t, panel.CourseManagerID, admin.Panels[0])

	student, err := For(portal.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, []panel.ID{
		panel.CourseSelectionID, panel.CoursesID, panel.WeeklyScheduleID, panel.ReportCardID, panel.LoginHistoryID,
	}, student.Panels)

	professor, err := For(portal.RoleProfessor)
	require.NoError(t, err)
	assert.Equal(t, []panel.ID{panel.CourseStudentsID, panel.CoursesID, panel.LoginHistoryID}, professor.Panels)

	_, err = For(portal.Role("guest"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestForReturnsCopy(t *testing.T) {
	d, err := For(portal.RoleProfessor)
	require.NoError(t, err)
	d.Panels[0] = panel.UnitLimitID

	again, err := For(portal.RoleProfessor)
	require.NoError(t, err)
	assert.Equal(t, panel.CourseStudentsID, again.Panels[0])
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(portal.RoleAdmin, panel.TermsID))
	assert.False(t, Allows(portal.RoleStudent, panel.TermsID))
	assert.False(t, Allows(portal.RoleProfessor, panel.CourseSelectionID))
	assert.True(t, Allows(portal.RoleProfessor, panel.LoginHistoryID))
	assert.False(t, Allows(portal.Role(""), panel.CoursesID))
}
