package server

import (
	"github.com/julienschmidt/httprouter"

	"github.com/jacobmichels/Course-Portal-Go/panel"
)

// Routes
//
//	public        GET /ping, GET /trigger, POST /login, POST /logout
//	any role      GET /me, GET /dashboard, GET /courses, GET /login-history
//	admin         /course-manager, /prerequisites, /unit-limit, /terms, /users/:kind
//	student       /course-selection, /weekly-schedule, /report-card
//	professor     /course-students
func (s Server) routes(r *httprouter.Router) {
	r.GET("/ping", s.pingHandler())
	r.GET("/trigger", s.triggerHandler())
	r.POST("/login", s.loginHandler())
	r.POST("/logout", s.logoutHandler())

	r.GET("/me", s.authed(s.meHandler()))
	r.GET("/dashboard", s.authed(s.dashboardHandler()))

	r.GET("/courses", s.panel(panel.CoursesID, s.coursesHandler()))
	r.GET("/login-history", s.panel(panel.LoginHistoryID, s.loginHistoryHandler()))

	r.GET("/course-manager", s.panel(panel.CourseManagerID, s.courseManagerHandler()))
	r.POST("/course-manager/courses", s.panel(panel.CourseManagerID, s.saveCourseHandler()))
	r.PUT("/course-manager/courses/:id", s.panel(panel.CourseManagerID, s.saveCourseHandler()))
	r.DELETE("/course-manager/courses/:id", s.panel(panel.CourseManagerID, s.deleteCourseHandler()))

	r.GET("/prerequisites", s.panel(panel.PrerequisitesID, s.prerequisitesHandler()))
	r.POST("/prerequisites", s.panel(panel.PrerequisitesID, s.createPrerequisiteHandler()))
	r.DELETE("/prerequisites/:id", s.panel(panel.PrerequisitesID, s.deletePrerequisiteHandler()))

	r.GET("/unit-limit", s.panel(panel.UnitLimitID, s.unitLimitHandler()))
	r.POST("/unit-limit", s.panel(panel.UnitLimitID, s.saveUnitLimitHandler()))

	r.GET("/terms", s.panel(panel.TermsID, s.termsHandler()))
	r.POST("/terms", s.panel(panel.TermsID, s.createTermHandler()))
	r.GET("/terms/:id", s.panel(panel.TermsID, s.editTermHandler()))
	r.PUT("/terms/:id", s.panel(panel.TermsID, s.updateTermHandler()))
	r.POST("/terms/:id/toggle", s.panel(panel.TermsID, s.toggleTermHandler()))

	r.GET("/users/:kind", s.panel(panel.UsersID, s.usersHandler()))
	r.POST("/users/:kind", s.panel(panel.UsersID, s.registerUserHandler()))
	r.DELETE("/users/:kind/:id", s.panel(panel.UsersID, s.deleteUserHandler()))

	r.GET("/course-selection", s.panel(panel.CourseSelectionID, s.courseSelectionHandler()))
	r.POST("/course-selection/select", s.panel(panel.CourseSelectionID, s.selectCourseHandler()))
	r.POST("/course-selection/drop", s.panel(panel.CourseSelectionID, s.dropCourseHandler()))
	r.POST("/course-selection/finalize", s.panel(panel.CourseSelectionID, s.finalizeHandler()))

	r.GET("/weekly-schedule", s.panel(panel.WeeklyScheduleID, s.weeklyScheduleHandler()))
	r.GET("/report-card", s.panel(panel.ReportCardID, s.reportCardHandler()))

	r.GET("/course-students", s.panel(panel.CourseStudentsID, s.courseStudentsHandler()))
	r.POST("/course-students/remove", s.panel(panel.CourseStudentsID, s.removeStudentHandler()))
}
