package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/panel"
	"github.com/jacobmichels/Course-Portal-Go/register"
)

func (s Server) coursesHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewCourses(env).Load(r.Context()))
	}
}

func (s Server) loginHistoryHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		view := panel.NewLoginHistory(env).Load(r.Context(), queryInt(r, "page"), queryInt(r, "page_size"))
		writeJSON(w, r, http.StatusOK, view)
	}
}

// Course manager

func (s Server) courseManagerHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewCourseManager(env).Load(r.Context()))
	}
}

// saveCourseHandler creates on POST and updates the course named in the path on PUT
func (s Server) saveCourseHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		var form portal.CourseForm
		if !s.decode(w, r, &form) {
			return
		}

		form.ID = 0
		if p.ByName("id") != "" {
			id, ok := s.pathID(w, r, p)
			if !ok {
				return
			}
			form.ID = id
		}

		view, err := panel.NewCourseManager(env).Save(r.Context(), form)
		s.respond(w, r, view, err)
	}
}

func (s Server) deleteCourseHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		id, ok := s.pathID(w, r, p)
		if !ok {
			return
		}

		view, err := panel.NewCourseManager(env).Delete(r.Context(), id)
		s.respond(w, r, view, err)
	}
}

// Prerequisites

func (s Server) prerequisitesHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewPrerequisiteManager(env).Load(r.Context()))
	}
}

func (s Server) createPrerequisiteHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		var form portal.PrerequisiteForm
		if !s.decode(w, r, &form) {
			return
		}

		view, err := panel.NewPrerequisiteManager(env).Create(r.Context(), form)
		s.respond(w, r, view, err)
	}
}

func (s Server) deletePrerequisiteHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		id, ok := s.pathID(w, r, p)
		if !ok {
			return
		}

		view, err := panel.NewPrerequisiteManager(env).Delete(r.Context(), id)
		s.respond(w, r, view, err)
	}
}

// Unit limit

func (s Server) unitLimitHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewUnitLimitManager(env).Load(r.Context()))
	}
}

func (s Server) saveUnitLimitHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		var form portal.UnitLimitForm
		if !s.decode(w, r, &form) {
			return
		}

		view, err := panel.NewUnitLimitManager(env).Save(r.Context(), form)
		s.respond(w, r, view, err)
	}
}

// Terms

func (s Server) termsHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewTermManager(env).Load(r.Context()))
	}
}

func (s Server) createTermHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		var form portal.TermForm
		if !s.decode(w, r, &form) {
			return
		}

		view, err := panel.NewTermManager(env).Create(r.Context(), form)
		s.respond(w, r, view, err)
	}
}

func (s Server) editTermHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		id, ok := s.pathID(w, r, p)
		if !ok {
			return
		}

		view, err := panel.NewTermManager(env).Edit(r.Context(), id)
		s.respond(w, r, view, err)
	}
}

func (s Server) updateTermHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		id, ok := s.pathID(w, r, p)
		if !ok {
			return
		}

		var form portal.TermForm
		if !s.decode(w, r, &form) {
			return
		}

		view, err := panel.NewTermManager(env).Update(r.Context(), id, form)
		s.respond(w, r, view, err)
	}
}

func (s Server) toggleTermHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		id, ok := s.pathID(w, r, p)
		if !ok {
			return
		}

		view, err := panel.NewTermManager(env).Toggle(r.Context(), id)
		s.respond(w, r, view, err)
	}
}

// Users

func (s Server) mode(w http.ResponseWriter, r *http.Request, p httprouter.Params) (register.Mode, bool) {
	mode, err := register.ParseMode(p.ByName("kind"))
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, i18n.InvalidInput)
		return "", false
	}
	return mode, true
}

func (s Server) usersHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		mode, ok := s.mode(w, r, p)
		if !ok {
			return
		}
		writeJSON(w, r, http.StatusOK, register.NewRegister(env).Load(r.Context(), mode))
	}
}

func (s Server) registerUserHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		mode, ok := s.mode(w, r, p)
		if !ok {
			return
		}

		reg := register.NewRegister(env)
		if mode == register.Professors {
			var form portal.ProfessorForm
			if !s.decode(w, r, &form) {
				return
			}
			view, err := reg.RegisterProfessor(r.Context(), form)
			s.respond(w, r, view, err)
			return
		}

		var form portal.StudentForm
		if !s.decode(w, r, &form) {
			return
		}
		view, err := reg.RegisterStudent(r.Context(), form)
		s.respond(w, r, view, err)
	}
}

func (s Server) deleteUserHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		mode, ok := s.mode(w, r, p)
		if !ok {
			return
		}
		id, ok := s.pathID(w, r, p)
		if !ok {
			return
		}

		view, err := register.NewRegister(env).Delete(r.Context(), mode, id)
		s.respond(w, r, view, err)
	}
}

// Course selection

func (s Server) courseSelectionHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewCourseSelection(env).Load(r.Context()))
	}
}

func (s Server) selectCourseHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		var form portal.SelectForm
		if !s.decode(w, r, &form) {
			return
		}

		view, err := panel.NewCourseSelection(env).Add(r.Context(), form)
		s.respond(w, r, view, err)
	}
}

func (s Server) dropCourseHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		var form portal.SelectForm
		if !s.decode(w, r, &form) {
			return
		}

		view, err := panel.NewCourseSelection(env).Remove(r.Context(), form)
		s.respond(w, r, view, err)
	}
}

func (s Server) finalizeHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		view, err := panel.NewCourseSelection(env).Finalize(r.Context())
		s.respond(w, r, view, err)
	}
}

func (s Server) weeklyScheduleHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewWeeklySchedule(env).Load(r.Context()))
	}
}

func (s Server) reportCardHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		writeJSON(w, r, http.StatusOK, panel.NewReportCard(env).Load(r.Context(), queryInt(r, "term_id")))
	}
}

// Professor roster

func (s Server) courseStudentsHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		view := panel.NewCourseStudents(env).Load(r.Context(), r.URL.Query().Get("course_code"))
		writeJSON(w, r, http.StatusOK, view)
	}
}

func (s Server) removeStudentHandler() panelHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, env panel.Env) {
		var form portal.RemoveStudentForm
		if !s.decode(w, r, &form) {
			return
		}

		view, err := panel.NewCourseStudents(env).Remove(r.Context(), form)
		s.respond(w, r, view, err)
	}
}
