package panel

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

// CourseSelection is the student's draft and final course list
type CourseSelection struct {
	env Env
}

func NewCourseSelection(env Env) CourseSelection {
	return CourseSelection{env}
}

type CourseSelectionView struct {
	Courses     []portal.CatalogCourse `json:"courses"`
	Draft       []portal.Selection     `json:"draft"`
	Final       []portal.Selection     `json:"final"`
	Limit       *portal.UnitLimit      `json:"limit"`
	TotalUnits  int                    `json:"total_units"`
	WithinLimit bool                   `json:"within_limit"`
	// CanFinalize is true for a non-empty draft within the unit limit
	CanFinalize bool     `json:"can_finalize"`
	Message     *Message `json:"message,omitempty"`
}

func (v *CourseSelectionView) setDraft(draft []portal.Selection) {
	v.Draft = orEmpty(draft)
	v.TotalUnits = portal.TotalUnits(v.Draft)

	v.WithinLimit = true
	if v.Limit != nil {
		v.WithinLimit = v.Limit.Allows(v.TotalUnits)
	}
	v.CanFinalize = len(v.Draft) > 0 && v.WithinLimit
}

// Load fetches the catalog, the draft, the final list and the unit limit together
func (s CourseSelection) Load(ctx context.Context) CourseSelectionView {
	var (
		courses []portal.CatalogCourse
		draft   []portal.Selection
		final   []portal.Selection
		limit   *portal.UnitLimit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		courses, err = s.env.Backend.CatalogCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		draft, err = s.env.Backend.Draft(gctx)
		return err
	})
	g.Go(func() (err error) {
		final, err = s.env.Backend.FinalSelections(gctx)
		return err
	})
	g.Go(func() (err error) {
		limit, err = s.env.Backend.UnitLimit(gctx)
		return err
	})

	view := CourseSelectionView{Courses: []portal.CatalogCourse{}, Final: []portal.Selection{}}
	if err := g.Wait(); err != nil {
		view.setDraft(nil)
		view.Message = s.env.LoadFailed(ctx, err, i18n.DraftLoadFailed)
		return view
	}

	view.Courses = orEmpty(courses)
	view.Final = orEmpty(final)
	view.Limit = limit
	view.setDraft(draft)
	return view
}

func (s CourseSelection) Add(ctx context.Context, form portal.SelectForm) (CourseSelectionView, error) {
	form.CourseCode = strings.TrimSpace(form.CourseCode)
	if err := s.env.Validator.Check(form); err != nil {
		return CourseSelectionView{}, s.env.Failure(err, i18n.InvalidInput)
	}

	if err := s.env.Backend.SelectCourse(ctx, form.CourseCode); err != nil {
		return CourseSelectionView{}, s.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("code", form.CourseCode).Msg("course added to draft")
	return s.reloadDraft(ctx, i18n.CourseSelected), nil
}

func (s CourseSelection) Remove(ctx context.Context, form portal.SelectForm) (CourseSelectionView, error) {
	form.CourseCode = strings.TrimSpace(form.CourseCode)
	if err := s.env.Validator.Check(form); err != nil {
		return CourseSelectionView{}, s.env.Failure(err, i18n.InvalidInput)
	}

	if err := s.env.Backend.DropCourse(ctx, form.CourseCode); err != nil {
		return CourseSelectionView{}, s.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Str("code", form.CourseCode).Msg("course removed from draft")
	return s.reloadDraft(ctx, i18n.CourseDropped), nil
}

// Finalize submits the draft. It is refused locally when the draft is empty or its
// units fall outside the limit.
func (s CourseSelection) Finalize(ctx context.Context) (CourseSelectionView, error) {
	current := s.Load(ctx)
	if current.Message != nil {
		return CourseSelectionView{}, &Failure{Status: http.StatusBadGateway, Message: *current.Message}
	}
	if len(current.Draft) == 0 {
		return CourseSelectionView{}, s.env.Rejected(i18n.DraftEmpty)
	}
	if !current.WithinLimit {
		return CourseSelectionView{}, s.env.Rejected(i18n.UnitsOutOfRange,
			strconv.Itoa(current.Limit.MinUnits), strconv.Itoa(current.Limit.MaxUnits))
	}

	res, err := s.env.Backend.Finalize(ctx)
	if err != nil {
		return CourseSelectionView{}, s.env.Failure(err, i18n.ServerError)
	}

	log.Ctx(ctx).Info().Int("units", res.TotalUnits).Msg("selection finalized")

	view := s.Load(ctx)
	if view.Message == nil {
		view.Message = s.env.Success(i18n.SelectionFinalized, strconv.Itoa(res.TotalUnits))
	}
	return view, nil
}

// reloadDraft refreshes the whole view after the draft changed
func (s CourseSelection) reloadDraft(ctx context.Context, key string) CourseSelectionView {
	view := s.Load(ctx)
	if view.Message == nil {
		view.Message = s.env.Success(key)
	}
	return view
}
