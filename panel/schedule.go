package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

type WeeklySchedule struct {
	env Env
}

func NewWeeklySchedule(env Env) WeeklySchedule {
	return WeeklySchedule{env}
}

type ScheduleView struct {
	Table   Table    `json:"table"`
	Message *Message `json:"message,omitempty"`
}

func (s WeeklySchedule) Load(ctx context.Context) ScheduleView {
	raw, err := s.env.Backend.Schedule(ctx)
	if err != nil {
		return ScheduleView{Table: emptyTable(), Message: s.env.LoadFailed(ctx, err, i18n.ScheduleLoadFailed)}
	}

	rows, err := scheduleRows(raw)
	if err != nil {
		return ScheduleView{Table: emptyTable(), Message: s.env.LoadFailed(ctx, err, i18n.ScheduleLoadFailed)}
	}
	return ScheduleView{Table: buildTable(rows, scheduleColumns)}
}

// scheduleRows accepts a list, a {"results": [...]} page or a map of day to classes.
// Classes from a day map get a day column.
func scheduleRows(raw json.RawMessage) ([]row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return parseRows(trimmed)
	}

	obj, err := parseRow(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	if results, ok := obj.values["results"]; ok {
		return parseRows(results)
	}

	var rows []row
	for _, day := range obj.keys {
		value := bytes.TrimSpace(obj.values[day])
		if len(value) == 0 || value[0] != '[' {
			continue
		}
		classes, err := parseRows(value)
		if err != nil {
			return nil, err
		}
		for _, class := range classes {
			if _, ok := class.values["day"]; !ok {
				class.keys = append([]string{"day"}, class.keys...)
				class.values["day"], _ = json.Marshal(day)
			}
			rows = append(rows, class)
		}
	}
	return rows, nil
}

type ReportCard struct {
	env Env
}

func NewReportCard(env Env) ReportCard {
	return ReportCard{env}
}

type ReportCardView struct {
	Terms   []portal.Term `json:"terms"`
	TermID  int           `json:"term_id,omitempty"`
	Term    string        `json:"term,omitempty"`
	GPA     *float64      `json:"gpa,omitempty"`
	Table   Table         `json:"table"`
	Message *Message      `json:"message,omitempty"`
}

// Load fetches the term picker and the report card of termID. Zero asks for the
// backend's default term.
func (r ReportCard) Load(ctx context.Context, termID int) ReportCardView {
	view := ReportCardView{Terms: []portal.Term{}, TermID: termID, Table: emptyTable()}

	terms, err := r.env.Backend.Terms(ctx)
	if err != nil {
		view.Message = r.env.LoadFailed(ctx, err, i18n.TermsLoadFailed)
	} else {
		view.Terms = orEmpty(terms)
	}

	raw, err := r.env.Backend.ReportCard(ctx, termID)
	if err != nil {
		view.Message = r.env.LoadFailed(ctx, err, i18n.ReportCardLoadFailed)
		return view
	}

	card, err := parseReportCard(raw)
	if err != nil {
		view.Message = r.env.LoadFailed(ctx, err, i18n.ReportCardLoadFailed)
		return view
	}

	view.Table = buildTable(card.rows, reportCardColumns)
	view.Term = card.term
	view.GPA = card.gpa
	return view
}

type reportCard struct {
	rows []row
	term string
	gpa  *float64
}

// parseReportCard accepts a list, a {"results": [...]} page or the
// {"term", "courses", "gpa"} summary
func parseReportCard(raw json.RawMessage) (reportCard, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return reportCard{}, nil
	}
	if trimmed[0] == '[' {
		rows, err := parseRows(trimmed)
		return reportCard{rows: rows}, err
	}

	obj, err := parseRow(trimmed)
	if err != nil {
		return reportCard{}, fmt.Errorf("failed to decode report card: %w", err)
	}

	var card reportCard
	if results, ok := obj.values["results"]; ok {
		card.rows, err = parseRows(results)
		return card, err
	}

	if courses, ok := obj.values["courses"]; ok {
		if card.rows, err = parseRows(courses); err != nil {
			return card, err
		}
	}
	if term, ok := obj.values["term"]; ok {
		card.term = cell(term)
	}
	if gpa, ok := obj.values["gpa"]; ok {
		var v float64
		if err := json.Unmarshal(gpa, &v); err == nil {
			card.gpa = &v
		}
	}
	return card, nil
}

func emptyTable() Table {
	return Table{Columns: []string{}, Rows: [][]string{}}
}
