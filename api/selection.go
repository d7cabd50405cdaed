package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

func (c Client) Draft(ctx context.Context) ([]portal.Selection, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/selection/selections/draft/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var draft []portal.Selection
	return draft, decodeList(raw, &draft)
}

func (c Client) SelectCourse(ctx context.Context, code string) error {
	body := map[string]string{"course_code": code}
	_, err := c.send(ctx, http.MethodPost, "/api/selection/selections/select-course/", nil, body, c.text(i18n.ServerError))
	return err
}

func (c Client) DropCourse(ctx context.Context, code string) error {
	body := map[string]string{"course_code": code}
	_, err := c.send(ctx, http.MethodDelete, "/api/selection/selections/select-course/", nil, body, c.text(i18n.ServerError))
	return err
}

func (c Client) Finalize(ctx context.Context) (portal.FinalizeResult, error) {
	raw, err := c.send(ctx, http.MethodPost, "/api/selection/selections/finalize/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return portal.FinalizeResult{}, err
	}

	var res portal.FinalizeResult
	return res, decode(raw, &res)
}

func (c Client) FinalSelections(ctx context.Context) ([]portal.Selection, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/selection/selections/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var final []portal.Selection
	return final, decodeList(raw, &final)
}

// Schedule returns the raw weekly schedule, whose shape differs between backend versions
func (c Client) Schedule(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/selection/selections/schedule/", nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c Client) ReportCard(ctx context.Context, termID int) (json.RawMessage, error) {
	var query url.Values
	if termID > 0 {
		query = url.Values{"term_id": {strconv.Itoa(termID)}}
	}

	raw, err := c.send(ctx, http.MethodGet, "/api/selection/selections/report-card/", query, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c Client) CourseStudents(ctx context.Context, courseCode string) ([]portal.RosterEntry, error) {
	raw, err := c.send(ctx, http.MethodGet, codePath("/api/selection/professor/%s/students/", courseCode), nil, nil, c.text(i18n.ServerError))
	if err != nil {
		return nil, err
	}

	var roster []portal.RosterEntry
	return roster, decodeList(raw, &roster)
}

func (c Client) RemoveStudent(ctx context.Context, courseCode, studentNumber string) error {
	query := url.Values{"student_number": {studentNumber}}
	_, err := c.send(ctx, http.MethodPost, codePath("/api/selection/professor/%s/remove-student/", courseCode), query, nil, c.text(i18n.ServerError))
	return err
}
