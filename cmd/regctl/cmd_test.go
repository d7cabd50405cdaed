package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/config"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/internal/fake"
	"github.com/jacobmichels/Course-Portal-Go/repository"
	"github.com/jacobmichels/Course-Portal-Go/session"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	want    string
}

func setup(t *testing.T, role portal.Role) (*commandLine, *fake.Backend, *bytes.Buffer) {
	t.Helper()

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role":     string(role),
		"username": "u1",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	backend := &fake.Backend{Tokens: portal.Tokens{Access: access, Refresh: "r1"}}

	repo, err := repository.New(context.Background(), config.Database{Type: "sqlite", SQLite: config.SQLite{ConnectionString: ":memory:"}})
	require.NoError(t, err)
	catalog, err := i18n.New(i18n.English)
	require.NoError(t, err)
	v, err := validate.New(catalog)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	cli := &commandLine{
		sessions:  session.NewManager(repo, func(string) portal.Backend { return backend }, time.Hour),
		validator: v,
		catalog:   catalog,
		out:       out,
	}

	readPasswordFunc = func(int) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { readPasswordFunc = func(int) ([]byte, error) { return nil, errors.New("no terminal") } })
	return cli, backend, out
}

func login(t *testing.T, cli *commandLine) {
	t.Helper()
	require.NoError(t, cli.run([]string{"regctl", "login", "-username", "u1"}))
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, _ := setup(t, portal.RoleStudent)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login without username", args: []string{"login"}, wantErr: errHelp},
		{name: "login bad flag", args: []string{"login", "-nope"}, wantErr: errHelp},
		{name: "select without code", args: []string{"select"}, wantErr: errHelp},
		{name: "drop without code", args: []string{"drop"}, wantErr: errHelp},
		{name: "roster without course", args: []string{"roster"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"regctl"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, cli.run(args), tt.wantErr)
		})
	}
}

func Test_commandLine_login(t *testing.T) {
	cli, backend, out := setup(t, portal.RoleStudent)

	err := cli.run([]string{"regctl", "courses"})
	assert.ErrorIs(t, err, session.ErrExpired)

	login(t, cli)
	assert.Contains(t, out.String(), "logged in as u1 (student)")
	assert.Equal(t, 1, backend.Called("Login"))

	out.Reset()
	require.NoError(t, cli.run([]string{"regctl", "whoami"}))
	assert.Contains(t, out.String(), "panels: course-selection, courses, weekly-schedule, report-card, login-history")

	require.NoError(t, cli.run([]string{"regctl", "logout"}))
	assert.ErrorIs(t, cli.run([]string{"regctl", "whoami"}), session.ErrExpired)
}

func Test_commandLine_emptyPassword(t *testing.T) {
	cli, backend, _ := setup(t, portal.RoleStudent)
	readPasswordFunc = func(int) ([]byte, error) { return nil, nil }

	assert.ErrorIs(t, cli.run([]string{"regctl", "login", "-username", "u1"}), errHelp)
	assert.Zero(t, backend.Called("Login"))
}

func Test_commandLine_student(t *testing.T) {
	cli, backend, out := setup(t, portal.RoleStudent)
	login(t, cli)

	units := 3
	backend.CourseList = []portal.Course{{Code: "1111111", Name: "Algorithms", Units: 3, Day: "شنبه", StartTime: "08:00:00", EndTime: "10:00:00"}}
	backend.DraftList = []portal.Selection{{Code: "1111111", Name: "Algorithms", Units: &units}}
	backend.Limit = &portal.UnitLimit{MinUnits: 12, MaxUnits: 20}
	backend.ScheduleRaw = json.RawMessage(`[{"course_name":"Algorithms","day":"شنبه"}]`)

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		contains []string
	}{
		{name: "courses", args: []string{"courses"}, contains: []string{"Algorithms", "08:00-10:00"}},
		{name: "draft", args: []string{"draft"}, contains: []string{"1111111", "total units: 3 (allowed 12..20)"}},
		{name: "select", args: []string{"select", "-code", "2222222"}, contains: []string{"course added to your draft"}},
		{name: "schedule", args: []string{"schedule"}, contains: []string{"Algorithms"}},
		{name: "admin only", args: []string{"terms"}, wantErr: errForbidden},
		{name: "professor only", args: []string{"roster", "-course", "1111111"}, wantErr: errForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(append([]string{"regctl"}, tt.args...))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}

	assert.Equal(t, []string{"2222222"}, backend.Selected)
}

func Test_commandLine_finalizeOutOfRange(t *testing.T) {
	cli, backend, _ := setup(t, portal.RoleStudent)
	login(t, cli)

	units := 3
	backend.DraftList = []portal.Selection{{Code: "1111111", Units: &units}}
	backend.Limit = &portal.UnitLimit{MinUnits: 12, MaxUnits: 20}

	err := cli.run([]string{"regctl", "finalize"})
	require.Error(t, err)
	assert.Equal(t, "total units must be between 12 and 20", err.Error())
	assert.Zero(t, backend.Called("Finalize"))
}

func Test_commandLine_loadFailure(t *testing.T) {
	cli, backend, _ := setup(t, portal.RoleProfessor)
	login(t, cli)
	backend.CoursesErr = errors.New("timeout")

	err := cli.run([]string{"regctl", "courses"})
	require.Error(t, err)
	assert.Equal(t, "failed to load the course list", err.Error())
}
