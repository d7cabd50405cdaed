package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/").WithToken("access-token")
}

func TestHandleResponseErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "detail", status: http.StatusBadRequest, body: `{"detail":"ظرفیت درس تکمیل است"}`, wantMsg: "ظرفیت درس تکمیل است"},
		{name: "message", status: http.StatusForbidden, body: `{"message":"not allowed"}`, wantMsg: "not allowed"},
		{name: "detail wins over message", status: http.StatusBadRequest, body: `{"message":"second","detail":"first"}`, wantMsg: "first"},
		{name: "errors list", status: http.StatusBadRequest, body: `{"errors":["bad term"]}`, wantMsg: "bad term"},
		{name: "field errors", status: http.StatusBadRequest, body: `{"code":["کد درس تکراری است"]}`, wantMsg: "code: کد درس تکراری است"},
		{name: "non field errors", status: http.StatusBadRequest, body: `{"non_field_errors":["overlap"]}`, wantMsg: "overlap"},
		{name: "empty body", status: http.StatusInternalServerError, body: ``, wantMsg: defaultServerError},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: defaultServerError},
		{name: "json array body", status: http.StatusBadRequest, body: `["x"]`, wantMsg: defaultServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Courses(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestFallbackMessagesAreLocalized(t *testing.T) {
	catalog, err := i18n.New(i18n.Persian)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, WithCatalog(catalog))

	err = client.DeleteCourse(context.Background(), 4)
	assert.EqualError(t, err, "حذف درس با مشکل مواجه شد.")

	// only deletes carry their own fallback
	_, err = client.Courses(context.Background())
	assert.EqualError(t, err, "خطا در ارتباط با سرور.")

	_, err = client.Login(context.Background(), "admin", "pw")
	assert.EqualError(t, err, "خطا در ارتباط با سرور.")
}

func TestBearerTokenAndPaths(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()

	require.NoError(t, client.DeleteCourse(ctx, 12))
	assert.Equal(t, "Bearer access-token", gotAuth)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/courses/12/", gotPath)

	require.NoError(t, client.RemoveStudent(ctx, "1234567", "40112345"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/selection/professor/1234567/remove-student/?student_number=40112345", gotPath)

	_, err := client.ReportCard(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "/api/selection/selections/report-card/?term_id=3", gotPath)

	_, err = client.ReportCard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "/api/selection/selections/report-card/", gotPath)
}

func TestLoginSendsNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/api/token/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"username": "admin", "password": "pw"}, body)

		_, _ = io.WriteString(w, `{"access":"a","refresh":"r"}`)
	}))
	defer srv.Close()

	tokens, err := New(srv.URL).Login(context.Background(), "admin", "pw")
	require.NoError(t, err)
	assert.Equal(t, portal.Tokens{Access: "a", Refresh: "r"}, tokens)
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"No active account found with the given credentials"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "admin", "wrong")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.EqualError(t, err, "No active account found with the given credentials")
}

func TestRefreshKeepsRefreshToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access":"new"}`)
	})

	tokens, err := client.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, portal.Tokens{Access: "new", Refresh: "old-refresh"}, tokens)
}

func TestRefreshWithoutAccessToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"refresh":"rotated"}`)
	})

	_, err := client.Refresh(context.Background(), "old-refresh")
	assert.ErrorIs(t, err, ErrNoAccessToken)
}

func TestUnitLimit(t *testing.T) {
	t.Run("missing limit is nil", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not found."}`)
		})

		limit, err := client.UnitLimit(context.Background())
		require.NoError(t, err)
		assert.Nil(t, limit)
	})

	t.Run("existing limit", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"id":1,"min_units":12,"max_units":20}`)
		})

		limit, err := client.UnitLimit(context.Background())
		require.NoError(t, err)
		require.NotNil(t, limit)
		assert.Equal(t, portal.UnitLimit{MinUnits: 12, MaxUnits: 20}, *limit)
	})

	t.Run("server error is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.UnitLimit(context.Background())
		assert.Error(t, err)
	})
}

func TestListEnvelopes(t *testing.T) {
	bodies := map[string]string{
		"bare array": `[{"id":1,"code":"1234567","name":"Math","term":2,"start_time":"08:00:00"}]`,
		"paginated":  `{"count":1,"results":[{"id":1,"code":"1234567","name":"Math","term":{"id":2,"name":"Fall"},"start_time":"08:00:00"}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})

			courses, err := client.Courses(context.Background())
			require.NoError(t, err)
			require.Len(t, courses, 1)
			assert.Equal(t, "1234567", courses[0].Code)
			assert.Equal(t, portal.TermRef(2), courses[0].Term)
			assert.Equal(t, "08:00", portal.ShortTime(courses[0].StartTime))
		})
	}
}

func TestUserListsAcceptBothNumberFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/students/":
			_, _ = io.WriteString(w, `[{"id":1,"number":"40112345","first_name":"Sara","last_name":"Ahmadi"},{"id":2,"student_number":"40154321","first_name":"Ali","last_name":"Rezaei"}]`)
		case "/api/users/professors/":
			_, _ = io.WriteString(w, `{"results":[{"id":7,"personnel_number":"12345678","first_name":"Reza","last_name":"Karimi"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	students, err := client.Students(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "40112345", students[0].Number)
	assert.Equal(t, "40154321", students[1].Number)

	professors, err := client.Professors(context.Background())
	require.NoError(t, err)
	require.Len(t, professors, 1)
	assert.Equal(t, "12345678", professors[0].Number)
	assert.Equal(t, "Reza Karimi", professors[0].DisplayName())
}

func TestTermRequests(t *testing.T) {
	start := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/terms/":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Fall", body["name"])
			assert.Equal(t, "2025-09-01T08:00:00Z", body["start_selection"])
			assert.Equal(t, "2025-09-04T08:00:00Z", body["end_selection"])
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":5,"name":"Fall","start_selection":"2025-09-01T08:00:00Z","end_selection":"2025-09-04T08:00:00","is_active":false}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/terms/5/toggle-active/":
			_, _ = io.WriteString(w, `{"id":5,"is_active":true}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	term, err := client.CreateTerm(context.Background(), portal.Term{
		Name:           "Fall",
		StartSelection: portal.Timestamp{Time: start},
		EndSelection:   portal.Timestamp{Time: end},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, term.ID)
	assert.True(t, end.Equal(term.EndSelection.Time))

	active, err := client.ToggleTerm(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestSelectionRequests(t *testing.T) {
	var gotBody map[string]string
	var gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		switch r.URL.Path {
		case "/api/selection/selections/select-course/":
			gotBody = nil
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
		case "/api/selection/selections/finalize/":
			_, _ = io.WriteString(w, `{"detail":"انتخاب واحد نهایی شد.","total_units":14}`)
		case "/api/selection/selections/draft/":
			_, _ = io.WriteString(w, `[{"id":1,"course_code":"1234567","course_name":"Math","course_units":3},{"id":2,"code":"7654321","name":"Physics","units":2}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()

	require.NoError(t, client.SelectCourse(ctx, "1234567"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, map[string]string{"course_code": "1234567"}, gotBody)

	require.NoError(t, client.DropCourse(ctx, "1234567"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, map[string]string{"course_code": "1234567"}, gotBody)

	res, err := client.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, res.TotalUnits)

	draft, err := client.Draft(ctx)
	require.NoError(t, err)
	require.Len(t, draft, 2)
	assert.Equal(t, "1234567", draft[0].CodeValue())
	assert.Equal(t, "Physics", draft[1].NameValue())
	assert.Equal(t, 5, portal.TotalUnits(draft))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL).Courses(context.Background())
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}
