package register

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/api"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/internal/fake"
	"github.com/jacobmichels/Course-Portal-Go/panel"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

func newRegister(t *testing.T, backend *fake.Backend) Register {
	t.Helper()
	catalog, err := i18n.New(i18n.English)
	require.NoError(t, err)
	v, err := validate.New(catalog)
	require.NoError(t, err)
	return NewRegister(panel.Env{Backend: backend, Validator: v, Catalog: catalog})
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("professor")
	require.NoError(t, err)
	assert.Equal(t, Professors, mode)

	_, err = ParseMode("admin")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	backend := &fake.Backend{
		StudentList:   []portal.Student{{ID: 1, Number: "40112345"}},
		ProfessorList: []portal.Professor{{ID: 2, Number: "12345678"}},
	}
	r := newRegister(t, backend)

	view := r.Load(context.Background(), Students)
	assert.Len(t, view.Students, 1)
	assert.Empty(t, view.Professors)

	view = r.Load(context.Background(), Professors)
	assert.Len(t, view.Professors, 1)
	assert.Equal(t, Professors, view.Mode)
}

func TestLoadKeepsEmptyListsInJSON(t *testing.T) {
	r := newRegister(t, &fake.Backend{})

	raw, err := json.Marshal(r.Load(context.Background(), Professors))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"professor","students":[],"professors":[]}`, string(raw))
}

func TestRegisterStudent(t *testing.T) {
	backend := &fake.Backend{Reg: portal.Registration{Username: "40112345", Password: "0012345678", FullName: "Sara Ahmadi"}}
	r := newRegister(t, backend)

	_, err := r.RegisterStudent(context.Background(), portal.StudentForm{StudentNumber: "123", NationalCode: "0012345678", FirstName: "Sara", LastName: "Ahmadi"})
	var failure *panel.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, http.StatusBadRequest, failure.Status)
	assert.Zero(t, backend.Called("RegisterStudent"))

	view, err := r.RegisterStudent(context.Background(), portal.StudentForm{StudentNumber: " 40112345 ", NationalCode: "0012345678", FirstName: "Sara", LastName: "Ahmadi"})
	require.NoError(t, err)
	require.NotNil(t, view.Created)
	assert.Equal(t, "0012345678", view.Created.Password)
	assert.Equal(t, "student Sara Ahmadi registered", view.Message.Text)
	assert.Equal(t, 1, backend.Called("Students"))
}

func TestRegisterProfessorBackendError(t *testing.T) {
	backend := &fake.Backend{MutateErr: &api.Error{StatusCode: http.StatusConflict, Message: "personnel number exists"}}
	r := newRegister(t, backend)

	_, err := r.RegisterProfessor(context.Background(), portal.ProfessorForm{PersonnelNumber: "12345678", NationalCode: "0012345678", FirstName: "Reza", LastName: "Karimi"})
	var failure *panel.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, http.StatusConflict, failure.Status)
	assert.Equal(t, "personnel number exists", failure.Error())
}

func TestDelete(t *testing.T) {
	backend := &fake.Backend{}
	r := newRegister(t, backend)

	view, err := r.Delete(context.Background(), Professors, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Called("DeleteProfessor"))
	assert.Equal(t, []int{7}, backend.Deleted)
	assert.Equal(t, "user deleted", view.Message.Text)
}
