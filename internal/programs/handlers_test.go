package programs_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ReviveFitness/RF-Backend/internal/programs"
	"github.com/ReviveFitness/RF-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	return programs.SetupRoutes(programs.NewHandler(programs.NewService(testutil.NewTestDB(t))))
}

func TestHandlers_CRUD(t *testing.T) {
	h := newRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"name":"Boxing","description":"Bags","imgUrl":"/b.jpg","cost":"$30","duration":"1h"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created programs.ProgramDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Boxing", created.Name)
	assert.Equal(t, "$30", created.Cost)
	assert.Equal(t, "/b.jpg", created.ImgURL)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []programs.ProgramDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Program not found")
}

func TestHandlers_CreateRequiresName(t *testing.T) {
	h := newRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"description":"no name"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_BadID(t *testing.T) {
	h := newRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
