package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"github.com/ReviveFitness/RF-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMember(t *testing.T, db *gorm.DB, email string) models.Member {
	t.Helper()
	m := models.Member{Name: "M", Email: email, HashedPassword: "h", JoinDate: time.Now()}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func TestCreate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(db)
	fixed := time.Date(2026, 5, 1, 7, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	m := seedMember(t, db, "a@x.com")

	a, err := svc.Create(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, a.MemberID)
	assert.True(t, fixed.Equal(a.CheckInTime))

	_, err = svc.Create(context.Background(), m.ID)
	require.NoError(t, err)
	list, err := svc.ListByMember(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Create(context.Background(), 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListByMember_UnknownIsEmpty(t *testing.T) {
	svc := NewService(testutil.NewTestDB(t))

	list, err := svc.ListByMember(context.Background(), 42)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	m := seedMember(t, db, "a@x.com")
	a, err := svc.Create(ctx, m.ID)
	require.NoError(t, err)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, a.ID), apperr.ErrNotFound))
}

func TestCountBetween(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(db)
	m := seedMember(t, db, "a@x.com")
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{day.Add(-time.Minute), day, day.Add(12 * time.Hour), day.Add(24 * time.Hour)} {
		require.NoError(t, db.Create(&models.Attendance{MemberID: m.ID, CheckInTime: ts}).Error)
	}

	n, err := svc.CountBetween(context.Background(), day, day.Add(24*time.Hour))

	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestHandlers(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMember(t, db, "a@x.com")
	h := SetupRoutes(NewHandler(NewService(db)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memberId":1}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created AttendanceDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, m.ID, created.MemberID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memberId":9}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/member/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []AttendanceDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/member/9", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
