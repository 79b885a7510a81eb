package admin

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
	"github.com/ReviveFitness/RF-Backend/internal/attendance"
	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"github.com/ReviveFitness/RF-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewService(db, attendance.NewService(db)), db
}

func seedAdmin(t *testing.T, svc *Service, id string, active bool) {
	t.Helper()
	require.NoError(t, svc.EnsureAdmin(context.Background(), Account{AdminID: id, Password: "Adm1n!pass", Email: id + "@revive.example", Name: id}))
	if !active {
		require.NoError(t, svc.db.Model(&models.Admin{}).Where("admin_id = ?", id).Update("is_active", false).Error)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	seedAdmin(t, svc, "root", true)
	seedAdmin(t, svc, "retired", false)

	a, err := svc.Authenticate(ctx, "root", "Adm1n!pass")
	require.NoError(t, err)
	assert.Equal(t, "root", a.AdminID)

	_, err = svc.Authenticate(ctx, "root", "nope")
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))

	_, err = svc.Authenticate(ctx, "ghost", "Adm1n!pass")
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))

	_, err = svc.Authenticate(ctx, "retired", "Adm1n!pass")
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, db := newService(t)
	seedAdmin(t, svc, "root", true)
	require.NoError(t, svc.EnsureAdmin(context.Background(), Account{AdminID: "root", Password: "Other1!pw"}))

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err := svc.Authenticate(context.Background(), "root", "Adm1n!pass")
	assert.NoError(t, err)
}

func TestUpdateLastLogin(t *testing.T) {
	svc, db := newService(t)
	seedAdmin(t, svc, "root", true)

	var a models.Admin
	require.NoError(t, db.First(&a, "admin_id = ?", "root").Error)
	require.NoError(t, svc.UpdateLastLogin(context.Background(), a.ID))
	require.NoError(t, db.First(&a, a.ID).Error)
	assert.NotNil(t, a.LastLogin)

	assert.NoError(t, svc.UpdateLastLogin(context.Background(), 999))
}

func TestDashboardStats(t *testing.T) {
	svc, db := newService(t)
	noon := time.Date(2026, 6, 10, 12, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return noon }

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, db.Create(&models.Member{Name: "M", Email: email, HashedPassword: "h", JoinDate: noon}).Error)
	}
	require.NoError(t, db.Create(&[]models.Program{{Name: "P1"}, {Name: "P2"}}).Error)
	seedAdmin(t, svc, "root", true)
	seedAdmin(t, svc, "retired", false)

	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, time.Local)
	for _, ts := range []time.Time{
		midnight.Add(-time.Hour),
		midnight.Add(9 * time.Hour),
		midnight.Add(18 * time.Hour),
		midnight.Add(25 * time.Hour),
	} {
		require.NoError(t, db.Create(&models.Attendance{MemberID: 1, CheckInTime: ts}).Error)
	}

	st, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalMembers: 3, TotalPrograms: 2, TotalActiveAdmins: 1, TodayAttendance: 2}, st)
}

func TestRoutes_LoginThenStats(t *testing.T) {
	svc, db := newService(t)
	seedAdmin(t, svc, "root", true)
	sessions := auth.NewSessionStore(db, time.Hour)
	h := SetupRoutes(NewHandler(svc, sessions), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"adminId":"root","password":"bad"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"adminId":"root","password":"Adm1n!pass"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "root", login.AdminID)
	assert.Equal(t, auth.RoleAdmin, login.Role)
	assert.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"totalMembers":0,"totalPrograms":0,"totalActiveAdmins":1,"todayAttendance":0}`, rec.Body.String())

	memberToken, err := sessions.Issue(context.Background(), auth.RoleMember, 1)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
