// Package admin handles back-office logins and the dashboard counters.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"gorm.io/gorm"
)

// AttendanceCounter counts check-ins in [from, to).
type AttendanceCounter interface {
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// Account describes an admin to bootstrap.
type Account struct {
	AdminID  string
	Password string
	Email    string
	Name     string
}

type Service struct {
	db         *gorm.DB
	attendance AttendanceCounter
	now        func() time.Time
}

func NewService(db *gorm.DB, attendance AttendanceCounter) *Service {
	return &Service{db: db, attendance: attendance, now: time.Now}
}

func (s *Service) Authenticate(ctx context.Context, adminID, password string) (models.Admin, error) {
	var a models.Admin
	err := s.db.WithContext(ctx).First(&a, "admin_id = ?", strings.TrimSpace(adminID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Admin{}, apperr.InvalidCredentials("Invalid adminId or inactive account")
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("load admin: %w", err)
	}
	if !a.IsActive {
		return models.Admin{}, apperr.InvalidCredentials("Invalid adminId or inactive account")
	}
	if !auth.CheckPassword(a.HashedPassword, password) {
		return models.Admin{}, apperr.InvalidCredentials("Invalid adminId or password")
	}
	return a, nil
}

// UpdateLastLogin stamps the login time. Unknown ids are ignored.
func (s *Service) UpdateLastLogin(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).
		Update("last_login", s.now()).Error
}

// DashboardStats runs one count per figure. Today is local midnight to the
// next local midnight.
func (s *Service) DashboardStats(ctx context.Context) (Stats, error) {
	var st Stats
	tx := s.db.WithContext(ctx)

	if err := tx.Model(&models.Member{}).Count(&st.TotalMembers).Error; err != nil {
		return Stats{}, apperr.Internal("count members", err)
	}
	if err := tx.Model(&models.Program{}).Count(&st.TotalPrograms).Error; err != nil {
		return Stats{}, apperr.Internal("count programs", err)
	}
	if err := tx.Model(&models.Admin{}).Where("is_active = ?", true).Count(&st.TotalActiveAdmins).Error; err != nil {
		return Stats{}, apperr.Internal("count admins", err)
	}

	from, to := dayBounds(s.now())
	n, err := s.attendance.CountBetween(ctx, from, to)
	if err != nil {
		return Stats{}, apperr.Internal("count attendance", err)
	}
	st.TodayAttendance = n

	return st, nil
}

// EnsureAdmin creates the account unless its admin id already exists.
func (s *Service) EnsureAdmin(ctx context.Context, acct Account) error {
	tx := s.db.WithContext(ctx)

	var count int64
	if err := tx.Model(&models.Admin{}).Where("admin_id = ?", acct.AdminID).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin %q: %w", acct.AdminID, err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(acct.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	a := models.Admin{
		AdminID:        acct.AdminID,
		HashedPassword: hashed,
		Email:          acct.Email,
		Name:           acct.Name,
		IsActive:       true,
	}
	if err := tx.Create(&a).Error; err != nil {
		return fmt.Errorf("create admin %q: %w", acct.AdminID, err)
	}

	log.Printf("[admin] bootstrapped admin account %q", acct.AdminID)
	return nil
}

func dayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
