package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Create records a check-in at the current time. Repeat check-ins are kept.
func (s *Service) Create(ctx context.Context, memberID uint) (models.Attendance, error) {
	tx := s.db.WithContext(ctx)

	var count int64
	if err := tx.Model(&models.Member{}).Where("id = ?", memberID).Count(&count).Error; err != nil {
		return models.Attendance{}, fmt.Errorf("check member %d: %w", memberID, err)
	}
	if count == 0 {
		return models.Attendance{}, apperr.NotFound("Member not found with id %d", memberID)
	}

	a := models.Attendance{MemberID: memberID, CheckInTime: s.now()}
	if err := tx.Create(&a).Error; err != nil {
		return models.Attendance{}, fmt.Errorf("create attendance: %w", err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]models.Attendance, error) {
	var list []models.Attendance
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uint) (models.Attendance, error) {
	var a models.Attendance
	err := s.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Attendance{}, apperr.NotFound("Attendance record with id %d not found", id)
	}
	if err != nil {
		return models.Attendance{}, fmt.Errorf("load attendance %d: %w", id, err)
	}
	return a, nil
}

// ListByMember returns an empty list for unknown members.
func (s *Service) ListByMember(ctx context.Context, memberID uint) ([]models.Attendance, error) {
	list := []models.Attendance{}
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("check_in_time").Order("id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list attendance of member %d: %w", memberID, err)
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Attendance{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete attendance %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Attendance record with id %d not found", id)
	}
	return nil
}

// CountBetween counts check-ins in [from, to).
func (s *Service) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return n, nil
}
