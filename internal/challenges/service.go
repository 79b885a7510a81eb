package challenges

import (
	"context"
	"errors"
	"fmt"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/db"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"gorm.io/gorm"
)

// Default is persisted the first time the current challenge is requested
// and the table is empty.
var Default = models.CurrentChallenge{
	Title:       "90-Day Transformation",
	Description: "Ready to transform your body? Join our 90-day challenge!",
	ImageURL:    "https://images.unsplash.com/photo-1534438327276-14e5300c3a48",
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetOrCreateCurrent returns the flagged challenge, or the lowest id when
// nothing is flagged. An empty table gets the default challenge.
func (s *Service) GetOrCreateCurrent(ctx context.Context) (models.CurrentChallenge, error) {
	current, err := s.getOrCreateCurrent(ctx)
	if db.IsUniqueViolation(err) {
		// A concurrent first call inserted the default.
		current, err = s.getOrCreateCurrent(ctx)
	}
	return current, err
}

func (s *Service) getOrCreateCurrent(ctx context.Context) (models.CurrentChallenge, error) {
	var current models.CurrentChallenge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("is_current DESC").Order("id").First(&current).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load current challenge: %w", err)
		}

		current = Default
		current.IsCurrent = true
		if err := tx.Create(&current).Error; err != nil {
			return fmt.Errorf("create default challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.CurrentChallenge{}, err
	}
	return current, nil
}

// SetAsCurrent moves the current flag to id.
func (s *Service) SetAsCurrent(ctx context.Context, id uint) (models.CurrentChallenge, error) {
	var c models.CurrentChallenge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if c, err = find(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.CurrentChallenge{}).Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return fmt.Errorf("clear current flag: %w", err)
		}
		if err := tx.Model(&c).Update("is_current", true).Error; err != nil {
			return fmt.Errorf("flag challenge %d: %w", id, err)
		}
		c.IsCurrent = true
		return nil
	})
	if err != nil {
		return models.CurrentChallenge{}, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]models.CurrentChallenge, error) {
	var list []models.CurrentChallenge
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uint) (models.CurrentChallenge, error) {
	return find(s.db.WithContext(ctx), id)
}

// Create stores a new challenge. It never becomes current on its own.
func (s *Service) Create(ctx context.Context, c models.CurrentChallenge) (models.CurrentChallenge, error) {
	c.ID = 0
	c.IsCurrent = false
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.CurrentChallenge{}, fmt.Errorf("create challenge: %w", err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id uint, changes models.CurrentChallenge) (models.CurrentChallenge, error) {
	tx := s.db.WithContext(ctx)
	c, err := find(tx, id)
	if err != nil {
		return models.CurrentChallenge{}, err
	}

	c.Title = changes.Title
	c.Description = changes.Description
	c.ImageURL = changes.ImageURL
	err = tx.Model(&c).Updates(map[string]any{
		"title":       c.Title,
		"description": c.Description,
		"image_url":   c.ImageURL,
	}).Error
	if err != nil {
		return models.CurrentChallenge{}, fmt.Errorf("update challenge %d: %w", id, err)
	}
	return c, nil
}

// Delete removes the challenge and its participant rows.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := find(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&c).Association("Participants").Clear(); err != nil {
			return fmt.Errorf("clear participants of challenge %d: %w", id, err)
		}
		if err := tx.Delete(&c).Error; err != nil {
			return fmt.Errorf("delete challenge %d: %w", id, err)
		}
		return nil
	})
}

func find(tx *gorm.DB, id uint) (models.CurrentChallenge, error) {
	var c models.CurrentChallenge
	err := tx.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CurrentChallenge{}, apperr.NotFound("Challenge not found with id %d", id)
	}
	if err != nil {
		return models.CurrentChallenge{}, fmt.Errorf("load challenge %d: %w", id, err)
	}
	return c, nil
}
