package trainers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func preloadAchievements(tx *gorm.DB) *gorm.DB {
	return tx.Order("id")
}

func (s *Service) List(ctx context.Context) ([]models.Trainer, error) {
	var list []models.Trainer
	err := s.db.WithContext(ctx).
		Preload("Achievements", preloadAchievements).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uint) (models.Trainer, error) {
	return find(s.db.WithContext(ctx), id)
}

// Create stores the trainer and one achievement row per entry.
func (s *Service) Create(ctx context.Context, p Profile) (models.Trainer, error) {
	t := models.Trainer{
		Name:     p.Name,
		Title:    p.Title,
		Bio:      p.Bio,
		ImageURL: p.ImageURL,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("create trainer: %w", err)
		}
		achievements, err := insertAchievements(tx, t.ID, p.Achievements)
		if err != nil {
			return err
		}
		t.Achievements = achievements
		return nil
	})
	if err != nil {
		return models.Trainer{}, err
	}
	return t, nil
}

// Update replaces the scalar fields and the whole achievement list.
func (s *Service) Update(ctx context.Context, id uint, p Profile) (models.Trainer, error) {
	var t models.Trainer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = find(tx, id); err != nil {
			return err
		}

		t.Name = p.Name
		t.Title = p.Title
		t.Bio = p.Bio
		t.ImageURL = p.ImageURL
		err = tx.Model(&models.Trainer{ID: id}).Updates(map[string]any{
			"name":      t.Name,
			"title":     t.Title,
			"bio":       t.Bio,
			"image_url": t.ImageURL,
		}).Error
		if err != nil {
			return fmt.Errorf("update trainer %d: %w", id, err)
		}

		if err := tx.Where("trainer_id = ?", id).Delete(&models.Achievement{}).Error; err != nil {
			return fmt.Errorf("delete achievements of trainer %d: %w", id, err)
		}
		t.Achievements, err = insertAchievements(tx, id, p.Achievements)
		return err
	})
	if err != nil {
		return models.Trainer{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, id); err != nil {
			return err
		}
		if err := tx.Where("trainer_id = ?", id).Delete(&models.Achievement{}).Error; err != nil {
			return fmt.Errorf("delete achievements of trainer %d: %w", id, err)
		}
		if err := tx.Delete(&models.Trainer{}, id).Error; err != nil {
			return fmt.Errorf("delete trainer %d: %w", id, err)
		}
		return nil
	})
}

func insertAchievements(tx *gorm.DB, trainerID uint, texts []string) ([]models.Achievement, error) {
	rows := make([]models.Achievement, 0, len(texts))
	for _, text := range texts {
		rows = append(rows, models.Achievement{TrainerID: trainerID, Achievement: text})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("create achievements of trainer %d: %w", trainerID, err)
	}
	return rows, nil
}

func find(tx *gorm.DB, id uint) (models.Trainer, error) {
	var t models.Trainer
	err := tx.Preload("Achievements", preloadAchievements).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Trainer{}, apperr.NotFound("Trainer not found with id %d", id)
	}
	if err != nil {
		return models.Trainer{}, fmt.Errorf("load trainer %d: %w", id, err)
	}
	return t, nil
}
