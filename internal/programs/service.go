package programs

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

func (s *Service) List(ctx context.Context) ([]models.Program, error) {
	var list []models.Program
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uint) (models.Program, error) {
	return find(s.db.WithContext(ctx), id)
}

func (s *Service) Create(ctx context.Context, p models.Program) (models.Program, error) {
	p.ID = 0
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return models.Program{}, fmt.Errorf("create program: %w", err)
	}
	return p, nil
}

// Update replaces name and description. Other columns keep their values.
func (s *Service) Update(ctx context.Context, id uint, changes models.Program) (models.Program, error) {
	tx := s.db.WithContext(ctx)
	p, err := find(tx, id)
	if err != nil {
		return models.Program{}, err
	}

	p.Name = changes.Name
	p.Description = changes.Description
	err = tx.Model(&p).Updates(map[string]any{
		"name":        p.Name,
		"description": p.Description,
	}).Error
	if err != nil {
		return models.Program{}, fmt.Errorf("update program %d: %w", id, err)
	}
	return p, nil
}

// Delete removes the program and every enrollment pointing at it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := find(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&p).Association("Members").Clear(); err != nil {
			return fmt.Errorf("clear enrollments of program %d: %w", id, err)
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("delete program %d: %w", id, err)
		}
		return nil
	})
}

func find(tx *gorm.DB, id uint) (models.Program, error) {
	var p models.Program
	err := tx.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Program{}, apperr.NotFound("Program not found with id %d", id)
	}
	if err != nil {
		return models.Program{}, fmt.Errorf("load program %d: %w", id, err)
	}
	return p, nil
}
