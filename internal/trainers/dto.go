package trainers

import "github.com/ReviveFitness/RF-Backend/internal/models"

// TrainerDTO flattens achievements to their text, in insertion order.
type TrainerDTO struct {
	ID           uint     `json:"id"`
	ImgURL       string   `json:"imgUrl"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Bio          string   `json:"bio"`
	Achievements []string `json:"achievements"`
}

type TrainerRequest struct {
	ImgURL       string   `json:"imgUrl" validate:"max=1000"`
	Name         string   `json:"name" validate:"required,max=200"`
	Title        string   `json:"title" validate:"max=200"`
	Bio          string   `json:"bio" validate:"max=10000"`
	Achievements []string `json:"achievements" validate:"dive,required,max=500"`
}

// Profile is the writable part of a trainer.
type Profile struct {
	Name         string
	Title        string
	Bio          string
	ImageURL     string
	Achievements []string
}

func ToDTO(t models.Trainer) TrainerDTO {
	achievements := make([]string, 0, len(t.Achievements))
	for _, a := range t.Achievements {
		achievements = append(achievements, a.Achievement)
	}
	return TrainerDTO{
		ID:           t.ID,
		ImgURL:       t.ImageURL,
		Name:         t.Name,
		Title:        t.Title,
		Bio:          t.Bio,
		Achievements: achievements,
	}
}

func ToDTOs(list []models.Trainer) []TrainerDTO {
	out := make([]TrainerDTO, 0, len(list))
	for _, t := range list {
		out = append(out, ToDTO(t))
	}
	return out
}

func (req TrainerRequest) toProfile() Profile {
	return Profile{
		Name:         req.Name,
		Title:        req.Title,
		Bio:          req.Bio,
		ImageURL:     req.ImgURL,
		Achievements: req.Achievements,
	}
}
