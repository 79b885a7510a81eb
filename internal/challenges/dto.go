package challenges

import "github.com/ReviveFitness/RF-Backend/internal/models"

type ChallengeDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	IsCurrent   bool   `json:"isCurrent"`
}

type ChallengeRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	ImageURL    string `json:"imageUrl" validate:"max=1000"`
}

func ToDTO(c models.CurrentChallenge) ChallengeDTO {
	return ChallengeDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsCurrent:   c.IsCurrent,
	}
}

func ToDTOs(list []models.CurrentChallenge) []ChallengeDTO {
	out := make([]ChallengeDTO, 0, len(list))
	for _, c := range list {
		out = append(out, ToDTO(c))
	}
	return out
}

func (req ChallengeRequest) toModel() models.CurrentChallenge {
	return models.CurrentChallenge{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
}
