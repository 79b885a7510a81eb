package programs

import "github.com/ReviveFitness/RF-Backend/internal/models"

// ProgramDTO is the wire shape of a program. Benefits is exposed as "cost"
// because that is what the pricing cards render.
type ProgramDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImgURL      string `json:"imgUrl"`
	Cost        string `json:"cost"`
	Duration    string `json:"duration"`
}

type ProgramRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	ImgURL      string `json:"imgUrl" validate:"max=1000"`
	Cost        string `json:"cost" validate:"max=200"`
	Duration    string `json:"duration" validate:"max=200"`
}

func ToDTO(p models.Program) ProgramDTO {
	return ProgramDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImgURL:      p.ImageURL,
		Cost:        p.Benefits,
		Duration:    p.Duration,
	}
}

func ToDTOs(list []models.Program) []ProgramDTO {
	out := make([]ProgramDTO, 0, len(list))
	for _, p := range list {
		out = append(out, ToDTO(p))
	}
	return out
}

func (req ProgramRequest) toModel() models.Program {
	return models.Program{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImgURL,
		Benefits:    req.Cost,
		Duration:    req.Duration,
	}
}
