package members

import (
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/models"
)

// DateLayout is the wire format of join dates.
const DateLayout = "2006-01-02"

// MemberDTO never carries the password hash.
type MemberDTO struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	JoinDate        string     `json:"joinDate"`
	ProfilePhotoURL *string    `json:"profilePhotoUrl"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
}

type CreateMemberRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	Password        string  `json:"password" validate:"required"`
	JoinDate        string  `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	ProfilePhotoURL *string `json:"profilePhotoUrl" validate:"omitempty,max=1000"`
}

type UpdateMemberRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	JoinDate        string  `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	ProfilePhotoURL *string `json:"profilePhotoUrl" validate:"omitempty,max=1000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	JoinDate string `json:"joinDate"`
}

func ToDTO(m models.Member) MemberDTO {
	return MemberDTO{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		JoinDate:        formatDate(m.JoinDate),
		ProfilePhotoURL: m.ProfilePhotoURL,
		LastLogin:       m.LastLogin,
	}
}

func ToDTOs(list []models.Member) []MemberDTO {
	out := make([]MemberDTO, 0, len(list))
	for _, m := range list {
		out = append(out, ToDTO(m))
	}
	return out
}

func (req CreateMemberRequest) toNewMember() NewMember {
	return NewMember{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		JoinDate:        parseDate(req.JoinDate),
		ProfilePhotoURL: req.ProfilePhotoURL,
	}
}

func (req UpdateMemberRequest) toChanges() MemberChanges {
	return MemberChanges{
		Name:            req.Name,
		Email:           req.Email,
		JoinDate:        parseDate(req.JoinDate),
		ProfilePhotoURL: req.ProfilePhotoURL,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// parseDate expects input that already passed the datetime validator.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.ParseInLocation(DateLayout, s, time.Local)
	return t
}
