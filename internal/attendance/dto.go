package attendance

import (
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/models"
)

type AttendanceDTO struct {
	ID          uint      `json:"id"`
	MemberID    uint      `json:"memberId"`
	CheckInTime time.Time `json:"checkInTime"`
}

type CheckInRequest struct {
	MemberID uint `json:"memberId" validate:"required"`
}

func ToDTO(a models.Attendance) AttendanceDTO {
	return AttendanceDTO{ID: a.ID, MemberID: a.MemberID, CheckInTime: a.CheckInTime}
}

func ToDTOs(list []models.Attendance) []AttendanceDTO {
	out := make([]AttendanceDTO, 0, len(list))
	for _, a := range list {
		out = append(out, ToDTO(a))
	}
	return out
}
