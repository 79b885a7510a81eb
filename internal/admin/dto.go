package admin

type LoginRequest struct {
	AdminID  string `json:"adminId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	ID      uint   `json:"id"`
	AdminID string `json:"adminId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type Stats struct {
	TotalMembers      int64 `json:"totalMembers"`
	TotalPrograms     int64 `json:"totalPrograms"`
	TotalActiveAdmins int64 `json:"totalActiveAdmins"`
	TodayAttendance   int64 `json:"todayAttendance"`
}
