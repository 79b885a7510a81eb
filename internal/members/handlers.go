package members

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/challenges"
	"github.com/ReviveFitness/RF-Backend/internal/middleware"
	"github.com/ReviveFitness/RF-Backend/internal/programs"
	"github.com/ReviveFitness/RF-Backend/internal/utils"
)

const maxPhotoBytes = 5 << 20

type Handler struct {
	svc      *Service
	sessions *auth.SessionStore
}

func NewHandler(svc *Service, sessions *auth.SessionStore) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTOs(list))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(m))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	m, err := h.svc.Create(r.Context(), req.toNewMember())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ToDTO(m))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	var req UpdateMemberRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	m, err := h.svc.Update(r.Context(), id, req.toChanges())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(m))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}

	m, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	token, err := h.sessions.Issue(r.Context(), auth.RoleMember, m.ID)
	if err != nil {
		apperr.Write(w, apperr.Internal("issue session", err))
		return
	}

	if err := h.svc.UpdateLastLogin(r.Context(), m.ID); err != nil {
		log.Printf("[members] last login update failed for %d: %v", m.ID, err)
	}

	utils.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		ID:       m.ID,
		Email:    m.Email,
		Name:     m.Name,
		JoinDate: formatDate(m.JoinDate),
	})
}

// Me returns the member owning the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		apperr.Write(w, apperr.Unauthorized("Unauthorized: missing session in context"))
		return
	}
	m, err := h.svc.Get(r.Context(), session.SubjectID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(m))
}

// Logout runs behind the session middleware, so the token is known to exist.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.BearerToken(r)
	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		apperr.Write(w, apperr.Internal("revoke session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) EnrollInProgram(w http.ResponseWriter, r *http.Request) {
	memberID, programID, ok := twoIDs(w, r, "programId")
	if !ok {
		return
	}
	if err := h.svc.EnrollInProgram(r.Context(), memberID, programID); err != nil {
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) LeaveProgram(w http.ResponseWriter, r *http.Request) {
	memberID, programID, ok := twoIDs(w, r, "programId")
	if !ok {
		return
	}
	if err := h.svc.LeaveProgram(r.Context(), memberID, programID); err != nil {
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	list, err := h.svc.ListPrograms(r.Context(), id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, programs.ToDTOs(list))
}

// UpdatePrograms takes a bare JSON array of program ids.
func (h *Handler) UpdatePrograms(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	var ids []uint
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		if errors.Is(err, io.EOF) {
			apperr.Write(w, apperr.Validation("Request body is required"))
			return
		}
		apperr.Write(w, apperr.Validation("Request body must be a list of program ids"))
		return
	}
	list, err := h.svc.UpdatePrograms(r.Context(), id, ids)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, programs.ToDTOs(list))
}

func (h *Handler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	memberID, challengeID, ok := twoIDs(w, r, "challengeId")
	if !ok {
		return
	}
	if err := h.svc.JoinChallenge(r.Context(), memberID, challengeID); err != nil {
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) LeaveChallenge(w http.ResponseWriter, r *http.Request) {
	memberID, challengeID, ok := twoIDs(w, r, "challengeId")
	if !ok {
		return
	}
	if err := h.svc.LeaveChallenge(r.Context(), memberID, challengeID); err != nil {
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	list, err := h.svc.ListChallenges(r.Context(), id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, challenges.ToDTOs(list))
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes+1<<20)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		apperr.Write(w, apperr.Validation("Upload must be a multipart form no larger than 5 MB"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		apperr.Write(w, apperr.Validation("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		apperr.Write(w, apperr.Validation("Could not read uploaded file"))
		return
	}
	switch {
	case len(data) == 0:
		apperr.Write(w, apperr.Validation("file is empty"))
		return
	case len(data) > maxPhotoBytes:
		apperr.Write(w, apperr.Validation("file must be at most 5 MB"))
		return
	case !strings.HasPrefix(http.DetectContentType(data), "image/"):
		apperr.Write(w, apperr.Validation("file must be an image"))
		return
	}

	url, err := h.svc.SaveProfilePhoto(r.Context(), id, data, header.Filename)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"photoUrl": url})
}

func twoIDs(w http.ResponseWriter, r *http.Request, second string) (uint, uint, bool) {
	memberID, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return 0, 0, false
	}
	otherID, err := utils.URLParamID(r, second)
	if err != nil {
		apperr.Write(w, err)
		return 0, 0, false
	}
	return memberID, otherID, true
}
