package admin

import (
	"log"
	"net/http"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/middleware"
	"github.com/ReviveFitness/RF-Backend/internal/utils"
)

type Handler struct {
	svc      *Service
	sessions *auth.SessionStore
}

func NewHandler(svc *Service, sessions *auth.SessionStore) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}

	a, err := h.svc.Authenticate(r.Context(), req.AdminID, req.Password)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	token, err := h.sessions.Issue(r.Context(), auth.RoleAdmin, a.ID)
	if err != nil {
		apperr.Write(w, apperr.Internal("issue session", err))
		return
	}

	if err := h.svc.UpdateLastLogin(r.Context(), a.ID); err != nil {
		log.Printf("[admin] last login update failed for %d: %v", a.ID, err)
	}

	utils.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		ID:      a.ID,
		AdminID: a.AdminID,
		Name:    a.Name,
		Email:   a.Email,
		Role:    auth.RoleAdmin,
		Message: "Login successful",
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.BearerToken(r)
	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		apperr.Write(w, apperr.Internal("revoke session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, st)
}
