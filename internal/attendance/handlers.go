package attendance

import (
	"net/http"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
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
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(a))
}

func (h *Handler) ListByMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := utils.URLParamID(r, "memberId")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	list, err := h.svc.ListByMember(r.Context(), memberID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTOs(list))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	a, err := h.svc.Create(r.Context(), req.MemberID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ToDTO(a))
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
