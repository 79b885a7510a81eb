package challenges

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

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetOrCreateCurrent(r.Context())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(c))
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
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(c))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), req.toModel())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ToDTO(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	var req ChallengeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), id, req.toModel())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(c))
}

func (h *Handler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	c, err := h.svc.SetAsCurrent(r.Context(), id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToDTO(c))
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
