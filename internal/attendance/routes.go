package attendance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/member/{memberId}", h.ListByMember)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)

	return r
}
