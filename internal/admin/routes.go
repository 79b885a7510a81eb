package admin

import (
	"net/http"

	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the admin API. limiter may be nil.
func SetupRoutes(h *Handler, limiter *middleware.LoginLimiter) http.Handler {
	r := chi.NewRouter()

	r.With(limiter.Middleware).Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(h.sessions))
		r.Use(middleware.RequireRole(auth.RoleAdmin))

		r.Post("/logout", h.Logout)
		r.Get("/stats", h.Stats)
	})

	return r
}
