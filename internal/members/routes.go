package members

import (
	"net/http"

	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the member API. limiter may be nil.
func SetupRoutes(h *Handler, limiter *middleware.LoginLimiter) http.Handler {
	r := chi.NewRouter()

	r.With(limiter.Middleware).Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(h.sessions))
		r.Use(middleware.RequireRole(auth.RoleMember))

		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Get("/{id}/programs", h.ListPrograms)
	r.Put("/{id}/programs", h.UpdatePrograms)
	r.Post("/{id}/programs/{programId}", h.EnrollInProgram)
	r.Delete("/{id}/programs/{programId}", h.LeaveProgram)

	r.Get("/{id}/challenges", h.ListChallenges)
	r.Post("/{id}/challenges/{challengeId}", h.JoinChallenge)
	r.Delete("/{id}/challenges/{challengeId}", h.LeaveChallenge)

	r.Post("/{id}/upload-photo", h.UploadPhoto)

	return r
}
