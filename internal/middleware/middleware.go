package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/utils"
)

type SessionFetcher interface {
	FindSessionByID(ctx context.Context, id string) (utils.SessionData, error)
}

// BearerToken returns the token from "Authorization: Bearer <token>", or the
// session_id cookie when the header is absent.
func BearerToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}
	if cookie, err := r.Cookie("session_id"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				apperr.Write(w, apperr.Unauthorized("Missing bearer token"))
				return
			}

			session, err := fetcher.FindSessionByID(r.Context(), token)
			if err != nil {
				apperr.Write(w, apperr.Unauthorized("Couldn't find session"))
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				apperr.Write(w, apperr.Unauthorized("Session expired"))
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), session)))
		})
	}
}

// RequireRole rejects sessions of any other role. It must run after
// SessionMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := utils.GetSessionFromContext(r.Context())
			if !ok {
				apperr.Write(w, apperr.Unauthorized("Unauthorized: missing session in context"))
				return
			}

			if session.Role != role {
				apperr.Write(w, apperr.Forbidden("Forbidden: "+role+" access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewCORSMiddleware echoes the request origin back only if it is on the
// allow-list.
func NewCORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
