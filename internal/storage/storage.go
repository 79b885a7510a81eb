// Package storage keeps uploaded profile photos and serves them back by URL.
package storage

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// URLPrefix is the path every stored photo URL starts with.
const URLPrefix = "/uploads/profile-photos/"

var (
	ErrNotFound    = errors.New("photo not found")
	ErrInvalidName = errors.New("invalid photo name")
)

// PhotoStore stores bytes under a name and returns a stable URL path.
type PhotoStore interface {
	Store(ctx context.Context, data []byte, name string) (string, error)
	Retrieve(ctx context.Context, url string) ([]byte, error)
}

// nameFromURL validates a URL produced by Store and returns the object name.
func nameFromURL(url string) (string, error) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", ErrInvalidName
	}
	return cleanName(strings.TrimPrefix(url, URLPrefix))
}

// cleanName rejects anything that is not a single path element.
func cleanName(name string) (string, error) {
	if name == "" || name != path.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return name, nil
}

// SetupRoutes serves stored photos at URLPrefix + "{name}".
func SetupRoutes(store PhotoStore) http.Handler {
	r := chi.NewRouter()
	r.Get("/{name}", func(w http.ResponseWriter, r *http.Request) {
		data, err := store.Retrieve(r.Context(), URLPrefix+chi.URLParam(r, "name"))
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidName):
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "Failed to read photo", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(data))
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(data)
	})
	return r
}
