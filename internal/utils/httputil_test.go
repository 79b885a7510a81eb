package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"A","email":"a@x.com"}`, ""},
		{"empty body", ``, "Request body is required"},
		{"malformed", `{"name":`, "Invalid request body"},
		{"missing name", `{"email":"a@x.com"}`, "Name is required"},
		{"bad email", `{"name":"A","email":"nope"}`, "Email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst signup
			err := DecodeJSON(req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "A", dst.Name)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestURLParamID(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	var gotErr error
	r.Get("/members/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = URLParamID(r, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/members/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, uint(42), got)

	for _, bad := range []string{"0", "abc", "-3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/members/"+bad, nil))
		assert.ErrorIs(t, gotErr, apperr.ErrValidation, bad)
	}
}

func TestSessionContextRoundTrip(t *testing.T) {
	_, ok := GetSessionFromContext(context.Background())
	assert.False(t, ok)

	want := SessionData{Role: "admin", SubjectID: 7, ExpiresAt: time.Now()}
	got, ok := GetSessionFromContext(WithSession(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
