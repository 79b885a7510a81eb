package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("member %d not found", 1), http.StatusNotFound},
		{InvalidCredentials("bad"), http.StatusUnauthorized},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("admins only"), http.StatusForbidden},
		{Validation("weak"), http.StatusBadRequest},
		{Conflict("dup", nil), http.StatusConflict},
		{TooManyRequests("slow down"), http.StatusTooManyRequests},
		{Upstream("mail down", errors.New("ses")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("x")), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("program %d not found", 4))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestWrite_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("pq: relation \"members\" does not exist"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Internal server error", env.Error)
	assert.Equal(t, genericMessage, env.Message)
}

func TestWrite_NotFoundEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NotFound("Member not found with id %d", 9))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Not Found", env.Error)
	assert.Equal(t, "Member not found with id 9", env.Message)
}

func TestWrite_InternalUsesGenericMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, Internal("select members", errors.New("connection reset")))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, genericMessage, env.Message)
}
