// Package apperr defines the typed failures services return and the single
// place they are turned into HTTP responses.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindValidation         Kind = "validation"
	KindConflict           Kind = "conflict"
	KindUpstream           Kind = "upstream"
	KindInternal           Kind = "internal"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindTooManyRequests    Kind = "too_many_requests"
)

// Error is a failure with a kind that decides its HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind, e.g. errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind-only sentinels for errors.Is.
var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrUpstream           = &Error{Kind: KindUpstream}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidCredentials(msg string) *Error {
	return &Error{Kind: KindInvalidCredentials, Message: msg}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func TooManyRequests(msg string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: msg}
}

// Envelope is the body of every error response.
type Envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const genericMessage = "An unexpected error occurred"

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCredentials, KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Write renders err as the uniform {error, message} envelope. Upstream and
// unclassified failures are logged and answered with a generic message.
func Write(w http.ResponseWriter, err error) {
	status := Status(err)

	env := Envelope{Error: http.StatusText(status)}
	var appErr *Error
	switch {
	case !errors.As(err, &appErr):
		log.Printf("[apperr] unhandled error: %v", err)
		env.Error = "Internal server error"
		env.Message = genericMessage
	case appErr.Kind == KindUpstream || appErr.Kind == KindInternal:
		log.Printf("[apperr] %s: %v", appErr.Kind, err)
		env.Message = genericMessage
		if appErr.Kind == KindUpstream && appErr.Message != "" {
			env.Message = appErr.Message
		}
	default:
		env.Message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
