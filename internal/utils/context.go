package utils

import (
	"context"
	"time"
)

type contextKey string

const ContextSessionKey contextKey = "session"

// SessionData is what middleware needs to know about a bearer token.
type SessionData struct {
	Role      string
	SubjectID uint
	ExpiresAt time.Time
}

func WithSession(ctx context.Context, s SessionData) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

func GetSessionFromContext(ctx context.Context) (SessionData, bool) {
	s, ok := ctx.Value(ContextSessionKey).(SessionData)
	return s, ok
}
