package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/sessions"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the session attached by the Session middleware.
func SessionFromContext(ctx context.Context) *sessions.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*sessions.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the session into the context for downstream handlers.
func WithSession(ctx context.Context, session *sessions.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, session)
}
