package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/sessions"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// DefaultSessionHeader carries the session id in both directions.
const DefaultSessionHeader = "X-Storefront-Session"

type sessionResolver interface {
	Resolve(id string) (*sessions.Session, bool)
}

// Session resolves the caller's session from header, creating one when the
// id is missing or unknown. The effective id is always echoed back.
func Session(header string, registry sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	header = strings.TrimSpace(header)
	if header == "" {
		header = DefaultSessionHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, created := registry.Resolve(r.Header.Get(header))
			w.Header().Set(header, session.ID)

			ctx := WithSession(r.Context(), session)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, session.ID)
				if created {
					logg.Debug(ctx, "session.created")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
