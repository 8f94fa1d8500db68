package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskdeck/taskdeck/internal/platform/httpx"
	"github.com/taskdeck/taskdeck/internal/shared"
)

// Middleware resolves the bearer token on inbound requests into an
// authenticated principal.
type Middleware struct {
	Codec  *TokenCodec
	Users  Repository
	Logger *slog.Logger
}

// RequireUser decodes the Authorization bearer token, loads the matching user
// and stores the principal in the request context. Every failure (missing
// header, undecodable token, unknown subject) produces the same 401 response;
// the distinct reason is only visible in debug logs.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.reject(w, r, "missing bearer token")
			return
		}

		subject, ok := m.Codec.Decode(token)
		if !ok {
			m.reject(w, r, "invalid or expired token")
			return
		}

		user, err := m.Users.FindByEmail(r.Context(), subject)
		if err != nil {
			m.reject(w, r, "token subject not found")
			return
		}

		ctx := shared.ContextWithPrincipal(r.Context(), shared.Principal{
			UserID: user.ID,
			Email:  user.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) reject(w http.ResponseWriter, r *http.Request, reason string) {
	if m.Logger != nil {
		m.Logger.Debug("unauthenticated request",
			slog.String("path", r.URL.Path),
			slog.String("reason", reason),
		)
	}
	httpx.Unauthorized(w)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
