package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sekolahku/sekolahku/internal/authz"
)

// CookieName is the HTTP-only cookie carrying the session token.
const CookieName = "sekolahku_session"

// SessionMiddleware resolves the inbound session token and attaches the
// session to the request context. A missing or invalid token is not an
// error here: the request proceeds without a session and the authorization
// middleware denies it uniformly.
type SessionMiddleware struct {
	Tokens  *TokenManager
	Checker *ActiveChecker
	Logger  *slog.Logger
}

// Handler is the chi-compatible middleware function.
func (m SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := m.Tokens.Resolve(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if sess.IsActive {
			sess.IsActive = m.Checker.IsActive(r.Context(), sess.UserID, sess.IsActive)
		}
		ctx := authz.ContextWithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}
