package authz

import (
	"log/slog"
	"net/http"

	"github.com/sekolahku/sekolahku/internal/observability"
	"github.com/sekolahku/sekolahku/internal/platform/httpx"
)

// Middleware wires authorization checks for HTTP handlers. The session is
// expected in the request context, placed there by the authentication
// middleware (internal/auth).
type Middleware struct {
	Engine  *Engine
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// RequireModule gates a route group behind an Authorize decision for the
// given module. Unauthenticated requests get 401, denied ones 403; on
// ALLOW the decision's tenant scope is stored in the request context for
// downstream handlers and repositories.
func (m Middleware) RequireModule(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			decision := m.Engine.Authorize(sess, module)
			m.Metrics.ObserveDecision(module, decision.Allowed)
			if !decision.Allowed {
				if sess == nil {
					httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				if m.Logger != nil {
					m.Logger.Warn("access denied",
						slog.String("module", module),
						slog.String("role", string(sess.Role)),
						slog.String("reason", decision.Reason))
				}
				httpx.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			ctx := ContextWithScope(r.Context(), decision.Scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMinimumRole gates a route group behind a rank check. Used only
// where a strict hierarchy is semantically right; module checks use
// RequireModule.
func (m Middleware) RequireMinimumRole(minimum Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !sess.IsActive || !HasMinimumRole(sess.Role, minimum) {
				httpx.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
