package auth_test

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekolahku/sekolahku/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRouter(h *auth.Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/auth", h.MountRoutes)
	return r
}

// withSession wraps a router with the token-resolving middleware, without a
// live status checker.
func withSession(next http.Handler, tokens *auth.TokenManager) http.Handler {
	mw := auth.SessionMiddleware{Tokens: tokens, Logger: discardLogger()}
	return mw.Handler(next)
}
