package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sekolahku/sekolahku/internal/auth"
	jobmetrics "github.com/sekolahku/sekolahku/internal/jobs"
)

// AuthTaskHandlers processes the authentication bookkeeping tasks against
// the auth repository.
type AuthTaskHandlers struct {
	Repo    auth.Repository
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// HandleLoginAudit writes the last-login timestamp recorded at login time.
func (h AuthTaskHandlers) HandleLoginAudit(ctx context.Context, t *asynq.Task) error {
	tracker := h.Metrics.Track("login_audit")
	var payload LoginAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	if err := h.Repo.TouchLastLogin(ctx, payload.UserID, payload.At); err != nil {
		return tracker.End(err)
	}
	h.Logger.Info("login audit recorded",
		slog.String("user_id", payload.UserID),
		slog.String("ip", payload.IP))
	return tracker.End(nil)
}

// HandlePurgeSessions removes session audit rows past their expiry.
func (h AuthTaskHandlers) HandlePurgeSessions(ctx context.Context, t *asynq.Task) error {
	tracker := h.Metrics.Track("purge_sessions")
	deleted, err := h.Repo.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		return tracker.End(err)
	}
	if deleted > 0 {
		h.Logger.Info("purged expired sessions", slog.Int64("deleted", deleted))
	}
	return tracker.End(nil)
}
