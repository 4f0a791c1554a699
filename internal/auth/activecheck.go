package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/sekolahku/sekolahku/internal/shared"
)

// ActiveChecker re-verifies an account's live is_active flag at most once
// per interval. Token claims carry a snapshot from issuance; this bounds
// the window in which a deactivated account can keep using an otherwise
// valid token to the re-check interval instead of the full token TTL.
//
// Verdicts are cached in Redis so the check costs one GET on the hot path.
// Concurrent misses for the same user collapse into a single database read.
// If both Redis and Postgres are unreachable the checker fails open to the
// claims snapshot; a deactivation then takes effect at token expiry.
type ActiveChecker struct {
	client   *redis.Client
	repo     Repository
	interval time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

// NewActiveChecker constructs an ActiveChecker. interval defaults to five
// minutes when non-positive.
func NewActiveChecker(client *redis.Client, repo Repository, interval time.Duration, logger *slog.Logger) *ActiveChecker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ActiveChecker{client: client, repo: repo, interval: interval, logger: logger}
}

// IsActive returns the account's current active verdict. claimed is the
// snapshot from the token, used as the fallback when no live answer can be
// obtained.
func (c *ActiveChecker) IsActive(ctx context.Context, userID string, claimed bool) bool {
	if c == nil || userID == "" {
		return claimed
	}
	key := c.key(userID)
	if c.client != nil {
		cached, err := c.client.Get(ctx, key).Result()
		switch {
		case err == nil:
			return cached == "1"
		case !errors.Is(err, redis.Nil):
			if c.logger != nil {
				c.logger.Warn("active check cache read", slog.Any("error", err))
			}
		}
	}

	verdict, err, _ := c.group.Do(userID, func() (any, error) {
		active, err := c.repo.GetActive(ctx, userID)
		if err != nil {
			return nil, err
		}
		if c.client != nil {
			value := "0"
			if active {
				value = "1"
			}
			if err := c.client.Set(ctx, key, value, c.interval).Err(); err != nil && c.logger != nil {
				c.logger.Warn("active check cache write", slog.Any("error", err))
			}
		}
		return active, nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Account deleted outright: treat as deactivated.
			return false
		}
		if c.logger != nil {
			c.logger.Warn("active check lookup", slog.Any("error", err))
		}
		return claimed
	}
	return verdict.(bool)
}

// Invalidate drops the cached verdict so the next request re-checks
// immediately. Called when an admin deactivates an account.
func (c *ActiveChecker) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil && c.logger != nil {
		c.logger.Warn("active check invalidate", slog.Any("error", err))
	}
}

func (c *ActiveChecker) key(userID string) string {
	return "active:" + userID
}
