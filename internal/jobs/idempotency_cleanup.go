package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type expiredPurger interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// IdempotencyCleanup deletes cached idempotent responses past their expiry.
type IdempotencyCleanup struct {
	cache expiredPurger
	log   *slog.Logger
	now   func() time.Time
}

func NewIdempotencyCleanup(cache expiredPurger, log *slog.Logger) *IdempotencyCleanup {
	return &IdempotencyCleanup{cache: cache, log: log, now: time.Now}
}

func (j *IdempotencyCleanup) Name() string { return "idempotency-cleanup" }

func (j *IdempotencyCleanup) Run(ctx context.Context) error {
	n, err := j.cache.DeleteExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("IdempotencyCleanup: %w", err)
	}
	if n > 0 {
		j.log.Info("purged expired idempotency entries", "count", n)
	}
	return nil
}
