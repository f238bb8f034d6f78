package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const defaultSessionIdleTTL = 2 * time.Hour

// SessionExpiryJobParams configure idle session eviction.
type SessionExpiryJobParams struct {
	Logger   *logger.Logger
	Sessions sessionExpirer
	IdleTTL  time.Duration
	// Cleanup runs for every evicted session, e.g. to drop its rate-limit keys.
	Cleanup []SessionCleanup
	Gauge   sessionGauge
}

// SessionCleanup releases resources tied to an evicted session id.
type SessionCleanup func(ctx context.Context, sessionID string) error

type sessionExpirer interface {
	ExpireIdle(idle time.Duration) []string
	Len() int
}

type sessionGauge interface {
	SetActiveSessions(n int)
}

// NewSessionExpiryJob builds the cron job that evicts idle shopper sessions.
func NewSessionExpiryJob(params SessionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session registry required")
	}
	idle := params.IdleTTL
	if idle <= 0 {
		idle = defaultSessionIdleTTL
	}
	return &sessionExpiryJob{
		logg:     params.Logger,
		sessions: params.Sessions,
		idle:     idle,
		cleanup:  params.Cleanup,
		gauge:    params.Gauge,
	}, nil
}

type sessionExpiryJob struct {
	logg     *logger.Logger
	sessions sessionExpirer
	idle     time.Duration
	cleanup  []SessionCleanup
	gauge    sessionGauge
}

func (j *sessionExpiryJob) Name() string { return "session-expiry" }

func (j *sessionExpiryJob) Run(ctx context.Context) error {
	expired := j.sessions.ExpireIdle(j.idle)

	var errs error
	for _, id := range expired {
		for _, fn := range j.cleanup {
			if err := fn(ctx, id); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("cleanup session %s: %w", id, err))
			}
		}
	}

	remaining := j.sessions.Len()
	if j.gauge != nil {
		j.gauge.SetActiveSessions(remaining)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"idle_ttl":         j.idle.String(),
		"sessions_expired": len(expired),
		"sessions_active":  remaining,
	})
	j.logg.Info(logCtx, "session expiry complete")
	return errs
}
