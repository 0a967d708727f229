package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const recoverAfter = time.Minute

// FailoverLimiter asks primary first and switches to fallback while
// primary is failing. Primary is retried once recoverAfter has passed.
type FailoverLimiter struct {
	primary   Limiter
	fallback  Limiter
	logger    zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

func NewFailover(primary, fallback Limiter, logger *zerolog.Logger) *FailoverLimiter {
	l := &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	if logger != nil {
		l.logger = logger.With().Str("component", "ratelimit").Logger()
	}
	return l
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.isDown.Load() && l.now().Sub(time.Unix(0, l.lastCheck.Load())) > recoverAfter {
		l.isDown.Store(false)
	}

	if !l.isDown.Load() {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			return allowed, nil
		}
		l.logger.Error().Err(err).Msg("primary rate limiter failed, falling back to memory")
		l.isDown.Store(true)
		l.lastCheck.Store(l.now().UnixNano())
	}

	return l.fallback.Allow(ctx, key)
}
