package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// sweepTimeout bounds a single cleanup sweep so a slow database cannot stall
// the cleaner loop indefinitely.
const sweepTimeout = 30 * time.Second

// Cleaner runs the expired-session sweep on a fixed interval. It holds no
// locks that block issuance or verification; each sweep is one delete.
type Cleaner struct {
	service  *TokenService
	interval time.Duration
}

// NewCleaner returns a Cleaner that sweeps via service every interval.
func NewCleaner(service *TokenService, interval time.Duration) *Cleaner {
	return &Cleaner{service: service, interval: interval}
}

// Run sweeps once immediately, then on every interval tick until ctx is
// cancelled. Sweep failures are logged and do not stop the loop.
func (c *Cleaner) Run(ctx context.Context) {
	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Cleaner) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	count, err := c.service.CleanExpiredTokens(sweepCtx)
	if err != nil {
		log.Error().Err(err).Msg("cleaner: expired-session sweep failed")
		return
	}
	if count > 0 {
		log.Info().Int64("sessions_removed", count).Msg("cleaner: removed expired sessions")
	}
}
