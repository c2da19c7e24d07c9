// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer spaces per-identifier requests of two-phase providers. The delay runs
// from the end of one request to the start of the next, so a slow response
// never eats into the gap. The first Wait returns immediately.
type pacer struct {
	every rate.Limit
	lim   *rate.Limiter
}

func newPacer(delay time.Duration) *pacer {
	every := rate.Inf
	if delay > 0 {
		every = rate.Every(delay)
	}
	return &pacer{every: every, lim: rate.NewLimiter(every, 1)}
}

// Wait blocks until the next request may start or ctx is done.
func (p *pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

// Done marks the end of a request. The next Wait blocks for the full delay
// from this moment.
func (p *pacer) Done() {
	p.lim = rate.NewLimiter(p.every, 1)
	p.lim.Allow()
}
