// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry policy and HTTP helpers shared by every
// source adapter.
package httputil

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// Policy retries a call up to MaxAttempts times, waiting a constant Delay
// between failed attempts. Exhaustion is reported as a value, never as an error.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Logger      zerolog.Logger

	// Sleep waits between attempts. Tests replace it to avoid real waits.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnFailure, if set, observes every failed attempt.
	OnFailure func(name string, attempt int, err error)

	// OnExhausted, if set, observes calls that used up every attempt.
	OnExhausted func(name string)
}

// NewPolicy builds a Policy from configuration. Non-positive attempt counts
// fall back to types.DefaultMaxAttempts.
func NewPolicy(cfg types.RetryConfig, logger zerolog.Logger) Policy {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = types.DefaultMaxAttempts
	}
	return Policy{
		MaxAttempts: attempts,
		Delay:       cfg.Delay,
		Logger:      logger,
	}
}

// Do invokes call until it succeeds or the policy's attempts are used up.
// The first successful result is returned immediately with ok set. After the
// last failed attempt Do returns the zero value and ok=false without waiting
// again. A cancelled context ends the loop early with ok=false.
func Do[T any](ctx context.Context, p Policy, name string, call func(context.Context) (T, error)) (result T, ok bool) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = types.DefaultMaxAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := call(ctx)
		if err == nil {
			return v, true
		}
		if p.OnFailure != nil {
			p.OnFailure(name, attempt, err)
		}
		p.Logger.Warn().
			Str("call", name).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Err(err).
			Msg("attempt failed")

		if attempt == attempts {
			break
		}
		if err := sleep(ctx, p.Delay); err != nil {
			p.Logger.Warn().Str("call", name).Err(err).Msg("retry wait interrupted")
			var zero T
			return zero, false
		}
	}

	p.Logger.Warn().Str("call", name).Int("attempts", attempts).Msg("retries exhausted")
	if p.OnExhausted != nil {
		p.OnExhausted(name)
	}
	var zero T
	return zero, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
