// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// recordingSleep counts waits instead of sleeping.
type recordingSleep struct {
	waits []time.Duration
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func testPolicy(attempts int, rs *recordingSleep) Policy {
	return Policy{
		MaxAttempts: attempts,
		Delay:       5 * time.Second,
		Logger:      zerolog.Nop(),
		Sleep:       rs.sleep,
	}
}

func TestDo_ImmediateSuccess(t *testing.T) {
	rs := &recordingSleep{}
	calls := 0
	v, ok := Do(context.Background(), testPolicy(3, rs), "ok", func(context.Context) (string, error) {
		calls++
		return "done", nil
	})

	assert.True(t, ok)
	assert.Equal(t, "done", v)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rs.waits)
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	rs := &recordingSleep{}
	calls := 0
	v, ok := Do(context.Background(), testPolicy(3, rs), "flaky", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("boom")
		}
		return 42, nil
	})

	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, rs.waits)
}

func TestDo_AlwaysFailingInvokesExactlyMaxAttempts(t *testing.T) {
	for _, attempts := range []int{1, 2, 3, 7} {
		rs := &recordingSleep{}
		calls := 0
		v, ok := Do(context.Background(), testPolicy(attempts, rs), "down", func(context.Context) (map[string]any, error) {
			calls++
			return map[string]any{"partial": true}, errors.New("unavailable")
		})

		assert.False(t, ok, "attempts=%d", attempts)
		assert.Nil(t, v, "exhaustion returns the zero value")
		assert.Equal(t, attempts, calls)
		// No wait after the final attempt.
		assert.Len(t, rs.waits, attempts-1)
	}
}

func TestDo_DefaultAttempts(t *testing.T) {
	calls := 0
	_, ok := Do(context.Background(), Policy{Logger: zerolog.Nop(), Sleep: (&recordingSleep{}).sleep}, "default",
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("fail")
		})
	assert.False(t, ok)
	assert.Equal(t, types.DefaultMaxAttempts, calls)
}

func TestDo_OnFailureObservesEachAttempt(t *testing.T) {
	var seen []int
	p := testPolicy(3, &recordingSleep{})
	p.OnFailure = func(name string, attempt int, err error) {
		assert.Equal(t, "observed", name)
		seen = append(seen, attempt)
	}
	Do(context.Background(), p, "observed", func(context.Context) (int, error) {
		return 0, errors.New("fail")
	})
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestDo_OnExhaustedOnlyAfterLastAttempt(t *testing.T) {
	var exhausted []string
	p := testPolicy(2, &recordingSleep{})
	p.OnExhausted = func(name string) { exhausted = append(exhausted, name) }

	fails := 0
	_, ok := Do(context.Background(), p, "flaky", func(context.Context) (int, error) {
		fails++
		if fails == 1 {
			return 0, errors.New("fail")
		}
		return 1, nil
	})
	require.True(t, ok)
	assert.Empty(t, exhausted)

	_, ok = Do(context.Background(), p, "down", func(context.Context) (int, error) {
		return 0, errors.New("fail")
	})
	require.False(t, ok)
	assert.Equal(t, []string{"down"}, exhausted)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := Policy{MaxAttempts: 5, Delay: time.Hour, Logger: zerolog.Nop()}
	calls := 0
	start := time.Now()
	_, ok := Do(ctx, p, "slow", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("fail")
	})

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestNewPolicy(t *testing.T) {
	p := NewPolicy(types.RetryConfig{MaxAttempts: 0, Delay: time.Second}, zerolog.Nop())
	require.Equal(t, types.DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Delay)
}
