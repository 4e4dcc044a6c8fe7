// Package sync keeps the local wall snapshot fresh: a cancellable periodic
// refresh task with jitter and exponential backoff on failure.
package sync

import (
	"context"
	"math/rand"
	"time"
)

// jitterFraction spreads refresh ticks so many clients watching the same
// wall do not hit the server in lockstep.
const jitterFraction = 0.2

// backoffCap bounds the failure backoff as a multiple of the base interval;
// log2BackoffCap is the shift count at which the doubling reaches it.
const (
	backoffCap     = 8
	log2BackoffCap = 3
)

// Refresher invokes a refresh function on a jittered interval. While the
// function keeps failing, the interval doubles up to a cap; the first
// success resets it.
type Refresher struct {
	base    time.Duration
	refresh func(ctx context.Context) error

	// Seams for tests: the sleeper can be replaced to fast-forward time,
	// and the jitter source to make delays deterministic.
	sleep  func(ctx context.Context, d time.Duration) error
	random func() float64
}

func NewRefresher(base time.Duration, refresh func(ctx context.Context) error) *Refresher {
	return &Refresher{
		base:    base,
		refresh: refresh,
		sleep:   sleepCtx,
		random:  rand.Float64,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// next computes the delay before the following refresh. failures counts
// consecutive errors so far; zero means the last refresh succeeded.
func (r *Refresher) next(failures int) time.Duration {
	if failures > 0 {
		// Clamp the exponent, not the product: an unbounded shift wraps
		// negative on long outages and a negative delay busy-loops the
		// refresher against a server that is already down.
		if uint(failures-1) >= log2BackoffCap {
			return r.base * backoffCap
		}
		return r.base << uint(failures-1)
	}
	jitter := time.Duration(float64(r.base) * jitterFraction * r.random())
	return r.base + jitter
}

// Run refreshes until the context is cancelled. The first refresh happens
// immediately so a newly opened wall is never stale for a full interval.
func (r *Refresher) Run(ctx context.Context) {
	failures := 0
	for {
		if err := r.refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
		} else {
			failures = 0
		}

		if err := r.sleep(ctx, r.next(failures)); err != nil {
			return
		}
	}
}
