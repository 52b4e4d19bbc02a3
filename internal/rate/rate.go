// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package rate paces operations issued by concurrent workers.
package rate

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/tokenbucket"
)

// A Limiter admits operations at a steady rate. It is a token bucket of size
// burst, initially full and refilled at opsPerSec tokens per second; every
// operation consumes one token.
//
// Limiter is thread-safe.
type Limiter struct {
	mu struct {
		sync.Mutex
		tb tokenbucket.TokenBucket
	}
	sleepFn func(ctx context.Context, d time.Duration) error
}

// NewLimiter returns a Limiter admitting opsPerSec operations per second with
// bursts of at most burst operations.
func NewLimiter(opsPerSec, burst float64) *Limiter {
	l := &Limiter{sleepFn: sleep}
	l.mu.tb.Init(tokenbucket.TokensPerSecond(opsPerSec), tokenbucket.Tokens(burst))
	return l
}

// NewLimiterWithCustomTime is like NewLimiter but takes the functions used to
// read the clock and to sleep.
func NewLimiterWithCustomTime(
	opsPerSec, burst float64,
	nowFn func() time.Time,
	sleepFn func(ctx context.Context, d time.Duration) error,
) *Limiter {
	l := &Limiter{sleepFn: sleepFn}
	l.mu.tb.InitWithNowFn(tokenbucket.TokensPerSecond(opsPerSec), tokenbucket.Tokens(burst), nowFn)
	return l
}

// Wait blocks until n operations may proceed or ctx is done, in which case
// it returns ctx's error. Asking for more than the burst puts the bucket into
// debt, delaying later callers.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.mu.Lock()
		ok, d := l.mu.tb.TryToFulfill(tokenbucket.Tokens(n))
		l.mu.Unlock()
		if ok {
			return nil
		}
		if err := l.sleepFn(ctx, d); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
