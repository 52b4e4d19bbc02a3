// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	var slept time.Duration
	l := NewLimiterWithCustomTime(100, 10,
		func() time.Time { return now },
		func(_ context.Context, d time.Duration) error {
			slept += d
			now = now.Add(d)
			return nil
		})

	// The initial burst is admitted without waiting.
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(ctx, 1))
	}
	require.Zero(t, slept)

	// Afterwards operations are paced at 100/s.
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(ctx, 1))
	}
	require.InDelta(t, time.Second.Seconds(), slept.Seconds(), 0.05)
}

func TestLimiterCanceled(t *testing.T) {
	// One token every 100 seconds.
	l := NewLimiter(0.01, 1)
	require.NoError(t, l.Wait(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := l.Wait(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Wait(canceled, 1), context.Canceled)
}
