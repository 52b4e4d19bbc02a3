// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/splaytree"
	"github.com/cockroachdb/splaytree/internal/base"
	"github.com/cockroachdb/splaytree/internal/randvar"
	"github.com/stretchr/testify/require"
)

func TestWorkload(t *testing.T) {
	for _, dist := range []string{"uniform", "zipf"} {
		t.Run(dist, func(t *testing.T) {
			cfg := defaultWorkloadConfig()
			cfg.keys = 1000
			cfg.preload = 500
			cfg.ops = 5000
			cfg.duration = 0
			cfg.concurrency = 4
			cfg.readPercent = 60
			cfg.deletePercent = 20
			cfg.dist = dist
			cfg.scramble = dist == "zipf"
			cfg.verifyEvery = 250
			cfg.seed = 1
			cfg.tick = time.Millisecond

			var buf bytes.Buffer
			logger := &base.InMemLogger{}
			res, err := runWorkload(context.Background(), cfg, &buf, logger)
			require.NoError(t, err)
			require.Equal(t, uint64(5000), res.ops)

			m := res.metrics
			require.Equal(t, int64(5000+500), m.Hits+m.Misses)
			require.LessOrEqual(t, m.Len, int64(cfg.keys))
			require.Contains(t, logger.String(), "preloaded")
			require.Contains(t, buf.String(), "mean(µs)")
			require.Contains(t, buf.String(), "ops/sec")
			require.Contains(t, buf.String(), "rot/op")
			require.Contains(t, buf.String(), "rotations:")
		})
	}
}

func TestWorkloadTicks(t *testing.T) {
	cfg := defaultWorkloadConfig()
	cfg.keys = 1000
	cfg.preload = 100
	cfg.duration = 50 * time.Millisecond
	cfg.tick = 5 * time.Millisecond
	cfg.concurrency = 2
	cfg.readPercent = 100
	cfg.seed = 3

	var buf bytes.Buffer
	res, err := runWorkload(context.Background(), cfg, &buf, base.NoopLogger{})
	require.NoError(t, err)
	require.NotZero(t, res.ops)
	out := buf.String()
	require.Contains(t, out, "ops/sec(inst)")
	require.Contains(t, out, " get ")
	// Only gets ran, so no other operation is reported.
	require.NotContains(t, out, " insert ")
	require.NotContains(t, out, " remove ")
	require.Contains(t, out, "throughput (ops/sec):")
}

func TestStatsRecorder(t *testing.T) {
	r := newStatsRecorder()
	w1, w2 := r.newWorker(), r.newWorker()
	w1.record(opGet, time.Microsecond, 2)
	w2.record(opGet, 3*time.Microsecond, 4)
	w2.record(opRemove, time.Microsecond, 0)

	collect := func() map[opKind]opTick {
		ticks := make(map[opKind]opTick)
		r.tick(func(tick opTick) { ticks[tick.op] = tick })
		return ticks
	}
	ticks := collect()
	require.Len(t, ticks, 2)
	require.Equal(t, int64(2), ticks[opGet].interval.count())
	require.Equal(t, 3.0, ticks[opGet].interval.rotations.Mean())
	require.Equal(t, int64(4), ticks[opGet].interval.rotations.Max())
	require.Equal(t, int64(1), ticks[opRemove].cumulative.count())

	// Idle operations keep reporting their cumulative stats.
	w1.record(opGet, time.Microsecond, 1)
	ticks = collect()
	require.Len(t, ticks, 2)
	require.Equal(t, int64(1), ticks[opGet].interval.count())
	require.Equal(t, int64(3), ticks[opGet].cumulative.count())
	require.Zero(t, ticks[opRemove].interval.count())
}

func TestWorkerRecordsRotations(t *testing.T) {
	cfg := defaultWorkloadConfig()
	cfg.keys = 100
	cfg.ops = 500
	cfg.readPercent = 50
	cfg.deletePercent = 10

	var shared sharedTree
	shared.mu.t = splaytree.NewOrdered[uint64, uint64]()
	rng := rand.New(rand.NewPCG(5, 1))
	gen, err := randvar.Parse(rng, "uniform", 0, cfg.keys-1)
	require.NoError(t, err)
	stats := newStatsRecorder()
	w := &worker{cfg: &cfg, tree: &shared, rng: rng, keys: gen, stats: stats.newWorker()}

	var issued, completed atomic.Uint64
	require.NoError(t, w.run(context.Background(), &issued, &completed))
	require.Equal(t, cfg.ops, completed.Load())

	var ops int64
	var rotations float64
	stats.tick(func(tick opTick) {
		ops += tick.cumulative.count()
		rotations += tick.cumulative.rotations.Mean() * float64(tick.cumulative.rotations.TotalCount())
	})
	require.Equal(t, int64(cfg.ops), ops)
	require.InDelta(t, float64(shared.metrics().Rotations), rotations, 0.5)
}

func TestWorkloadRateLimited(t *testing.T) {
	cfg := defaultWorkloadConfig()
	cfg.keys = 100
	cfg.ops = 200
	cfg.duration = 0
	cfg.maxOpsPerSec = 1000
	cfg.seed = 2

	var buf bytes.Buffer
	start := time.Now()
	res, err := runWorkload(context.Background(), cfg, &buf, base.NoopLogger{})
	require.NoError(t, err)
	require.Equal(t, uint64(200), res.ops)
	// The first 100 operations fit in the burst.
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestWorkloadValidate(t *testing.T) {
	for _, mutate := range []func(*workloadConfig){
		func(c *workloadConfig) { c.keys = 0 },
		func(c *workloadConfig) { c.concurrency = 0 },
		func(c *workloadConfig) { c.readPercent, c.deletePercent = 80, 30 },
		func(c *workloadConfig) { c.ops, c.duration = 0, 0 },
		func(c *workloadConfig) { c.dist = "normal" },
	} {
		cfg := defaultWorkloadConfig()
		mutate(&cfg)
		_, err := runWorkload(context.Background(), cfg, &bytes.Buffer{}, base.NoopLogger{})
		require.Error(t, err)
	}
}

func TestMetricsHandler(t *testing.T) {
	tr := splaytree.NewOrdered[uint64, uint64]()
	tr.Insert(1, 1)
	srv := httptest.NewServer(metricsHandler(tr.Metrics))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), "splaytree_keys 1")
	require.Contains(t, body.String(), `splaytree_writes_total{kind="insert"} 1`)
}
