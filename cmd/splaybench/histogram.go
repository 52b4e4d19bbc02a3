// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
)

const (
	minLatency = 10 * time.Nanosecond
	maxLatency = 10 * time.Second

	// maxRotations bounds the rotations recorded for a single operation. A
	// splay performs at most depth rotations.
	maxRotations = 1 << 24
)

// opStats holds what was observed for one kind of operation: how long each
// operation took and how many rotations its splay performed.
type opStats struct {
	latency   *hdrhistogram.Histogram
	rotations *hdrhistogram.Histogram
}

func newOpStats() opStats {
	return opStats{
		latency:   hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 1),
		rotations: hdrhistogram.New(1, maxRotations, 2),
	}
}

func (s opStats) count() int64 {
	return s.latency.TotalCount()
}

func (s opStats) merge(o opStats) {
	s.latency.Merge(o.latency)
	s.rotations.Merge(o.rotations)
}

// opRecorder is owned by one worker. The recorder swaps its stats out on
// every tick.
type opRecorder struct {
	mu struct {
		sync.Mutex
		cur [numOps]opStats
	}
}

func newOpRecorder() *opRecorder {
	r := &opRecorder{}
	for op := range r.mu.cur {
		r.mu.cur[op] = newOpStats()
	}
	return r
}

func (r *opRecorder) record(op opKind, elapsed time.Duration, rotations int64) {
	elapsed = min(max(elapsed, minLatency), maxLatency)
	rotations = min(rotations, maxRotations)

	r.mu.Lock()
	s := r.mu.cur[op]
	err := errors.CombineErrors(
		s.latency.RecordValue(elapsed.Nanoseconds()),
		s.rotations.RecordValue(rotations))
	r.mu.Unlock()

	if err != nil {
		// Values are clamped to the histograms' ranges above.
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "recording %s", opNames[op]))
	}
}

func (r *opRecorder) swap() [numOps]opStats {
	fresh := [numOps]opStats{}
	for op := range fresh {
		fresh[op] = newOpStats()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.mu.cur
	r.mu.cur = fresh
	return cur
}

// opTick summarizes one kind of operation at a tick.
type opTick struct {
	op opKind
	// interval covers the operations completed since the previous tick.
	interval opStats
	// cumulative covers every operation completed so far.
	cumulative opStats
	// elapsed is the time since the previous tick.
	elapsed time.Duration
}

// statsRecorder merges the per-operation stats of every worker. Its tick
// method must only be called from a single goroutine.
type statsRecorder struct {
	mu struct {
		sync.Mutex
		workers []*opRecorder
	}

	start      time.Time
	last       time.Time
	cumulative [numOps]opStats
}

func newStatsRecorder() *statsRecorder {
	now := time.Now()
	r := &statsRecorder{start: now, last: now}
	for op := range r.cumulative {
		r.cumulative[op] = newOpStats()
	}
	return r
}

func (r *statsRecorder) newWorker() *opRecorder {
	w := newOpRecorder()
	r.mu.Lock()
	r.mu.workers = append(r.mu.workers, w)
	r.mu.Unlock()
	return w
}

// tick drains every worker and calls fn, in opKind order, for each kind of
// operation that has run at least once.
func (r *statsRecorder) tick(fn func(opTick)) {
	r.mu.Lock()
	workers := append([]*opRecorder(nil), r.mu.workers...)
	r.mu.Unlock()

	var interval [numOps]opStats
	for op := range interval {
		interval[op] = newOpStats()
	}
	for _, w := range workers {
		stats := w.swap()
		for op := range stats {
			interval[op].merge(stats[op])
		}
	}

	now := time.Now()
	elapsed := now.Sub(r.last)
	r.last = now
	for op := range interval {
		r.cumulative[op].merge(interval[op])
		if r.cumulative[op].count() == 0 {
			continue
		}
		fn(opTick{
			op:         opKind(op),
			interval:   interval[op],
			cumulative: r.cumulative[op],
			elapsed:    elapsed,
		})
	}
}
