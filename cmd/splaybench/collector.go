// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"github.com/cockroachdb/splaytree"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsCollector exports the counters of a tree as Prometheus metrics. The
// snapshot function must be safe to call concurrently with the workload.
type metricsCollector struct {
	snapshot func() splaytree.Metrics

	keys      *prometheus.Desc
	lookups   *prometheus.Desc
	writes    *prometheus.Desc
	rotations *prometheus.Desc
	steps     *prometheus.Desc
}

var _ prometheus.Collector = (*metricsCollector)(nil)

func newMetricsCollector(snapshot func() splaytree.Metrics) *metricsCollector {
	return &metricsCollector{
		snapshot: snapshot,
		keys: prometheus.NewDesc("splaytree_keys",
			"Number of keys in the tree.", nil, nil),
		lookups: prometheus.NewDesc("splaytree_lookups_total",
			"Keyed lookups by outcome.", []string{"result"}, nil),
		writes: prometheus.NewDesc("splaytree_writes_total",
			"Mutations by kind.", []string{"kind"}, nil),
		rotations: prometheus.NewDesc("splaytree_rotations_total",
			"Single rotations performed while splaying.", nil, nil),
		steps: prometheus.NewDesc("splaytree_splay_steps_total",
			"Splay steps by shape.", []string{"step"}, nil),
	}
}

func (c *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.lookups
	ch <- c.writes
	ch <- c.rotations
	ch <- c.steps
}

func (c *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.snapshot()
	counter := func(desc *prometheus.Desc, v int64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), labels...)
	}
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(m.Len))
	counter(c.lookups, m.Hits, "hit")
	counter(c.lookups, m.Misses, "miss")
	counter(c.writes, m.Inserts, "insert")
	counter(c.writes, m.Updates, "update")
	counter(c.writes, m.Removes, "remove")
	counter(c.rotations, m.Rotations)
	counter(c.steps, m.Splay.Zig, "zig")
	counter(c.steps, m.Splay.ZigZig, "zig-zig")
	counter(c.steps, m.Splay.ZigZag, "zig-zag")
}
