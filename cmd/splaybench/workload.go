// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/splaytree"
	"github.com/cockroachdb/splaytree/internal/randvar"
	"github.com/cockroachdb/splaytree/internal/rate"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type workloadConfig struct {
	keys          uint64
	preload       uint64
	ops           uint64
	duration      time.Duration
	concurrency   int
	readPercent   int
	deletePercent int
	dist          string
	scramble      bool
	maxOpsPerSec  float64
	verifyEvery   uint64
	metricsAddr   string
	seed          uint64
	tick          time.Duration
}

func defaultWorkloadConfig() workloadConfig {
	return workloadConfig{
		keys:        1_000_000,
		duration:    10 * time.Second,
		concurrency: 1,
		readPercent: 50,
		dist:        "zipf",
		seed:        uint64(time.Now().UnixNano()),
		tick:        time.Second,
	}
}

var workloadCfg = defaultWorkloadConfig()

var workloadCmd = &cobra.Command{
	Use:   "workload",
	Short: "run a random get/insert/remove workload against a single tree",
	Long: `
Runs a mix of gets, inserts and removes against one splay tree shared by all
workers. Every operation, reads included, restructures the tree, so workers
serialize on a single lock. Per-operation latencies are printed every tick and
summarized at the end.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		_, err := runWorkload(ctx, workloadCfg, cmd.OutOrStdout(), splaytree.DefaultLogger{})
		return err
	},
}

func init() {
	f := workloadCmd.Flags()
	f.Uint64Var(&workloadCfg.keys, "keys", workloadCfg.keys, "size of the key space")
	f.Uint64Var(&workloadCfg.preload, "preload", 0, "number of random keys to insert before measuring")
	f.Uint64VarP(&workloadCfg.ops, "ops", "n", 0, "maximum number of operations (0 means unlimited)")
	f.DurationVarP(&workloadCfg.duration, "duration", "d", workloadCfg.duration, "the duration to run (0, run until --ops)")
	f.IntVarP(&workloadCfg.concurrency, "concurrency", "c", workloadCfg.concurrency, "number of concurrent workers")
	f.IntVar(&workloadCfg.readPercent, "read-percent", workloadCfg.readPercent, "percentage of operations that are gets")
	f.IntVar(&workloadCfg.deletePercent, "delete-percent", 0, "percentage of operations that are removes")
	f.StringVar(&workloadCfg.dist, "dist", workloadCfg.dist, `key distribution: "uniform", "zipf" or "zipf:<theta>"`)
	f.BoolVar(&workloadCfg.scramble, "scramble", false, "hash keys so that popular keys are spread over the key space")
	f.Float64Var(&workloadCfg.maxOpsPerSec, "max-ops-per-sec", 0, "rate limit across all workers (0 means unlimited)")
	f.Uint64Var(&workloadCfg.verifyEvery, "verify-every", 0, "verify the tree every N operations (0 disables)")
	f.StringVar(&workloadCfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.Uint64Var(&workloadCfg.seed, "seed", workloadCfg.seed, "random seed")
}

func (cfg workloadConfig) validate() error {
	switch {
	case cfg.keys == 0:
		return errors.New("--keys must be positive")
	case cfg.concurrency <= 0:
		return errors.New("--concurrency must be positive")
	case cfg.readPercent < 0 || cfg.deletePercent < 0 || cfg.readPercent+cfg.deletePercent > 100:
		return errors.Newf("--read-percent (%d) and --delete-percent (%d) must add up to at most 100",
			cfg.readPercent, cfg.deletePercent)
	case cfg.ops == 0 && cfg.duration == 0:
		return errors.New("one of --ops or --duration must be set")
	}
	return nil
}

// sharedTree serializes access to a tree. Lookups splay, so there are no
// read-only operations and a plain mutex is the right lock.
type sharedTree struct {
	mu struct {
		sync.Mutex
		t *splaytree.Tree[uint64, uint64]
	}
}

func (s *sharedTree) metrics() splaytree.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.t.Metrics()
}

func metricsHandler(snapshot func() splaytree.Metrics) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newMetricsCollector(snapshot))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

type opKind int

const (
	opGet opKind = iota
	opInsert
	opRemove

	numOps = iota
)

var opNames = [numOps]string{opGet: "get", opInsert: "insert", opRemove: "remove"}

type workloadResult struct {
	ops     uint64
	elapsed time.Duration
	metrics splaytree.Metrics
	depth   int
}

func runWorkload(
	ctx context.Context, cfg workloadConfig, out io.Writer, logger splaytree.Logger,
) (workloadResult, error) {
	if err := cfg.validate(); err != nil {
		return workloadResult{}, err
	}
	if _, err := randvar.Parse(nil, cfg.dist, 0, cfg.keys-1); err != nil {
		return workloadResult{}, err
	}
	if cfg.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.duration)
		defer cancel()
	}

	var shared sharedTree
	shared.mu.t = splaytree.New[uint64, uint64](splaytree.Options[uint64]{
		Compare: cmp.Compare[uint64],
		Logger:  logger,
	})
	if cfg.preload > 0 {
		rng := rand.New(rand.NewPCG(cfg.seed, 0))
		for i := uint64(0); i < cfg.preload; i++ {
			k := rng.Uint64N(cfg.keys)
			shared.mu.t.Insert(k, k)
		}
		logger.Infof("preloaded %d keys, depth %d", shared.mu.t.Len(), shared.mu.t.Depth())
	}

	if cfg.metricsAddr != "" {
		ln, err := net.Listen("tcp", cfg.metricsAddr)
		if err != nil {
			return workloadResult{}, errors.Wrapf(err, "listening on %s", cfg.metricsAddr)
		}
		srv := &http.Server{Handler: metricsHandler(shared.metrics)}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
		logger.Infof("serving metrics on http://%s/metrics", ln.Addr())
	}

	var limiter *rate.Limiter
	if cfg.maxOpsPerSec > 0 {
		limiter = rate.NewLimiter(cfg.maxOpsPerSec, max(cfg.maxOpsPerSec/10, 1))
	}

	stats := newStatsRecorder()
	var issued atomic.Uint64
	var completed atomic.Uint64
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.concurrency; i++ {
		rng := rand.New(rand.NewPCG(cfg.seed, uint64(i)+1))
		gen, err := randvar.Parse(rng, cfg.dist, 0, cfg.keys-1)
		if err != nil {
			return workloadResult{}, err
		}
		w := &worker{
			cfg:     &cfg,
			tree:    &shared,
			rng:     rng,
			keys:    gen,
			limiter: limiter,
			stats:   stats.newWorker(),
		}
		g.Go(func() error { return w.run(gctx, &issued, &completed) })
	}
	var runErr error
	done := make(chan struct{})
	go func() {
		runErr = g.Wait()
		close(done)
	}()

	ticker := time.NewTicker(cfg.tick)
	defer ticker.Stop()
	var throughput []float64
	tick := func(i int) {
		if i%20 == 0 {
			fmt.Fprintln(out, "_elapsed___optype____ops/sec(inst)___ops/sec(cum)__p50(µs)__p99(µs)_pMax(µs)__rot/op")
		}
		var total int64
		var elapsed time.Duration
		stats.tick(func(tick opTick) {
			h := tick.interval.latency
			total += h.TotalCount()
			elapsed = tick.elapsed
			sinceStart := time.Since(stats.start)
			fmt.Fprintf(out, "%8s %8s %15.1f %14.1f %8.1f %8.1f %8.1f %7.2f\n",
				time.Duration(sinceStart.Seconds()+0.5)*time.Second,
				opNames[tick.op],
				float64(h.TotalCount())/tick.elapsed.Seconds(),
				float64(tick.cumulative.count())/sinceStart.Seconds(),
				micros(h.ValueAtQuantile(50)),
				micros(h.ValueAtQuantile(99)),
				micros(h.ValueAtQuantile(100)),
				tick.interval.rotations.Mean(),
			)
		})
		if elapsed > 0 {
			throughput = append(throughput, float64(total)/elapsed.Seconds())
		}
	}

loop:
	for i := 0; ; i++ {
		select {
		case <-ticker.C:
			tick(i)
		case <-done:
			break loop
		}
	}
	elapsed := time.Since(stats.start)

	res := workloadResult{ops: completed.Load(), elapsed: elapsed}
	shared.mu.Lock()
	res.metrics = shared.mu.t.Metrics()
	res.depth = shared.mu.t.Depth()
	verifyErr := shared.mu.t.Verify()
	shared.mu.Unlock()
	if runErr != nil {
		return res, runErr
	}
	if verifyErr != nil {
		return res, verifyErr
	}

	printSummary(out, stats, res, throughput)
	return res, nil
}

func micros(ns int64) float64 {
	return float64(ns) / float64(time.Microsecond)
}

func printSummary(out io.Writer, stats *statsRecorder, res workloadResult, throughput []float64) {
	fmt.Fprintln(out)
	tbl := tablewriter.NewWriter(out)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetHeader([]string{"op", "ops", "ops/sec", "mean(µs)", "p50(µs)", "p99(µs)", "pMax(µs)", "rot/op", "rotMax"})
	stats.tick(func(tick opTick) {
		tbl.Append(summaryRow(opNames[tick.op], tick.cumulative, res.elapsed))
	})
	tbl.Render()

	fmt.Fprintf(out, "\n%s ops in %s, depth %d\n",
		string(crhumanize.Count(res.ops, crhumanize.Compact)), res.elapsed.Round(time.Millisecond), res.depth)
	fmt.Fprint(out, res.metrics.String())
	if len(throughput) > 1 {
		fmt.Fprintf(out, "\nthroughput (ops/sec):\n%s\n", asciigraph.Plot(throughput, asciigraph.Height(10)))
	}
}

func summaryRow(name string, s opStats, elapsed time.Duration) []string {
	h := s.latency
	return []string{
		name,
		string(crhumanize.Count(h.TotalCount(), crhumanize.Compact)),
		fmt.Sprintf("%.1f", float64(h.TotalCount())/elapsed.Seconds()),
		fmt.Sprintf("%.1f", h.Mean()/float64(time.Microsecond)),
		fmt.Sprintf("%.1f", micros(h.ValueAtQuantile(50))),
		fmt.Sprintf("%.1f", micros(h.ValueAtQuantile(99))),
		fmt.Sprintf("%.1f", micros(h.ValueAtQuantile(100))),
		fmt.Sprintf("%.2f", s.rotations.Mean()),
		fmt.Sprintf("%d", s.rotations.Max()),
	}
}

type worker struct {
	cfg     *workloadConfig
	tree    *sharedTree
	rng     *rand.Rand
	keys    randvar.Generator
	limiter *rate.Limiter
	stats   *opRecorder
	buf     [8]byte
}

func (w *worker) key() uint64 {
	k := w.keys.Uint64()
	if w.cfg.scramble {
		binary.LittleEndian.PutUint64(w.buf[:], k)
		k = xxhash.Sum64(w.buf[:]) % w.cfg.keys
	}
	return k
}

func (w *worker) nextOp() opKind {
	p := w.rng.IntN(100)
	switch {
	case p < w.cfg.readPercent:
		return opGet
	case p < w.cfg.readPercent+w.cfg.deletePercent:
		return opRemove
	default:
		return opInsert
	}
}

// run issues operations until the shared op budget is spent or ctx is done.
// Running out of time is not an error.
func (w *worker) run(ctx context.Context, issued, completed *atomic.Uint64) error {
	for ctx.Err() == nil {
		n := issued.Add(1)
		if w.cfg.ops > 0 && n > w.cfg.ops {
			return nil
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx, 1); err != nil {
				return nil
			}
		}
		op, k := w.nextOp(), w.key()

		start := time.Now()
		w.tree.mu.Lock()
		t := w.tree.mu.t
		before := t.Metrics().Rotations
		switch op {
		case opGet:
			t.Get(k)
		case opInsert:
			t.Insert(k, n)
		case opRemove:
			t.Remove(k)
		}
		rotations := t.Metrics().Rotations - before
		var err error
		if w.cfg.verifyEvery > 0 && n%w.cfg.verifyEvery == 0 {
			err = t.Verify()
		}
		w.tree.mu.Unlock()
		w.stats.record(op, time.Since(start), rotations)
		completed.Add(1)
		if err != nil {
			return errors.Wrapf(err, "verifying after %d ops", n)
		}
	}
	return nil
}
