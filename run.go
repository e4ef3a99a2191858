// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"runtime"
)

// Defaults applied by Config.withDefaults.
const (
	defaultMaxBuffer    = 16
	defaultGovBuckets   = 8
	defaultGovTolerance = 0.1
)

// RatePolicy is an optional steady-state emission target for one
// coordinator. The governor approaches the target purely by varying
// concurrency — behind target it may spawn an additional worker, at or
// ahead it withholds spawns; producers are never delayed.
type RatePolicy struct {
	// PerSecond is the desired emission rate in elements per second.
	PerSecond float64

	// Tolerance is the relative window below target within which the
	// rate still counts as met. Zero means the default of 0.1.
	Tolerance float64

	// Buckets is the averaging window as a count of 100ms smoothing
	// buckets. Zero means the default of 8.
	Buckets int
}

// Config carries the limits of one evaluation. It is attached per
// evaluation and flows with the context token into nested concurrent
// compositions; there is no global configuration.
type Config struct {
	// MaxBuffer bounds each coordinator mailbox. On the multi-worker
	// path it is rounded up to a power of two, minimum 2. Zero means 16.
	MaxBuffer int

	// MaxWorkers bounds each coordinator's worker pool.
	// Zero means GOMAXPROCS.
	MaxWorkers int

	// YieldCap, when positive, caps the total number of elements
	// produced across all branches of a coordinator.
	YieldCap int64

	// Rate, when non-nil, attaches a rate governor to each coordinator.
	Rate *RatePolicy

	// Debug enables the diagnostics counters reported by Stats.
	Debug bool
}

func (cfg Config) withDefaults() Config {
	if cfg.MaxBuffer <= 0 {
		cfg.MaxBuffer = defaultMaxBuffer
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.GOMAXPROCS(0)
	}
	if cfg.YieldCap < 0 {
		cfg.YieldCap = 0
	}
	return cfg
}

// Context is the shared evaluation-context token threaded through every
// branch invocation. It carries the evaluation limits, the coordinator
// the current branch runs under (nil outside any), the diagnostics
// sink, and the stop registry of the evaluation.
type Context struct {
	cfg   Config
	coord *coordinator
	st    *stats
	reg   *stopList
}

// Config returns the limits attached to this evaluation.
func (ec *Context) Config() Config {
	return ec.cfg
}

// branch derives the context branches of coordinator c run under.
func (ec *Context) branch(c *coordinator) *Context {
	return &Context{cfg: ec.cfg, coord: c, st: ec.st, reg: ec.reg}
}

// detach derives a context outside any coordinator: a join evaluated
// under it always forks.
func (ec *Context) detach() *Context {
	return &Context{cfg: ec.cfg, st: ec.st, reg: ec.reg}
}

// Evaluate prepares s for lazy consumption under cfg. Nothing runs
// until the first Next call on the returned iterator; a concurrent
// composition then forks its coordinator and its workers start on
// demand as the iterator applies demand.
func Evaluate[T any](cfg Config, s Seq[T]) *Iterator[T] {
	cfg = cfg.withDefaults()
	var st *stats
	if cfg.Debug {
		st = &stats{}
	}
	return &Iterator[T]{
		ec:  &Context{cfg: cfg, st: st, reg: &stopList{}},
		seq: s,
	}
}

// Collect drains s under cfg into a slice. It returns the elements
// delivered before the first branch failure together with that
// failure, or the complete output and a nil error.
func Collect[T any](cfg Config, s Seq[T]) ([]T, error) {
	it := Evaluate(cfg, s)
	var out []T
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}
