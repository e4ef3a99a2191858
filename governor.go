// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"time"

	"code.hybscloud.com/atomix"
)

// govBucketDur is the width of one averaging bucket. The policy's
// Buckets field sets the smoothing window as a bucket count.
const govBucketDur = 100 * time.Millisecond

// governor grows the worker pool toward a target emission rate.
// It only ever varies concurrency: no delay is inserted on the
// producer side, and it never shrinks the pool — workers still exit
// on their own when they find no work.
type governor struct {
	target  float64 // elements per second
	tol     float64
	start   time.Time
	buckets []govBucket
}

// govBucket counts emissions within one epoch. Epochs are offset by one
// so that a zero epoch cell means "never written". The reset between a
// winning epoch CAS and concurrent Adds can drop a few counts; the
// window is a smoothing estimate, not an exact tally.
type govBucket struct {
	epoch atomix.Uint64
	count atomix.Uint64
}

func newGovernor(p *RatePolicy) *governor {
	n := p.Buckets
	if n <= 0 {
		n = defaultGovBuckets
	}
	tol := p.Tolerance
	if tol <= 0 {
		tol = defaultGovTolerance
	}
	return &governor{
		target:  p.PerSecond,
		tol:     tol,
		start:   time.Now(),
		buckets: make([]govBucket, n),
	}
}

func (g *governor) epochNow() uint64 {
	return uint64(time.Since(g.start)/govBucketDur) + 1
}

// note records one accepted emission in the current bucket.
func (g *governor) note() {
	e := g.epochNow()
	b := &g.buckets[int(e)%len(g.buckets)]
	for {
		cur := b.epoch.Load()
		if cur == e {
			break
		}
		if b.epoch.CompareAndSwap(cur, e) {
			b.count.Store(0)
			break
		}
	}
	b.count.Add(1)
}

// behind reports whether the smoothed emission rate over the averaging
// window is below target×(1−tolerance), in which case the coordinator
// may spawn an additional worker.
func (g *governor) behind() bool {
	e := g.epochNow()
	n := uint64(len(g.buckets))
	var total uint64
	for i := range g.buckets {
		b := &g.buckets[i]
		ep := b.epoch.Load()
		if ep != 0 && ep+n > e {
			total += b.count.Load()
		}
	}
	window := time.Duration(n) * govBucketDur
	elapsed := time.Since(g.start)
	if elapsed < govBucketDur {
		elapsed = govBucketDur
	}
	if elapsed > window {
		elapsed = window
	}
	rate := float64(total) / elapsed.Seconds()
	return rate < g.target*(1-g.tol)
}
