// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"sync"
	"testing"
	"time"
)

func TestYieldBudgetReserve(t *testing.T) {
	b := newYieldBudget(2)
	if b.exhausted() {
		t.Fatal("exhausted before any reserve")
	}
	if !b.reserve() || !b.reserve() {
		t.Fatal("reserve failed within cap")
	}
	if b.reserve() {
		t.Fatal("reserve succeeded past cap")
	}
	if !b.exhausted() {
		t.Fatal("not exhausted at zero")
	}
	b.refund()
	if b.exhausted() {
		t.Fatal("exhausted after refund")
	}
	if !b.reserve() {
		t.Fatal("reserve failed after refund")
	}
	if got := b.remaining(); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

// Concurrent reservists win exactly cap units between them; the
// remainder never goes negative.
func TestYieldBudgetConcurrent(t *testing.T) {
	const limit, grabbers = 1000, 8
	b := newYieldBudget(limit)

	var wg sync.WaitGroup
	wins := make([]int, grabbers)
	for g := range grabbers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b.reserve() {
				wins[g]++
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, w := range wins {
		total += w
	}
	if total != limit {
		t.Fatalf("granted %d units, want %d", total, limit)
	}
	if got := b.remaining(); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

// Refunds racing reserves keep the books balanced.
func TestYieldBudgetRefundRace(t *testing.T) {
	const rounds = 10000
	b := newYieldBudget(1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range rounds {
			if b.reserve() {
				b.refund()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range rounds {
			if b.reserve() {
				b.refund()
			}
		}
	}()
	wg.Wait()

	if got := b.remaining(); got != 1 {
		t.Fatalf("remaining = %d, want 1", got)
	}
}

func TestGovernorBehindUntilNoted(t *testing.T) {
	g := newGovernor(&RatePolicy{PerSecond: 1e6})
	if !g.behind() {
		t.Fatal("fresh governor not behind a high target")
	}
}

func TestGovernorMeetsTinyTarget(t *testing.T) {
	g := newGovernor(&RatePolicy{PerSecond: 1e-3})
	for range 100 {
		g.note()
	}
	if g.behind() {
		t.Fatal("behind a 0.001/s target after 100 notes")
	}
}

func TestGovernorDefaults(t *testing.T) {
	g := newGovernor(&RatePolicy{PerSecond: 10})
	if len(g.buckets) != defaultGovBuckets {
		t.Fatalf("buckets = %d, want %d", len(g.buckets), defaultGovBuckets)
	}
	if g.tol != defaultGovTolerance {
		t.Fatalf("tol = %g, want %g", g.tol, defaultGovTolerance)
	}
}

func TestGovernorWindowExpires(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode: timed window")
	}
	g := newGovernor(&RatePolicy{PerSecond: 100, Buckets: 2})
	for range 1000 {
		g.note()
	}
	if g.behind() {
		t.Fatal("behind right after a burst")
	}
	// let the burst age out of the two-bucket window
	time.Sleep(4 * govBucketDur)
	if !g.behind() {
		t.Fatal("not behind after the window expired")
	}
}
