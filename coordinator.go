// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/atomix"
)

// Discipline selects the work-queue ordering of a coordinator and with
// it the interleaving contract of the merged output.
type Discipline uint8

const (
	// DepthFirst resumes the most recently suspended branch first and
	// keeps an accepted continuation running inline on the same worker,
	// preferring to finish left-most branches before exploring siblings.
	// An unbounded chain of left-associated joins folds onto one
	// coordinator without unbounded queue growth.
	DepthFirst Discipline = iota

	// BreadthFirst resumes branches in strict arrival order, requeueing
	// after every accepted element — round-robin fairness at the cost of
	// keeping every live branch resident.
	BreadthFirst
)

func (d Discipline) valid() bool {
	return d == DepthFirst || d == BreadthFirst
}

func (d Discipline) String() string {
	switch d {
	case DepthFirst:
		return "depth-first"
	case BreadthFirst:
		return "breadth-first"
	default:
		return "invalid"
	}
}

// coordinator is the shared scheduling state of one concurrent join
// point: the mailbox of merged output events, the wake cell for the
// parked consumer, the discipline-ordered work queue, and the cells
// that bound workers, buffering, and total production.
//
// The consumer handle and every worker share the coordinator; it is
// reclaimed by the collector once the merged output is drained and the
// last reference is dropped. All shared cells are mutated through CAS
// retry loops only.
type coordinator struct {
	serial Serial
	disc   Discipline
	inline bool // depth-first: keep an accepted continuation on this worker

	mb    mailbox
	wake  *wakeCell
	queue workQueue

	workers atomix.Int64 // live workers, in [0, maxWorkers]
	pending atomix.Int64 // queued work items, approximate
	stopped atomix.Uint32

	budget *yieldBudget // nil: unlimited
	gov    *governor    // nil: no rate target

	maxWorkers int
	cfg        Config // carried into nested forks within branches
	st         *stats
}

// newCoordinator wires a coordinator for the requested discipline and
// the evaluation's limits: {depth-first, breadth-first} in the queue
// and inline flag, {budget-limited, unlimited} in the budget cell, and
// the single- or multi-producer mailbox by the worker limit. No worker
// is started.
func newCoordinator(d Discipline, ec *Context) *coordinator {
	if !d.valid() {
		panic("cseq: invalid discipline")
	}
	cfg := ec.cfg
	c := &coordinator{
		serial:     nextSerial(),
		disc:       d,
		inline:     d == DepthFirst,
		wake:       newWakeCell(),
		maxWorkers: cfg.MaxWorkers,
		cfg:        cfg,
		st:         ec.st,
	}
	if cfg.MaxWorkers == 1 {
		c.mb = newSPSCMailbox(cfg.MaxBuffer)
	} else {
		c.mb = newRingMailbox(cfg.MaxBuffer)
	}
	if d == BreadthFirst {
		c.queue = newFIFOQueue()
	} else {
		c.queue = &lifoQueue{}
	}
	if cfg.YieldCap > 0 {
		c.budget = newYieldBudget(cfg.YieldCap)
	}
	if cfg.Rate != nil {
		c.gov = newGovernor(cfg.Rate)
	}
	ec.reg.add(c)
	c.st.incFork()
	return c
}

// enqueue appends a work item and signals the wake cell, then applies
// the demand-driven spawn policy.
func (c *coordinator) enqueue(it *workItem) {
	c.queue.push(it)
	c.pending.Add(1)
	c.wake.signal()
	c.maybeSpawn()
}

// requeue pushes back a suspended remainder without spawning: the
// suspending worker is about to exit and the consumer re-grows the
// pool as it releases backpressure.
func (c *coordinator) requeue(it *workItem) {
	c.queue.push(it)
	c.pending.Add(1)
	c.wake.signal()
}

// maybeSpawn starts at most one additional worker when there is queued
// work and capacity for it. A coordinator with queued work and no live
// worker always gets one; beyond that the rate governor, when present,
// vetoes spawns at or ahead of target, and without a governor the pool
// grows only while it is outnumbered by pending items.
func (c *coordinator) maybeSpawn() {
	if c.isStopped() {
		return
	}
	if c.budget != nil && c.budget.exhausted() {
		return
	}
	for {
		live := c.workers.Load()
		if live >= int64(c.maxWorkers) {
			return
		}
		pending := c.pending.Load()
		if pending <= 0 {
			return
		}
		if live > 0 {
			if c.gov != nil {
				if !c.gov.behind() {
					return
				}
			} else if live >= pending {
				return
			}
		}
		if c.workers.CompareAndSwap(live, live+1) {
			c.st.incSpawn()
			go c.workLoop()
			return
		}
	}
}

// stop requests coordinator-wide cancellation. Live workers abandon
// their branch at the next emit boundary; events already in the
// mailbox stay valid.
func (c *coordinator) stop() {
	c.stopped.Store(1)
	c.wake.signal()
}

func (c *coordinator) isStopped() bool {
	return c.stopped.Load() != 0
}

// workDone is the termination check over queued work: the unlimited
// variant requires an empty queue, the limited variant also terminates
// on an exhausted yield budget.
func (c *coordinator) workDone() bool {
	if c.budget != nil && c.budget.exhausted() {
		return true
	}
	return c.queue.drained()
}

// next delivers the next merged output event to the consumer, parking
// on the wake cell while the mailbox is empty and branches are still
// running. ok is false once the coordinator is finished: no live
// worker, no runnable work, and the mailbox fully drained.
func (c *coordinator) next() (ev event, ok bool) {
	for {
		if ev, err := c.mb.pop(); err == nil {
			// draining released backpressure; let suspended work resume
			c.maybeSpawn()
			return ev, true
		}
		if c.isStopped() {
			return event{}, false
		}
		if c.workers.Load() == 0 {
			if c.workDone() {
				// quiescent: re-check the mailbox once more, a worker may
				// have pushed between the failed pop and the count read
				if ev, err := c.mb.pop(); err == nil {
					return ev, true
				}
				if c.workers.Load() == 0 && c.workDone() {
					return event{}, false
				}
				continue
			}
			// runnable work but no live worker (all suspended): regrow
			c.maybeSpawn()
		}
		c.st.incPark()
		c.wake.wait()
	}
}

// stats are the coordinator diagnostics counters, collected only when
// Config.Debug is set; a nil receiver makes every increment a no-op.
type stats struct {
	forks    atomix.Uint64
	flattens atomix.Uint64
	spawns   atomix.Uint64
	emits    atomix.Uint64
	requeues atomix.Uint64
	parks    atomix.Uint64
	refunds  atomix.Uint64
}

func (s *stats) incFork() {
	if s != nil {
		s.forks.Add(1)
	}
}

func (s *stats) incFlatten() {
	if s != nil {
		s.flattens.Add(1)
	}
}

func (s *stats) incSpawn() {
	if s != nil {
		s.spawns.Add(1)
	}
}

func (s *stats) incEmit() {
	if s != nil {
		s.emits.Add(1)
	}
}

func (s *stats) incRequeue() {
	if s != nil {
		s.requeues.Add(1)
	}
}

func (s *stats) incPark() {
	if s != nil {
		s.parks.Add(1)
	}
}

func (s *stats) incRefund() {
	if s != nil {
		s.refunds.Add(1)
	}
}

// Stats is a point-in-time snapshot of the diagnostics counters of one
// evaluation, aggregated across all coordinators it forked.
type Stats struct {
	Forks    uint64 // coordinators created
	Flattens uint64 // same-discipline joins folded onto a live coordinator
	Spawns   uint64 // workers started
	Emits    uint64 // elements accepted into mailboxes
	Requeues uint64 // suspensions pushed back under backpressure
	Parks    uint64 // consumer waits on a wake cell
	Refunds  uint64 // unused yield-budget reservations returned
}

func (s *stats) snapshot() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		Forks:    s.forks.Load(),
		Flattens: s.flattens.Load(),
		Spawns:   s.spawns.Load(),
		Emits:    s.emits.Load(),
		Requeues: s.requeues.Load(),
		Parks:    s.parks.Load(),
		Refunds:  s.refunds.Load(),
	}
}

// stopList tracks every coordinator forked during one evaluation so an
// early consumer stop can propagate to all of them, nested forks
// included. Registration is a CAS push; branches fork from worker
// goroutines concurrently.
type stopList struct {
	head atomix.Pointer[stopNode]
}

type stopNode struct {
	c    *coordinator
	next *stopNode
}

func (l *stopList) add(c *coordinator) {
	n := &stopNode{c: c}
	for {
		h := l.head.Load()
		n.next = h
		if l.head.CompareAndSwap(h, n) {
			return
		}
	}
}

func (l *stopList) stopAll() {
	for n := l.head.Load(); n != nil; n = n.next {
		n.c.stop()
	}
}
