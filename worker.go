// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// runState is the result of driving one work item.
type runState uint8

const (
	// runFinish: the branch completed, failed, or yielded fairly under
	// the breadth-first discipline; the worker keeps dequeuing.
	runFinish runState = iota

	// runSuspend: the branch was pushed back under backpressure or
	// budget exhaustion; the worker releases its goroutine.
	runSuspend
)

// workLoop is the body of one worker goroutine, bound to its
// coordinator for life. One unified loop serves the 2×2 variant
// matrix: the queue object carries the discipline, the budget cell is
// optional, and runItem switches between inline continuation
// (depth-first) and yield-requeue (breadth-first).
//
// The loop never blocks on an empty queue: empty pop, exhausted budget,
// stop, or suspension all end the goroutine, and the exit is published
// through the worker count and the wake cell.
func (c *coordinator) workLoop() {
	for {
		if c.isStopped() {
			break
		}
		if c.budget != nil && c.budget.exhausted() {
			break
		}
		it := c.queue.pop()
		if it == nil {
			break
		}
		c.pending.Add(-1)
		if c.runItem(it) == runSuspend {
			break
		}
	}
	c.workers.Add(-1)
	c.wake.signal()
	// an item enqueued between the empty pop and the decrement would
	// see a live worker and skip spawning; re-check to close the gap
	if !c.isStopped() && c.pending.Load() > 0 {
		c.maybeSpawn()
	}
}

// runItem drives one branch continuation. Each emit boundary in turn:
// checks for cancellation, reserves a budget unit when limited, and
// dispatches the element into the mailbox. A rejected dispatch requeues
// the un-resumed suspension — the element rides inside the pending
// operation, so it is produced exactly once when eventually drained.
func (c *coordinator) runItem(it *workItem) runState {
	susp := it.susp
	var res Outcome
	if it.thunk != nil {
		thunk := it.thunk
		it.thunk = nil
		res, susp = kont.StepExpr(thunk())
	}

	reserved := false
	for susp != nil {
		if c.isStopped() {
			if reserved {
				c.budget.refund()
				c.st.incRefund()
			}
			susp.Discard()
			return runFinish
		}
		op, ok := susp.Op().(emitDispatcher)
		if !ok {
			panic("cseq: unhandled effect in worker")
		}
		if c.budget != nil && !reserved {
			if !c.budget.reserve() {
				it.susp = susp
				c.requeue(it)
				return runSuspend
			}
			reserved = true
		}
		if err := op.DispatchEmit(c.mb); err != nil {
			if reserved {
				c.budget.refund()
				c.st.incRefund()
			}
			it.susp = susp
			c.requeue(it)
			c.st.incRequeue()
			return runSuspend
		}
		reserved = false
		c.st.incEmit()
		if c.gov != nil {
			c.gov.note()
		}
		c.wake.signal()
		if op.last() {
			susp.Discard()
			susp = nil
			res = Outcome{}
			break
		}
		res, susp = susp.Resume(struct{}{})
		if susp != nil && !c.inline {
			// breadth-first: one element per turn, back of the line
			it.susp = susp
			c.requeue(it)
			return runFinish
		}
	}

	if reserved {
		// completed without turning the reservation into an element
		c.budget.refund()
		c.st.incRefund()
	}
	if res.Err != nil {
		c.fail(res.Err)
	}
	return runFinish
}

// fail publishes a branch failure after that branch's already accepted
// elements, then stops the coordinator. The failure event must not be
// lost: the push retries past transient backpressure — the consumer is
// still draining, so capacity reappears — and gives up only if the
// consumer itself already stopped.
func (c *coordinator) fail(err error) {
	ev := event{err: err}
	var bo iox.Backoff
	for c.mb.push(ev) != nil {
		if c.isStopped() {
			return
		}
		bo.Wait()
	}
	c.wake.signal()
	c.stop()
}
