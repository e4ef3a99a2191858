// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// Iterator drives a sequence one element at a time. It is the single
// consumer of the evaluation: each Next resumes the computation until
// the next emit suspension, so demand propagates from the caller
// through coordinator backpressure to the branch workers.
//
// Iterators are not safe for concurrent use.
type Iterator[T any] struct {
	ec    *Context
	seq   Seq[T]
	susp  *kont.Suspension[Outcome]
	cur   T
	err   error
	state iterState
}

type iterState uint8

const (
	iterNew iterState = iota
	iterRunning
	iterDone
)

// Next advances to the next element of the merged output. It returns
// false once the sequence is exhausted, failed, or stopped; Err
// distinguishes the cases.
func (it *Iterator[T]) Next() bool {
	switch it.state {
	case iterDone:
		return false
	case iterNew:
		it.state = iterRunning
		res, susp := kont.StepExpr(it.seq(it.ec))
		return it.settle(res, susp)
	default:
		if it.susp == nil {
			it.state = iterDone
			return false
		}
		susp := it.susp
		it.susp = nil
		res, next := susp.Resume(struct{}{})
		return it.settle(res, next)
	}
}

func (it *Iterator[T]) settle(res Outcome, susp *kont.Suspension[Outcome]) bool {
	if susp == nil {
		it.state = iterDone
		it.err = res.Err
		return false
	}
	op, ok := susp.Op().(emitDispatcher)
	if !ok {
		panic("cseq: unhandled effect in Iterator")
	}
	it.cur = op.item().(T)
	if op.last() {
		susp.Discard()
	} else {
		it.susp = susp
	}
	return true
}

// Value returns the element produced by the last successful Next.
func (it *Iterator[T]) Value() T {
	return it.cur
}

// Err returns the branch failure that aborted consumption, or nil.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Stop abandons consumption early. The stop signal propagates to every
// coordinator forked by this evaluation; live workers abandon their
// branch at the next emit boundary and release their goroutines.
// Elements already returned by Value remain valid. Stop is idempotent
// and Next returns false afterwards.
func (it *Iterator[T]) Stop() {
	if it.state == iterDone {
		return
	}
	it.state = iterDone
	if it.susp != nil {
		it.susp.Discard()
		it.susp = nil
	}
	it.ec.reg.stopAll()
}

// Stats returns a snapshot of the diagnostics counters of this
// evaluation. The zero value is returned unless Config.Debug was set.
func (it *Iterator[T]) Stats() Stats {
	return it.ec.st.snapshot()
}
