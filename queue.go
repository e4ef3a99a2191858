// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/kont"
)

// workItem is a suspended branch: either an unstarted producer (thunk)
// or the resumable remainder of one (susp). Both forms carry only owned
// state and may be picked up by any worker goroutine.
type workItem struct {
	thunk func() kont.Expr[Outcome]
	susp  *kont.Suspension[Outcome]
}

// workQueue is the coordinator's container of pending work items.
// Discipline lives in the implementation: lifoQueue resumes the most
// recently suspended branch first (depth-first), fifoQueue resumes
// branches in strict arrival order (breadth-first).
//
// All mutations are CAS retry loops; pop returns nil when empty —
// workers never block on the queue.
type workQueue interface {
	push(it *workItem)
	pop() *workItem
	drained() bool
}

// lifoQueue is a Treiber stack. Every push allocates a fresh node, so a
// popped node can never reappear as head and the pop CAS is ABA-safe.
type lifoQueue struct {
	head atomix.Pointer[lifoNode]
}

type lifoNode struct {
	it   *workItem
	next *lifoNode
}

func (q *lifoQueue) push(it *workItem) {
	n := &lifoNode{it: it}
	for {
		h := q.head.Load()
		n.next = h
		if q.head.CompareAndSwap(h, n) {
			return
		}
	}
}

func (q *lifoQueue) pop() *workItem {
	for {
		h := q.head.Load()
		if h == nil {
			return nil
		}
		if q.head.CompareAndSwap(h, h.next) {
			return h.it
		}
	}
}

func (q *lifoQueue) drained() bool {
	return q.head.Load() == nil
}

// fifoQueue is a Michael–Scott queue with a dummy head node.
type fifoQueue struct {
	head atomix.Pointer[fifoNode]
	tail atomix.Pointer[fifoNode]
}

type fifoNode struct {
	it   *workItem
	next atomix.Pointer[fifoNode]
}

func newFIFOQueue() *fifoQueue {
	q := &fifoQueue{}
	d := &fifoNode{}
	q.head.Store(d)
	q.tail.Store(d)
	return q
}

func (q *fifoQueue) push(it *workItem) {
	n := &fifoNode{it: it}
	for {
		t := q.tail.Load()
		nx := t.next.Load()
		if nx != nil {
			// help a stalled producer advance the tail
			q.tail.CompareAndSwap(t, nx)
			continue
		}
		if t.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(t, n)
			return
		}
	}
}

func (q *fifoQueue) pop() *workItem {
	for {
		h := q.head.Load()
		t := q.tail.Load()
		nx := h.next.Load()
		if nx == nil {
			return nil
		}
		if h == t {
			q.tail.CompareAndSwap(t, nx)
			continue
		}
		if q.head.CompareAndSwap(h, nx) {
			it := nx.it
			nx.it = nil
			return it
		}
	}
}

func (q *fifoQueue) drained() bool {
	return q.head.Load().next.Load() == nil
}
