// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// Join merges two branches under the given discipline.
//
// When the join is evaluated inside a branch that already runs under a
// coordinator of the same discipline, right is enqueued onto that
// coordinator as a fresh work item and left continues inline in the
// current worker — a chain of same-style joins flattens onto one
// coordinator, bounding coordinator count by the number of discipline
// transitions rather than the number of join operators. Anything else
// forks: a new coordinator seeded with both branches. A discipline
// transition never shares a coordinator.
func Join[T any](d Discipline, left, right Seq[T]) Seq[T] {
	return func(ec *Context) kont.Expr[Outcome] {
		if c := ec.coord; c != nil && c.disc == d {
			c.st.incFlatten()
			bc := ec
			c.enqueue(&workItem{thunk: func() kont.Expr[Outcome] { return right(bc) }})
			return left(ec)
		}
		return fork(d, ec, left, right)
	}
}

// Merge merges any number of branches under one coordinator of the
// given discipline, in declaration order. The zero-branch merge is the
// empty sequence.
func Merge[T any](d Discipline, branches ...Seq[T]) Seq[T] {
	switch len(branches) {
	case 0:
		return func(*Context) kont.Expr[Outcome] {
			return kont.ExprReturn(Outcome{})
		}
	case 1:
		return branches[0]
	}
	return func(ec *Context) kont.Expr[Outcome] {
		if c := ec.coord; c != nil && c.disc == d {
			c.st.incFlatten()
			seed(c, ec, branches[1:])
			return branches[0](ec)
		}
		return fork(d, ec, branches...)
	}
}

// fork allocates a coordinator of the requested discipline, seeds the
// branches as its initial work items, and returns the merged output as
// the drain sequence. Workers start on demand from the first enqueue.
func fork[T any](d Discipline, ec *Context, branches ...Seq[T]) kont.Expr[Outcome] {
	c := newCoordinator(d, ec)
	seed(c, ec.branch(c), branches)
	return drainExpr[T](c)
}

// seed enqueues branch thunks so that the first declared branch is
// dequeued first under either discipline: the depth-first stack takes
// them in reverse.
func seed[T any](c *coordinator, bc *Context, branches []Seq[T]) {
	if c.inline {
		for i := len(branches) - 1; i >= 0; i-- {
			s := branches[i]
			c.enqueue(&workItem{thunk: func() kont.Expr[Outcome] { return s(bc) }})
		}
		return
	}
	for _, s := range branches {
		s := s
		c.enqueue(&workItem{thunk: func() kont.Expr[Outcome] { return s(bc) }})
	}
}

// drainExpr is the merged output of a forked coordinator as a producer
// computation: it pulls events — parking on the wake cell while the
// mailbox is empty — re-emits elements, and completes with the first
// branch failure once the failing branch's delivered prefix is out.
//
// The drain runs wherever the forked sequence is consumed: on the
// evaluating Iterator at top level, or on an outer worker when the
// fork is nested inside a branch; its own emits then land in the outer
// coordinator's mailbox under the outer backpressure protocol.
func drainExpr[T any](c *coordinator) kont.Expr[Outcome] {
	return ExprLoop(struct{}{}, func(struct{}) kont.Expr[kont.Either[struct{}, Outcome]] {
		ev, ok := c.next()
		if !ok {
			return kont.ExprReturn(kont.Right[struct{}](Outcome{}))
		}
		if ev.err != nil {
			return kont.ExprReturn(kont.Right[struct{}](Outcome{Err: ev.err}))
		}
		return kont.ExprMap(
			kont.ExprPerform(Emit[T]{Value: ev.value.(T)}),
			func(struct{}) kont.Either[struct{}, Outcome] {
				return kont.Left[struct{}, Outcome](struct{}{})
			},
		)
	})
}
