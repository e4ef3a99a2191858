// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// FlatMerge maps every element of s to a sub-sequence and merges all
// sub-sequences under the given discipline — the chaining operator of
// the combinator wrappers. It folds the sub-sequences with the same
// join as [Join]: per element, the rest of the outer traversal is
// enqueued as a sibling work item and the sub-sequence runs inline, so
// concurrently running iterations surface results as soon as available
// while the depth-first variant still prefers to finish left-most
// branches.
func FlatMerge[T, U any](d Discipline, s Seq[T], f func(T) Seq[U]) Seq[U] {
	return func(ec *Context) kont.Expr[Outcome] {
		if c := ec.coord; c != nil && c.disc == d {
			c.st.incFlatten()
			return chainExpr(ec, c, s, f)
		}
		c := newCoordinator(d, ec)
		bc := ec.branch(c)
		c.enqueue(&workItem{thunk: func() kont.Expr[Outcome] {
			return chainExpr(bc, c, s, f)
		}})
		return drainExpr[U](c)
	}
}

// chainExpr starts the outer traversal of s under coordinator c.
// The outer sequence is driven locally on a detached context: its own
// elements feed the chain, never c's mailbox, and any concurrency
// inside it forks independently.
func chainExpr[T, U any](bc *Context, c *coordinator, s Seq[T], f func(T) Seq[U]) kont.Expr[Outcome] {
	res, susp := kont.StepExpr(s(bc.detach()))
	return chainStep(bc, c, res, susp, f)
}

// chainStep handles one outer element: park the rest of the outer
// traversal as a sibling work item, then run the element's
// sub-sequence inline — the join protocol applied to the lazily
// unfolded fold join(f(x₁), join(f(x₂), …)). The outer remainder is
// resumed only when its work item is picked up, so the traversal stays
// demand-driven.
func chainStep[T, U any](bc *Context, c *coordinator, res Outcome, susp *kont.Suspension[Outcome], f func(T) Seq[U]) kont.Expr[Outcome] {
	if susp == nil {
		return kont.ExprReturn(res)
	}
	op, ok := susp.Op().(emitDispatcher)
	if !ok {
		panic("cseq: unhandled effect in chain")
	}
	x := op.item().(T)
	if !op.last() {
		c.enqueue(&workItem{thunk: func() kont.Expr[Outcome] {
			res2, susp2 := susp.Resume(struct{}{})
			return chainStep(bc, c, res2, susp2, f)
		}})
	} else {
		susp.Discard()
	}
	return f(x)(bc)
}
