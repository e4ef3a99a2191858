// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// Outcome is the completion value of a branch computation.
// A zero Outcome means the branch produced all of its elements and
// stopped; a non-nil Err means the branch failed after its already
// emitted elements.
//
// Outcome is a struct rather than a bare error so that a successful
// completion still boxes to a non-nil value through the type-erased
// frame chain (kont stepping cannot classify an untyped nil result).
type Outcome struct {
	Err error
}

// Seq is a restartable, lazily evaluated sequence of elements of type T.
//
// A Seq is a function from the shared evaluation context to a fresh
// branch computation: each invocation rebuilds the computation from the
// start, which is what makes sequences restartable. The computation
// yields elements by performing [Emit] (or [EmitLast]) effects and
// terminates by returning an [Outcome].
//
// Sequences are inert values; nothing runs until the merged output is
// drained via [Evaluate] or the sequence is seeded onto a coordinator
// by [Join], [Merge], or [FlatMerge].
type Seq[T any] func(ec *Context) kont.Expr[Outcome]

// Produce creates a sequence from a raw Expr-world producer.
// The producer receives the evaluation context token and must perform
// only [Emit]/[EmitLast] effects.
func Produce[T any](build func(ec *Context) kont.Expr[Outcome]) Seq[T] {
	return Seq[T](build)
}

// ProduceEff creates a sequence from a Cont-world producer.
// The closure-based computation is reified to the defunctionalized
// representation on each restart.
func ProduceEff[T any](build func(ec *Context) kont.Eff[Outcome]) Seq[T] {
	return func(ec *Context) kont.Expr[Outcome] {
		return kont.Reify(build(ec))
	}
}

// From creates a finite sequence over the given elements,
// yielded in declaration order.
func From[T any](xs ...T) Seq[T] {
	return func(*Context) kont.Expr[Outcome] {
		return exprEmitEach(0, func(i int) (T, int, bool) {
			if i >= len(xs) {
				var zero T
				return zero, 0, false
			}
			return xs[i], i + 1, true
		})
	}
}

// Generate creates a sequence by unfolding from a seed state.
// next returns the element to yield, the successor state, and whether
// the sequence continues. The first false stops the sequence without
// yielding. Unfolds may be infinite; they are driven on demand.
func Generate[S, T any](seed S, next func(S) (T, S, bool)) Seq[T] {
	return func(*Context) kont.Expr[Outcome] {
		return exprEmitEach(seed, next)
	}
}

// Concat sequences b after a on the same evaluation context, without
// concurrency. A failure in a short-circuits and b never starts.
func Concat[T any](a, b Seq[T]) Seq[T] {
	return func(ec *Context) kont.Expr[Outcome] {
		return kont.ExprBind(a(ec), func(o Outcome) kont.Expr[Outcome] {
			if o.Err != nil {
				return kont.ExprReturn(o)
			}
			return b(ec)
		})
	}
}

// Raise creates a sequence that fails immediately with err,
// yielding no elements.
func Raise[T any](err error) Seq[T] {
	return func(*Context) kont.Expr[Outcome] {
		return kont.ExprReturn(Outcome{Err: err})
	}
}
