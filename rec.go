// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive producer (Cont-world).
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, step)
		}
		done, _ := e.GetRight()
		return kont.Pure(done)
	})
}

// ExprLoop runs a recursive producer (Expr-world).
// step returns Left(nextState) to continue or Right(result) to finish.
//
// Iterations that complete without suspending are restarted in place,
// so a long run of pure steps costs neither stack nor frames. A step
// that does suspend chains a single bind frame whose continuation
// constructs the next iteration lazily when the suspension resumes;
// unbounded emitting producers therefore never grow the stack and the
// frame chain stays one iteration deep.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	state := initial
	for {
		m := step(state)
		if _, done := m.Frame.(kont.ReturnFrame); done {
			next, ok := m.Value.GetLeft()
			if !ok {
				result, _ := m.Value.GetRight()
				return kont.ExprReturn(result)
			}
			state = next
			continue
		}
		bf := kont.AcquireBindFrame()
		bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
			e := a.(kont.Either[S, A])
			if next, ok := e.GetLeft(); ok {
				rest := ExprLoop(next, step)
				return kont.Expr[kont.Erased]{Value: kont.Erased(rest.Value), Frame: rest.Frame}
			}
			result, _ := e.GetRight()
			return kont.Expr[kont.Erased]{Value: kont.Erased(result), Frame: kont.ReturnFrame{}}
		}
		bf.Next = kont.ReturnFrame{}
		var zero A
		return kont.Expr[A]{
			Value: zero,
			Frame: kont.ChainFrames(m.Frame, bf),
		}
	}
}

// exprEmitEach is the emitting unfold every element source reduces to:
// one [Emit] per produced state, completing with a clean Outcome on
// the first refusal.
func exprEmitEach[S, T any](seed S, next func(S) (T, S, bool)) kont.Expr[Outcome] {
	return ExprLoop(seed, func(s S) kont.Expr[kont.Either[S, Outcome]] {
		v, s2, ok := next(s)
		if !ok {
			return kont.ExprReturn(kont.Right[S](Outcome{}))
		}
		return kont.ExprMap(
			kont.ExprPerform(Emit[T]{Value: v}),
			func(struct{}) kont.Either[S, Outcome] {
				return kont.Left[S, Outcome](s2)
			},
		)
	})
}
