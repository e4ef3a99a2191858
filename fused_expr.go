// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// ExprEmitThen yields one element and then continues with next.
// Expr-world counterpart of [EmitThen].
func ExprEmitThen[T, R any](v T, next kont.Expr[R]) kont.Expr[R] {
	return kont.ExprThen(kont.ExprPerform(Emit[T]{Value: v}), next)
}

// ExprEmitLastDone yields exactly one element and completes the branch.
// Expr-world counterpart of [EmitLastDone].
func ExprEmitLastDone[T any](v T) kont.Expr[Outcome] {
	return kont.ExprMap(kont.ExprPerform(EmitLast[T]{Value: v}), func(struct{}) Outcome {
		return Outcome{}
	})
}

// ExprDone completes the branch successfully without yielding.
// Expr-world counterpart of [Done].
func ExprDone() kont.Expr[Outcome] {
	return kont.ExprReturn(Outcome{})
}

// ExprFault completes the branch with a failure.
// Expr-world counterpart of [Fault].
func ExprFault(err error) kont.Expr[Outcome] {
	return kont.ExprReturn(Outcome{Err: err})
}
