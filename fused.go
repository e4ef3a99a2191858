// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// EmitThen yields one element and then continues with next.
// Fuses Perform(Emit[T]{Value: v}) + Then.
func EmitThen[T any](v T, next kont.Eff[Outcome]) kont.Eff[Outcome] {
	return kont.Then(kont.Perform(Emit[T]{Value: v}), next)
}

// EmitLastDone yields exactly one element and completes the branch.
// Fuses Perform(EmitLast[T]{Value: v}) + Then + Pure.
func EmitLastDone[T any](v T) kont.Eff[Outcome] {
	return kont.Then(kont.Perform(EmitLast[T]{Value: v}), kont.Pure(Outcome{}))
}

// Done completes the branch successfully without yielding.
func Done() kont.Eff[Outcome] {
	return kont.Pure(Outcome{})
}

// Fault completes the branch with a failure. Elements emitted before
// the fault have already been delivered and are never revoked.
func Fault(err error) kont.Eff[Outcome] {
	return kont.Pure(Outcome{Err: err})
}
