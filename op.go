// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/kont"
)

// Emit is the effect operation for yielding one element and continuing.
// Perform(Emit[T]{Value: v}) delivers v to the merged output; the frames
// after the suspension are the rest of the branch.
type Emit[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

// DispatchEmit appends the element to the coordinator mailbox.
// Non-blocking: returns iox.ErrWouldBlock when the mailbox is at
// capacity (the backpressure boundary).
func (e Emit[T]) DispatchEmit(mb mailbox) error {
	return mb.push(event{value: e.Value})
}

// item returns the carried element for direct (uncoordinated) draining.
func (e Emit[T]) item() any { return e.Value }

// last reports whether the branch stops after this element.
func (Emit[T]) last() bool { return false }

// EmitLast is the effect operation for yielding exactly one element and
// stopping. The branch completes as soon as the element is accepted;
// the suspension is discarded, never resumed.
type EmitLast[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

// DispatchEmit appends the final element to the coordinator mailbox.
// Non-blocking: returns iox.ErrWouldBlock when the mailbox is at
// capacity.
func (e EmitLast[T]) DispatchEmit(mb mailbox) error {
	return mb.push(event{value: e.Value})
}

// item returns the carried element for direct (uncoordinated) draining.
func (e EmitLast[T]) item() any { return e.Value }

// last reports whether the branch stops after this element.
func (EmitLast[T]) last() bool { return true }

// emitDispatcher is the structural interface for branch output
// operations. Every suspension produced by a branch computation must
// carry an operation implementing it; anything else is a
// programmer-contract violation and panics at the drive site.
type emitDispatcher interface {
	DispatchEmit(mb mailbox) error
	item() any
	last() bool
}
