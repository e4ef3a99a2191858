// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import "code.hybscloud.com/atomix"

// yieldBudget is the shared cell capping total elements produced across
// all branches of one coordinator. Workers reserve one unit before each
// element and refund any unit they did not turn into an accepted
// element, so the observable remainder never goes negative and a cap of
// K yields exactly K elements.
type yieldBudget struct {
	n atomix.Int64
}

func newYieldBudget(cap int64) *yieldBudget {
	b := &yieldBudget{}
	b.n.Store(cap)
	return b
}

// reserve takes one unit; false when the budget is exhausted.
func (b *yieldBudget) reserve() bool {
	for {
		v := b.n.Load()
		if v <= 0 {
			return false
		}
		if b.n.CompareAndSwap(v, v-1) {
			return true
		}
	}
}

// refund returns an unused reservation.
func (b *yieldBudget) refund() {
	b.n.Add(1)
}

// exhausted reports whether no units remain.
func (b *yieldBudget) exhausted() bool {
	return b.n.Load() <= 0
}

// remaining returns the current remainder, for diagnostics.
func (b *yieldBudget) remaining() int64 {
	return b.n.Load()
}
