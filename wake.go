// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

// wakeCell is the single rendezvous cell of a coordinator: workers
// signal it on every mailbox push, enqueue, and exit; the one logical
// consumer parks on it when the mailbox is empty. A one-token channel
// collapses redundant signals and makes missed wakes impossible —
// every push leaves either an event or a token behind, so the consumer
// observes one of them after re-checking. Spurious wakes are allowed.
type wakeCell struct {
	ch chan struct{}
}

func newWakeCell() *wakeCell {
	return &wakeCell{ch: make(chan struct{}, 1)}
}

// signal wakes the parked consumer if any; never blocks.
func (w *wakeCell) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// wait parks the caller until the next signal.
func (w *wakeCell) wait() {
	<-w.ch
}
