// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// event is one entry of the coordinator mailbox: an element produced by
// a branch, or a branch failure. A non-nil err marks the failure case.
// Branch completion is signaled through the wake cell and the worker
// count, not buffered as an event, so it never competes for mailbox
// capacity with elements.
type event struct {
	value any
	err   error
}

// mailbox is the ordered output buffer between branch workers and the
// single consumer of the merged sequence. push and pop are non-blocking
// and return iox.ErrWouldBlock at capacity and on empty respectively.
//
// Two implementations, selected at coordinator construction:
//   - spscMailbox (lfq) when at most one worker can be live;
//   - ringMailbox (atomix CAS ticket ring) for the general
//     multi-producer case.
type mailbox interface {
	push(ev event) error
	pop() (event, error)
}

// spscMailbox backs the mailbox with a bounded lock-free SPSC queue
// when maxWorkers == 1: exactly one producer goroutine is live at any
// time, and producer migration between exiting and freshly spawned
// workers is ordered by the CAS protocol on the live-worker count.
type spscMailbox struct {
	q lfq.SPSC[event]
}

func newSPSCMailbox(capacity int) *spscMailbox {
	m := &spscMailbox{}
	m.q.Init(capacity)
	return m
}

func (m *spscMailbox) push(ev event) error {
	return m.q.Enqueue(&ev)
}

func (m *spscMailbox) pop() (event, error) {
	return m.q.Dequeue()
}

// ringMailbox is a bounded multi-producer ring with per-slot sequence
// cells (ticket protocol). Producers claim a slot by CAS on the tail
// ticket; the slot sequence cell publishes the written event to the
// consumer. Capacity is rounded up to a power of two, minimum two.
type ringMailbox struct {
	mask  uint64
	slots []ringSlot
	tail  atomix.Uint64
	head  atomix.Uint64
}

type ringSlot struct {
	seq atomix.Uint64
	ev  event
}

func newRingMailbox(capacity int) *ringMailbox {
	n := ceilPow2(capacity)
	if n < 2 {
		// a one-slot ring cannot tell free (seq == pos) from full:
		// after one push the next ticket aliases the same state and
		// overwrites the unconsumed event. Two slots is the smallest
		// ring where full is always seq < pos.
		n = 2
	}
	m := &ringMailbox{
		mask:  uint64(n - 1),
		slots: make([]ringSlot, n),
	}
	for i := range m.slots {
		m.slots[i].seq.Store(uint64(i))
	}
	return m
}

// push claims the next tail ticket and publishes ev.
// Returns iox.ErrWouldBlock when the ring is full.
func (m *ringMailbox) push(ev event) error {
	for {
		pos := m.tail.Load()
		s := &m.slots[pos&m.mask]
		seq := s.seq.Load()
		switch {
		case seq == pos:
			if m.tail.CompareAndSwap(pos, pos+1) {
				// slot owned: the sequence store publishes ev
				s.ev = ev
				s.seq.Store(pos + 1)
				return nil
			}
		case seq < pos:
			return iox.ErrWouldBlock
		default:
			// another producer claimed this ticket; retry
		}
	}
}

// pop consumes the next head ticket.
// Returns iox.ErrWouldBlock when the ring is empty.
func (m *ringMailbox) pop() (event, error) {
	for {
		pos := m.head.Load()
		s := &m.slots[pos&m.mask]
		seq := s.seq.Load()
		switch {
		case seq == pos+1:
			if m.head.CompareAndSwap(pos, pos+1) {
				ev := s.ev
				s.ev = event{}
				s.seq.Store(pos + m.mask + 1)
				return ev, nil
			}
		case seq <= pos:
			return event{}, iox.ErrWouldBlock
		default:
			// producer still writing an older ticket; retry
		}
	}
}

// ceilPow2 rounds n up to the next power of two, minimum 1.
func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
