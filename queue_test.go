// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import (
	"sync"
	"testing"
)

func TestLIFOQueueOrder(t *testing.T) {
	q := &lifoQueue{}
	if !q.drained() {
		t.Fatal("fresh queue not drained")
	}
	a, b, c := &workItem{}, &workItem{}, &workItem{}
	q.push(a)
	q.push(b)
	q.push(c)
	if q.drained() {
		t.Fatal("drained with three items")
	}
	for i, want := range []*workItem{c, b, a} {
		if got := q.pop(); got != want {
			t.Fatalf("pop %d: got %p, want %p", i, got, want)
		}
	}
	if got := q.pop(); got != nil {
		t.Fatalf("pop on empty: got %p, want nil", got)
	}
	if !q.drained() {
		t.Fatal("not drained after full pop")
	}
}

func TestFIFOQueueOrder(t *testing.T) {
	q := newFIFOQueue()
	if !q.drained() {
		t.Fatal("fresh queue not drained")
	}
	a, b, c := &workItem{}, &workItem{}, &workItem{}
	q.push(a)
	q.push(b)
	q.push(c)
	for i, want := range []*workItem{a, b, c} {
		if got := q.pop(); got != want {
			t.Fatalf("pop %d: got %p, want %p", i, got, want)
		}
	}
	if got := q.pop(); got != nil {
		t.Fatalf("pop on empty: got %p, want nil", got)
	}
	if !q.drained() {
		t.Fatal("not drained after full pop")
	}
}

func TestQueueInterleavedReuse(t *testing.T) {
	for _, q := range []workQueue{&lifoQueue{}, newFIFOQueue()} {
		a, b := &workItem{}, &workItem{}
		q.push(a)
		if got := q.pop(); got != a {
			t.Fatalf("got %p, want %p", got, a)
		}
		q.push(b)
		if got := q.pop(); got != b {
			t.Fatalf("got %p, want %p", got, b)
		}
		if !q.drained() {
			t.Fatal("not drained")
		}
	}
}

// Concurrent pushers and poppers: every item pushed is popped exactly
// once, none invented.
func TestQueueConcurrent(t *testing.T) {
	for _, q := range []workQueue{&lifoQueue{}, newFIFOQueue()} {
		const pushers, perPusher = 4, 1000
		var wg sync.WaitGroup
		for range pushers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perPusher {
					q.push(&workItem{})
				}
			}()
		}

		var popped sync.Map
		var count sync.WaitGroup
		done := make(chan struct{})
		for range 4 {
			count.Add(1)
			go func() {
				defer count.Done()
				for {
					it := q.pop()
					if it == nil {
						select {
						case <-done:
							return
						default:
							continue
						}
					}
					if _, dup := popped.LoadOrStore(it, true); dup {
						t.Error("item popped twice")
						return
					}
				}
			}()
		}

		wg.Wait()
		// pushers finished; poppers drain the remainder then exit
		for !q.drained() {
		}
		close(done)
		count.Wait()

		n := 0
		popped.Range(func(any, any) bool { n++; return true })
		if n != pushers*perPusher {
			t.Fatalf("popped %d items, want %d", n, pushers*perPusher)
		}
	}
}
