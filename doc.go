// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cseq evaluates lazily-produced sequences concurrently on
// [code.hybscloud.com/kont], merging their outputs into one ordered,
// lazily-consumed sequence.
//
// Branches are continuation-driven producers; a dynamically sized pool
// of workers drives their suspensions, pushes elements into a shared
// mailbox, and requeues remainders under backpressure. No element is
// lost or duplicated, and a branch failure surfaces after that
// branch's delivered prefix, then aborts the whole composition.
//
// # Architecture
//
//   - Branches: [Seq] values build kont computations performing [Emit]
//     effects; [*kont.Suspension] is the thread-transferable work item.
//   - Coordinator: per-join scheduling state — mailbox, wake cell,
//     discipline-ordered work queue, worker and budget cells. All
//     shared cells are [code.hybscloud.com/atomix] CAS retry loops.
//   - Backpressure: mailbox dispatch is non-blocking and returns
//     [code.hybscloud.com/iox.ErrWouldBlock] at capacity; the rejected
//     remainder is requeued and resumes once the consumer drains.
//   - Transport: the single-worker mailbox is a bounded lock-free SPSC
//     queue via [code.hybscloud.com/lfq]; the multi-worker mailbox is a
//     CAS ticket ring.
//
// # Disciplines
//
//   - [DepthFirst]: stack-ordered dequeue, accepted continuations keep
//     running inline — finishes left-most branches first and folds
//     unbounded join chains in bounded space.
//   - [BreadthFirst]: FIFO dequeue, one element per turn — strict
//     round-robin fairness, every live branch stays resident.
//
// # API Topologies
//
//   - Sequences: [From], [Generate], [Concat], [Raise], [Produce],
//     [ProduceEff]. Producer ops: [Emit], [EmitLast].
//   - Cont-world: [EmitThen], [EmitLastDone], [Done], [Fault], [Loop].
//   - Expr-world: [ExprEmitThen], [ExprEmitLastDone], [ExprDone],
//     [ExprFault], [ExprLoop]. Bridge via [Reify] and [Reflect].
//   - Merging: [Join], [Merge], [FlatMerge]; fixed-discipline wrappers
//     [Deep]/[Fair] with [ChainDeep]/[ChainFair].
//   - Consumption: [Evaluate] returning an [Iterator], or [Collect].
//
// # Scheduling
//
// Workers spawn on demand, bounded by Config.MaxWorkers, and exit when
// their loop finds no work; an optional [RatePolicy] grows the pool
// toward a target emission rate without ever delaying producers. A
// same-discipline join evaluated inside a running branch flattens onto
// the live coordinator; a discipline transition forks a new one. An
// optional yield cap bounds total production across all branches of a
// coordinator via a shared reserve/refund budget cell.
//
// # Example
//
//	merged := cseq.Join(cseq.DepthFirst,
//		cseq.From(1, 2, 3),
//		cseq.From(4, 5, 6),
//	)
//	it := cseq.Evaluate(cseq.Config{MaxWorkers: 1}, merged)
//	for it.Next() {
//		fmt.Println(it.Value()) // 1 2 3 4 5 6
//	}
//	if err := it.Err(); err != nil {
//		// first branch failure, after that branch's delivered prefix
//	}
package cseq
