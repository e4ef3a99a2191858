// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

// The two public sequence variants differ only in the discipline their
// default operators pass to the join protocol.

// Deep is the depth-first-merge sequence variant: its Merge and the
// ChainDeep operator join with [DepthFirst], preferring to finish
// left-most branches while still surfacing results from any branch as
// soon as they are available. Folding an unbounded collection of Deep
// sequences keeps the work queue bounded.
type Deep[T any] struct {
	Seq Seq[T]
}

// AsDeep wraps a sequence in the depth-first-merge variant.
func AsDeep[T any](s Seq[T]) Deep[T] {
	return Deep[T]{Seq: s}
}

// Merge joins the two sequences under the depth-first discipline.
func (a Deep[T]) Merge(b Deep[T]) Deep[T] {
	return Deep[T]{Seq: Join(DepthFirst, a.Seq, b.Seq)}
}

// ChainDeep maps each element of a to a sub-sequence and folds the
// sub-sequences with the depth-first join.
func ChainDeep[T, U any](a Deep[T], f func(T) Deep[U]) Deep[U] {
	return Deep[U]{Seq: FlatMerge(DepthFirst, a.Seq, func(x T) Seq[U] {
		return f(x).Seq
	})}
}

// Fair is the breadth-first-merge sequence variant: its Merge and the
// ChainFair operator join with [BreadthFirst], guaranteeing round-robin
// fairness among branches. Every live branch stays resident, so Fair is
// unsuitable for folding an unbounded branch collection.
type Fair[T any] struct {
	Seq Seq[T]
}

// AsFair wraps a sequence in the breadth-first-merge variant.
func AsFair[T any](s Seq[T]) Fair[T] {
	return Fair[T]{Seq: s}
}

// Merge joins the two sequences under the breadth-first discipline.
func (a Fair[T]) Merge(b Fair[T]) Fair[T] {
	return Fair[T]{Seq: Join(BreadthFirst, a.Seq, b.Seq)}
}

// ChainFair maps each element of a to a sub-sequence and folds the
// sub-sequences with the breadth-first join.
func ChainFair[T, U any](a Fair[T], f func(T) Fair[U]) Fair[U] {
	return Fair[U]{Seq: FlatMerge(BreadthFirst, a.Seq, func(x T) Seq[U] {
		return f(x).Seq
	})}
}
