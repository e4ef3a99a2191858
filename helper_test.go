// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq_test

import (
	"code.hybscloud.com/cseq"
)

// fromRows builds one sequence per row of elements.
func fromRows(rows [][]int) []cseq.Seq[int] {
	branches := make([]cseq.Seq[int], len(rows))
	for i, row := range rows {
		branches[i] = cseq.From(row...)
	}
	return branches
}

// concatRows is the expected depth-first single-worker output:
// rows in declaration order, each row in element order.
func concatRows(rows [][]int) []int {
	var out []int
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// roundRobinRows is the expected breadth-first single-worker output
// when no backpressure occurs: one element per live row per turn,
// exhausted rows dropping out.
func roundRobinRows(rows [][]int) []int {
	var out []int
	for r := 0; ; r++ {
		took := false
		for _, row := range rows {
			if r < len(row) {
				out = append(out, row[r])
				took = true
			}
		}
		if !took {
			return out
		}
	}
}

// multiset counts element occurrences, for interleaving-independent
// comparisons.
func multiset(xs []int) map[int]int {
	m := make(map[int]int, len(xs))
	for _, x := range xs {
		m[x]++
	}
	return m
}

func sameMultiset(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	ma, mb := multiset(a), multiset(b)
	for k, n := range ma {
		if mb[k] != n {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// counting unfolds [lo, hi) one element at a time.
func counting(lo, hi int) cseq.Seq[int] {
	return cseq.Generate(lo, func(i int) (int, int, bool) {
		if i >= hi {
			return 0, 0, false
		}
		return i, i + 1, true
	})
}

// endless unfolds from with no upper bound; consumption must be
// bounded by a yield cap or an early stop.
func endless(from int) cseq.Seq[int] {
	return cseq.Generate(from, func(i int) (int, int, bool) {
		return i, i + 1, true
	})
}
