package mathx

import "golang.org/x/exp/slices"

// StableTopoSort returns a permutation of indices [0, n) such that for
// every edge a->b recorded in dependsOn (meaning "a must be resolved
// before b"), a's index precedes b's in the result. Ties are broken by
// original index, so the output is deterministic across calls on the
// same graph — the clock graph relies on this to walk branch clocks in
// an order where every branch's base clock is already resolved.
//
// dependsOn(a, b) returns true when a must come before b. The graph
// must be acyclic; a cycle makes some node never satisfied, and that
// node is appended in original-index order at the end of the pass that
// detects no remaining progress.
func StableTopoSort(n int, dependsOn func(a, b int) bool) []int {
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	order := make([]int, 0, n)

	for len(remaining) > 0 {
		ready := make([]int, 0, len(remaining))
		for _, i := range remaining {
			blocked := false
			for _, j := range remaining {
				if j != i && dependsOn(j, i) {
					blocked = true
					break
				}
			}
			if !blocked {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			// Cycle (or unresolved dependency): take whatever remains in
			// original-index order rather than looping forever.
			order = append(order, remaining...)
			break
		}
		order = append(order, ready...)
		remaining = slices.DeleteFunc(remaining, func(i int) bool {
			return slices.Contains(ready, i)
		})
	}
	return order
}
