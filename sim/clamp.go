package sim

import "cmp"

// clamp constrains v to the inclusive range [lo, hi].
func clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
