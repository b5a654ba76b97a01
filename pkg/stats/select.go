package stats

import (
	"math/rand/v2"
	"slices"

	"github.com/ajitpratap0/framestat/pkg/errors"
)

// PivotFunc picks the pivot position inside a partition of n > 0 elements.
// It must return a value in [0, n).
type PivotFunc func(n int) int

// RandomPivot picks a uniformly random position. It is the default strategy.
func RandomPivot(n int) int {
	return rand.IntN(n)
}

// MiddlePivot always picks the middle position. Deterministic, and quadratic
// on inputs crafted against it.
func MiddlePivot(n int) int {
	return n / 2
}

// FirstPivot always picks the first position. Quadratic on sorted input;
// mostly useful in tests.
func FirstPivot(int) int {
	return 0
}

// Select returns the element of rank k (0-based, ascending by compare)
// without sorting values. values is not modified.
//
// Each round partitions the current range into elements less than, equal to
// and greater than the pivot and continues in the group that holds rank k.
// Expected O(n) with a random pivot, O(n²) worst case.
func Select[T any](values []T, k int, compare func(a, b T) int, pivot PivotFunc) (T, error) {
	var zero T
	if k < 0 || k >= len(values) {
		return zero, errors.New(errors.ErrorTypeOutOfRange, "selection rank out of range").
			WithDetail("rank", k).
			WithDetail("len", len(values))
	}
	if pivot == nil {
		pivot = RandomPivot
	}

	work := slices.Clone(values)
	lo, hi := 0, len(work)
	for {
		n := hi - lo
		if n == 1 {
			return work[lo], nil
		}

		p := pivot(n)
		if p < 0 || p >= n {
			return zero, errors.New(errors.ErrorTypeInternal, "pivot strategy returned a position outside the partition").
				WithDetail("pivot", p).
				WithDetail("len", n)
		}

		lt, gt := partition3(work[lo:hi], work[lo+p], compare)
		switch {
		case k < lo+lt:
			hi = lo + lt
		case k < lo+gt:
			return work[k], nil
		default:
			lo += gt
		}
	}
}

// partition3 rearranges s into [< pivot | == pivot | > pivot] and returns the
// bounds of the middle group. Elements compare treats as equal to the pivot,
// including ones it cannot order, land in the middle group.
func partition3[T any](s []T, pivot T, compare func(a, b T) int) (lt, gt int) {
	i := 0
	gt = len(s)
	for i < gt {
		switch c := compare(s[i], pivot); {
		case c < 0:
			s[lt], s[i] = s[i], s[lt]
			lt++
			i++
		case c > 0:
			gt--
			s[i], s[gt] = s[gt], s[i]
		default:
			i++
		}
	}
	return lt, gt
}
