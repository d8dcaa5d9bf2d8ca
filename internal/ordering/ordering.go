// Package ordering computes fractional positions for columns and cards.
//
// A new position is the midpoint of its neighbours, so nothing else has to be
// renumbered on insert. Repeated insertion into the same gap halves it each
// time; after roughly 50 halvings of a unit gap float64 runs out of mantissa
// and the midpoint equals one of the neighbours. Orders are therefore not
// unique and callers must sort with a stable tie-break. No renumbering pass
// exists; Collapsed lets callers detect the condition.
package ordering

import (
	"sort"
)

// ComputeOrder returns the position for an element placed between prev and next.
// A nil neighbour means the element goes to that end of the sequence.
func ComputeOrder(prev, next *float64) float64 {
	switch {
	case prev != nil && next != nil:
		return (*prev + *next) / 2
	case prev != nil:
		return *prev + 1
	case next != nil:
		return *next - 1
	default:
		return 1
	}
}

// Collapsed reports whether order failed to land strictly between prev and next.
func Collapsed(prev, next *float64, order float64) bool {
	if prev != nil && order <= *prev {
		return true
	}
	if next != nil && order >= *next {
		return true
	}
	return false
}

// Positioned is anything rendered in ascending order.
type Positioned interface {
	Position() float64
	TieBreak() string
}

// Sort orders elements ascending by position, ties by TieBreak, keeping input
// order for full ties.
func Sort[T Positioned](elems []T) {
	sort.SliceStable(elems, func(i, j int) bool {
		pi, pj := elems[i].Position(), elems[j].Position()
		if pi != pj {
			return pi < pj
		}
		return elems[i].TieBreak() < elems[j].TieBreak()
	})
}

// Neighbours returns the positions around index idx in a sorted slice of
// positions with the moved element already removed. idx is the insertion index.
func Neighbours(sorted []float64, idx int) (prev, next *float64) {
	if idx > 0 && idx-1 < len(sorted) {
		p := sorted[idx-1]
		prev = &p
	}
	if idx >= 0 && idx < len(sorted) {
		n := sorted[idx]
		next = &n
	}
	return prev, next
}
