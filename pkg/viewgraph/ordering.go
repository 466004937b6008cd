package viewgraph

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOrdering is returned by [Ordering.Validate] when the positions
// are not a bijection onto {0, …, n−1}.
var ErrInvalidOrdering = errors.New("ordering is not a bijection onto 0..n-1")

// Ordering assigns each view an integer position. A complete ordering is a
// bijection onto {0, …, n−1}: every view has exactly one position and every
// position in the range is used exactly once.
type Ordering map[ViewID]int

// Position returns the view's position and whether the view is present.
func (o Ordering) Position(id ViewID) (int, bool) {
	p, ok := o[id]
	return p, ok
}

// Len returns the number of positioned views.
func (o Ordering) Len() int { return len(o) }

// Validate checks that the ordering covers positions 0..n-1 with no gaps or
// repeats. Returns ErrInvalidOrdering (wrapped with detail) otherwise.
func (o Ordering) Validate() error {
	seen := make([]bool, len(o))
	for id, p := range o {
		if p < 0 || p >= len(o) {
			return fmt.Errorf("view %s at position %d: %w", id, p, ErrInvalidOrdering)
		}
		if seen[p] {
			return fmt.Errorf("position %d assigned twice: %w", p, ErrInvalidOrdering)
		}
		seen[p] = true
	}
	return nil
}

// Sequence returns the views sorted by position, i.e. the inverse
// permutation. The ordering must be valid; call [Ordering.Validate] first if
// the positions come from an untrusted source.
func (o Ordering) Sequence() []ViewID {
	seq := make([]ViewID, len(o))
	for id, p := range o {
		if p >= 0 && p < len(seq) {
			seq[p] = id
		}
	}
	return seq
}

// OutlierWeights accumulates, per edge, the magnitude of measurements that
// disagree with a computed ordering. Only inconsistent edges are present;
// repeated (parallel) inconsistent edges accumulate into the same key.
type OutlierWeights map[Edge]float64

// Total returns the summed outlier weight across all flagged edges.
func (w OutlierWeights) Total() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Max returns the edge with the largest accumulated weight and that weight.
// The boolean is false when no edges are flagged.
func (w OutlierWeights) Max() (Edge, float64, bool) {
	var best Edge
	var found bool
	bestW := math.Inf(-1)
	for e, v := range w {
		if v > bestW || (v == bestW && less(e, best)) {
			best, bestW, found = e, v, true
		}
	}
	if !found {
		return Edge{}, 0, false
	}
	return best, bestW, true
}

// less gives a stable preference between edges with equal weight so Max is
// deterministic across map iteration orders.
func less(a, b Edge) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	return a.To < b.To
}
