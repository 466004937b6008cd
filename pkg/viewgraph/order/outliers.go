package order

import (
	"fmt"
	"math"

	"github.com/viewgraph/viewgraph/pkg/viewgraph"
)

// OutlierWeights classifies every measurement against a completed ordering.
// An edge (u, v) with weight w disagrees with the ordering when
// (pos[v] − pos[u]) · w < 0: either a positively-weighted edge pointing
// backward, or a negatively-weighted edge pointing forward. For each such
// edge |w| is accumulated under the edge key; consistent edges are not
// recorded. Self-loops have zero position difference and are never flagged.
//
// The weights should be the same ones used to build the ordering. Both
// endpoints of every edge must be positioned (ErrMissingView otherwise);
// misaligned slices return ErrMismatchedLengths. The classification is pure:
// repeated calls with identical inputs produce identical results.
func OutlierWeights(edges []viewgraph.Edge, weights []float64, positions viewgraph.Ordering) (viewgraph.OutlierWeights, error) {
	if len(edges) != len(weights) {
		return nil, fmt.Errorf("%d edges, %d weights: %w", len(edges), len(weights), ErrMismatchedLengths)
	}

	outliers := make(viewgraph.OutlierWeights)
	for i, e := range edges {
		pu, ok := positions[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: view %s not positioned: %w", e.From, e.To, e.From, ErrMissingView)
		}
		pv, ok := positions[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: view %s not positioned: %w", e.From, e.To, e.To, ErrMissingView)
		}
		if float64(pv-pu)*weights[i] < 0 {
			outliers[e] += math.Abs(weights[i])
		}
	}
	return outliers, nil
}
