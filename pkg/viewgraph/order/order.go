package order

import (
	"errors"
	"fmt"

	"github.com/viewgraph/viewgraph/pkg/viewgraph"
)

// SourceTolerance is the threshold under which a view's remaining incoming
// weight is treated as zero, making the view an immediate "source" choice.
// Degree bookkeeping subtracts floating-point sums, so a plain == 0
// comparison would miss views whose incoming weight has drifted slightly
// above or below zero.
const SourceTolerance = 1e-8

var (
	// ErrMismatchedLengths is returned when the edge and weight slices are
	// not index-aligned.
	ErrMismatchedLengths = errors.New("edge and weight slices must have equal length")

	// ErrMissingView is returned when an edge endpoint is absent from the
	// supplied view set, or from the ordering during classification.
	ErrMissingView = errors.New("edge endpoint missing from view set")
)

// FlipNegativeEdges canonicalizes edge directions in place: wherever
// weights[i] is negative, the edge's endpoints are swapped and the weight
// negated. Afterwards every weight is >= 0 and the undirected multiset of
// (endpoint pair, |weight|) is unchanged.
func FlipNegativeEdges(edges []viewgraph.Edge, weights []float64) error {
	if len(edges) != len(weights) {
		return fmt.Errorf("%d edges, %d weights: %w", len(edges), len(weights), ErrMismatchedLengths)
	}
	for i, w := range weights {
		if w < 0 {
			edges[i].From, edges[i].To = edges[i].To, edges[i].From
			weights[i] = -w
		}
	}
	return nil
}

// TraceEvent describes one round of the greedy selection loop.
type TraceEvent struct {
	Round     int              // sequential position assigned this round
	Choice    viewgraph.ViewID // the selected view
	Source    bool             // true if selected as a near-zero-in-weight source
	Score     float64          // smoothed out/in ratio; 0 for source picks
	InWeight  float64          // remaining incoming weight at selection time
	OutWeight float64          // remaining outgoing weight at selection time
}

// Orderer runs the greedy ratio heuristic. The zero value is ready to use;
// set Trace to observe the selection loop.
type Orderer struct {
	// Trace, if non-nil, is invoked once per selection round.
	Trace func(TraceEvent)
}

// neighbor is one adjacency entry: the view at the far end of an edge and
// that edge's weight.
type neighbor struct {
	id     viewgraph.ViewID
	weight float64
}

// Order computes positions for every view in views. Edges and weights must
// be index-aligned (ErrMismatchedLengths otherwise) and every edge endpoint
// must appear in views (ErrMissingView otherwise). Weights are expected to
// be sign-normalized; run [FlipNegativeEdges] first.
//
// Selection scans views in slice order each round. A view whose remaining
// incoming weight is below [SourceTolerance] is chosen immediately; failing
// that, the view with the highest (out+1)/(in+1) ratio wins, first view
// achieving the strict maximum on ties. Each selection subtracts the chosen
// view's edge weights from its neighbors' degrees; degrees are deliberately
// not clamped at zero, matching the reference heuristic, so floating-point
// drift can leave small negative remainders.
//
// Runs in O(n²) selection time plus O(E) bookkeeping. An empty view set
// yields an empty, valid ordering.
func (o Orderer) Order(edges []viewgraph.Edge, weights []float64, views []viewgraph.ViewID) (viewgraph.Ordering, error) {
	if len(edges) != len(weights) {
		return nil, fmt.Errorf("%d edges, %d weights: %w", len(edges), len(weights), ErrMismatchedLengths)
	}

	known := make(map[viewgraph.ViewID]struct{}, len(views))
	for _, v := range views {
		known[v] = struct{}{}
	}

	inWeight := make(map[viewgraph.ViewID]float64, len(known))
	outWeight := make(map[viewgraph.ViewID]float64, len(known))
	inbrs := make(map[viewgraph.ViewID][]neighbor)
	onbrs := make(map[viewgraph.ViewID][]neighbor)

	for i, e := range edges {
		if _, ok := known[e.From]; !ok {
			return nil, fmt.Errorf("edge %s→%s: view %s: %w", e.From, e.To, e.From, ErrMissingView)
		}
		if _, ok := known[e.To]; !ok {
			return nil, fmt.Errorf("edge %s→%s: view %s: %w", e.From, e.To, e.To, ErrMissingView)
		}
		w := weights[i]
		inWeight[e.To] += w
		outWeight[e.From] += w
		inbrs[e.To] = append(inbrs[e.To], neighbor{id: e.From, weight: w})
		onbrs[e.From] = append(onbrs[e.From], neighbor{id: e.To, weight: w})
	}

	positions := make(viewgraph.Ordering, len(known))
	for len(positions) < len(known) {
		var choice viewgraph.ViewID
		var chosen, isSource bool
		var best float64

		for _, v := range views {
			if _, done := positions[v]; done {
				continue
			}
			if inWeight[v] < SourceTolerance {
				choice, chosen, isSource = v, true, true
				break
			}
			// Taking the first candidate unconditionally doubles as a
			// stall guard: if drift ever pushes every score non-positive,
			// the round still selects a view and the loop terminates.
			if score := (outWeight[v] + 1) / (inWeight[v] + 1); !chosen || score > best {
				choice, chosen, best = v, true, score
			}
		}

		round := len(positions)
		if o.Trace != nil {
			ev := TraceEvent{
				Round:     round,
				Choice:    choice,
				Source:    isSource,
				InWeight:  inWeight[choice],
				OutWeight: outWeight[choice],
			}
			if !isSource {
				ev.Score = best
			}
			o.Trace(ev)
		}

		// Remove the chosen view's influence from subsequent rounds.
		// Self-loops appear in both adjacency lists of the chosen view;
		// adjusting its own degrees is harmless since it is now positioned.
		for _, nb := range inbrs[choice] {
			outWeight[nb.id] -= nb.weight
		}
		for _, nb := range onbrs[choice] {
			inWeight[nb.id] -= nb.weight
		}
		positions[choice] = round
	}

	return positions, nil
}

// Order is a convenience wrapper for Orderer{}.Order.
func Order(edges []viewgraph.Edge, weights []float64, views []viewgraph.ViewID) (viewgraph.Ordering, error) {
	return Orderer{}.Order(edges, weights, views)
}
