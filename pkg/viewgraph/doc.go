// Package viewgraph defines the core data model for view-graphs: directed
// graphs whose nodes are camera views and whose edges carry signed, weighted
// relative-pose measurements.
//
// # Overview
//
// A [Graph] holds an explicit set of views plus index-aligned edge and weight
// slices. Views are kept in insertion order, and that order is significant:
// the ordering heuristic in [github.com/viewgraph/viewgraph/pkg/viewgraph/order]
// breaks ties by picking the first view in iteration order, so two graphs with
// the same views added in a different sequence may produce different (equally
// valid) orderings.
//
// Edge weights are signed before normalization. The sign encodes direction
// ambiguity of the underlying measurement and the magnitude encodes
// confidence; after sign normalization all weights are non-negative.
//
// # Outputs
//
// [Ordering] maps each view to an integer position and, once complete, is a
// bijection onto {0, …, n−1}. [OutlierWeights] accumulates the magnitude of
// every measurement that disagrees with a computed ordering. Both are plain
// map types so downstream consumers (averaging, factor-graph construction)
// can use them without adapters.
//
// # Usage
//
//	g := viewgraph.New()
//	_ = g.AddView("v0")
//	_ = g.AddView("v1")
//	_ = g.AddMeasurement("v0", "v1", 0.8)
//
//	edges, weights := g.Measurements()
//	positions, err := order.Order(edges, weights, g.Views())
//
// Graph is not safe for concurrent use without external synchronization.
package viewgraph
