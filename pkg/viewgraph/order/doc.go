// Package order computes a near-optimal linear ordering of views that
// minimizes the total weight of backward edges, and classifies measurements
// that disagree with the result.
//
// # Overview
//
// Finding a minimum-weight feedback arc set is NP-hard, so this package
// implements a greedy heuristic: views are peeled off one at a time, always
// preferring a view whose remaining incoming weight is (within tolerance)
// zero, and otherwise the view with the best smoothed out/in weight ratio.
// The result is always a valid total order, but not necessarily the globally
// minimal feedback arc weight.
//
// The three steps are used in sequence:
//
//  1. [FlipNegativeEdges] canonicalizes edge directions using weight signs.
//  2. [Orderer.Order] produces the total order.
//  3. [OutlierWeights] accumulates the magnitude of every measurement whose
//     direction contradicts the order.
//
// # Determinism
//
// The heuristic is deterministic for a fixed view iteration order: ties are
// broken by the first view in the supplied view slice, and duplicate-edge
// weights are accumulated in edge-slice order. Callers that need
// reproducible output must keep both orders stable between runs.
//
// # Tracing
//
// The selection loop emits a [TraceEvent] per round through the optional
// [Orderer.Trace] callback. This replaces ad-hoc diagnostic printing: the
// package itself never writes to stdout.
package order
