package viewgraph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidViewID is returned by [Graph.AddView] when the view ID is
	// empty. All views must have non-empty identifiers.
	ErrInvalidViewID = errors.New("view ID must not be empty")

	// ErrDuplicateView is returned by [Graph.AddView] when a view with the
	// same ID already exists in the graph. View IDs must be unique.
	ErrDuplicateView = errors.New("duplicate view ID")

	// ErrUnknownView is returned by [Graph.AddMeasurement] when an endpoint
	// does not exist in the view set.
	ErrUnknownView = errors.New("unknown view")
)

// ViewID identifies a camera view. It is opaque to the ordering algorithms,
// which only require equality and hashing.
type ViewID string

// Edge is a directed relative measurement between two views. The direction
// carries meaning only together with the sign of the associated weight; see
// the order package for sign normalization.
//
// Edge is comparable and is used as a map key in [OutlierWeights].
type Edge struct {
	From ViewID
	To   ViewID
}

// Graph is a directed multigraph of views and weighted relative measurements.
// Parallel edges and self-loops are allowed; weights may be negative until
// sign normalization. The view set may include views with no incident edges.
//
// The zero value is not usable - use [New] to create a Graph.
type Graph struct {
	views   []ViewID // insertion order, drives ordering tie-breaks
	index   map[ViewID]struct{}
	edges   []Edge
	weights []float64
}

// New creates an empty view-graph.
func New() *Graph {
	return &Graph{index: make(map[ViewID]struct{})}
}

// AddView adds a view to the graph. Returns ErrInvalidViewID if the ID is
// empty, or ErrDuplicateView if the view already exists. Insertion order is
// preserved and later reported by [Graph.Views].
func (g *Graph) AddView(id ViewID) error {
	if id == "" {
		return ErrInvalidViewID
	}
	if _, exists := g.index[id]; exists {
		return ErrDuplicateView
	}
	g.views = append(g.views, id)
	g.index[id] = struct{}{}
	return nil
}

// AddMeasurement adds a directed measurement between two existing views.
// Returns ErrUnknownView if either endpoint has not been added. Self-loops
// (from == to) and parallel edges are permitted.
func (g *Graph) AddMeasurement(from, to ViewID, weight float64) error {
	if _, ok := g.index[from]; !ok {
		return ErrUnknownView
	}
	if _, ok := g.index[to]; !ok {
		return ErrUnknownView
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.weights = append(g.weights, weight)
	return nil
}

// HasView reports whether the view exists in the graph.
func (g *Graph) HasView(id ViewID) bool {
	_, ok := g.index[id]
	return ok
}

// Views returns the view set in insertion order. The returned slice is a
// copy and can be modified freely.
func (g *Graph) Views() []ViewID { return slices.Clone(g.views) }

// Measurements returns copies of the index-aligned edge and weight slices.
// Position i of the weight slice belongs to position i of the edge slice.
func (g *Graph) Measurements() ([]Edge, []float64) {
	return slices.Clone(g.edges), slices.Clone(g.weights)
}

// ViewCount returns the number of views in the graph.
func (g *Graph) ViewCount() int { return len(g.views) }

// EdgeCount returns the number of measurements in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// InWeight returns the summed weight of measurements pointing at the view.
// Views with no incoming measurements (or unknown views) report 0.
func (g *Graph) InWeight(id ViewID) float64 {
	var sum float64
	for i, e := range g.edges {
		if e.To == id {
			sum += g.weights[i]
		}
	}
	return sum
}

// OutWeight returns the summed weight of measurements leaving the view.
func (g *Graph) OutWeight(id ViewID) float64 {
	var sum float64
	for i, e := range g.edges {
		if e.From == id {
			sum += g.weights[i]
		}
	}
	return sum
}
