package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/viewgraph/viewgraph/pkg/errors"
	"github.com/viewgraph/viewgraph/pkg/viewgraph"
)

// Document is the wire representation of a view-graph.
type Document struct {
	Views        []string      `json:"views,omitempty"`
	Measurements []Measurement `json:"measurements"`
}

// Measurement is the wire representation of a single weighted edge.
type Measurement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Read decodes a JSON graph document from r into a view-graph.
//
// The input must be a JSON object with a "measurements" array and an
// optional "views" array:
//
//	{
//	  "views": ["a", "b"],
//	  "measurements": [{"from": "a", "to": "b", "weight": 1.0}]
//	}
//
// When "views" is present it fixes the view iteration order and every
// measurement endpoint must appear in it. When omitted, views are
// registered in order of first appearance in "measurements".
//
// Read returns an error if:
//   - The JSON is malformed
//   - A view ID is empty, too long, or contains control characters
//   - A view appears twice in an explicit "views" array
//   - A measurement references a view missing from an explicit "views" array
//
// The returned graph is independent of r and can be modified safely after
// Read returns. Read does not close r.
func Read(r io.Reader) (*viewgraph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(&doc)
}

// FromDocument builds a view-graph from a decoded document. It applies the
// same validation as [Read].
func FromDocument(doc *Document) (*viewgraph.Graph, error) {
	g := viewgraph.New()

	explicit := len(doc.Views) > 0
	for _, v := range doc.Views {
		if err := errors.ValidateViewID(v); err != nil {
			return nil, fmt.Errorf("view %q: %w", v, err)
		}
		if err := g.AddView(viewgraph.ViewID(v)); err != nil {
			return nil, fmt.Errorf("view %q: %w", v, err)
		}
	}

	for i, m := range doc.Measurements {
		from, to := viewgraph.ViewID(m.From), viewgraph.ViewID(m.To)
		if explicit {
			if !g.HasView(from) {
				return nil, fmt.Errorf("measurement %d: %w: %q", i, viewgraph.ErrUnknownView, m.From)
			}
			if !g.HasView(to) {
				return nil, fmt.Errorf("measurement %d: %w: %q", i, viewgraph.ErrUnknownView, m.To)
			}
		} else {
			for _, v := range []string{m.From, m.To} {
				if g.HasView(viewgraph.ViewID(v)) {
					continue
				}
				if err := errors.ValidateViewID(v); err != nil {
					return nil, fmt.Errorf("measurement %d: %w", i, err)
				}
				if err := g.AddView(viewgraph.ViewID(v)); err != nil {
					return nil, fmt.Errorf("measurement %d: %w", i, err)
				}
			}
		}
		if err := g.AddMeasurement(from, to, m.Weight); err != nil {
			return nil, fmt.Errorf("measurement %d (%s->%s): %w", i, m.From, m.To, err)
		}
	}

	return g, nil
}

// ToDocument converts a view-graph to its wire representation. The views
// array is always populated so that re-importing preserves iteration order.
func ToDocument(g *viewgraph.Graph) *Document {
	views := g.Views()
	edges, weights := g.Measurements()

	doc := &Document{
		Views:        make([]string, len(views)),
		Measurements: make([]Measurement, len(edges)),
	}
	for i, v := range views {
		doc.Views[i] = string(v)
	}
	for i, e := range edges {
		doc.Measurements[i] = Measurement{From: string(e.From), To: string(e.To), Weight: weights[i]}
	}
	return doc
}

// Write encodes a view-graph as JSON and writes it to w. The output always
// includes the views array, so [Read] reconstructs an identical graph.
func Write(g *viewgraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportFile reads a JSON file at path and returns the decoded view-graph.
// The error wraps the underlying cause with the file path for context.
func ImportFile(path string) (*viewgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// ExportFile writes a view-graph to a JSON file at path. This is a
// convenience wrapper around [Write] for file-based output.
func ExportFile(g *viewgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}
