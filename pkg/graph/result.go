package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/viewgraph/viewgraph/pkg/viewgraph"
)

// OrderingDocument is the wire representation of a computed ordering. The
// sequence lists view IDs from position 0 upward.
type OrderingDocument struct {
	Sequence []string `json:"sequence"`
}

// OutlierEdge is one flagged measurement direction with its accumulated
// inconsistent weight.
type OutlierEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// OutlierReport is the wire representation of an outlier classification.
// Edges are sorted by descending weight, ties broken by endpoint IDs, so
// identical inputs serialize identically.
type OutlierReport struct {
	Outliers []OutlierEdge `json:"outliers"`
	Total    float64       `json:"total"`
}

// NewOrderingDocument converts an ordering to its wire representation.
// Returns an error if the positions are not a valid permutation.
func NewOrderingDocument(ord viewgraph.Ordering) (*OrderingDocument, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}
	seq := ord.Sequence()
	doc := &OrderingDocument{Sequence: make([]string, len(seq))}
	for i, id := range seq {
		doc.Sequence[i] = string(id)
	}
	return doc, nil
}

// Ordering converts the document back to position form. Returns an error
// if a view appears twice in the sequence.
func (d *OrderingDocument) Ordering() (viewgraph.Ordering, error) {
	ord := make(viewgraph.Ordering, len(d.Sequence))
	for i, v := range d.Sequence {
		id := viewgraph.ViewID(v)
		if _, dup := ord[id]; dup {
			return nil, fmt.Errorf("sequence position %d: view %q repeated: %w", i, v, viewgraph.ErrInvalidOrdering)
		}
		ord[id] = i
	}
	return ord, nil
}

// NewOutlierReport converts accumulated outlier weights to their wire
// representation, sorted by descending weight.
func NewOutlierReport(w viewgraph.OutlierWeights) *OutlierReport {
	rep := &OutlierReport{
		Outliers: make([]OutlierEdge, 0, len(w)),
		Total:    w.Total(),
	}
	for e, v := range w {
		rep.Outliers = append(rep.Outliers, OutlierEdge{From: string(e.From), To: string(e.To), Weight: v})
	}
	sort.Slice(rep.Outliers, func(i, j int) bool {
		a, b := rep.Outliers[i], rep.Outliers[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return rep
}

// WriteOrdering encodes an ordering as JSON and writes it to w.
func WriteOrdering(ord viewgraph.Ordering, w io.Writer) error {
	doc, err := NewOrderingDocument(ord)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteOutliers encodes an outlier report as JSON and writes it to w.
func WriteOutliers(weights viewgraph.OutlierWeights, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewOutlierReport(weights)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
