package graph

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/viewgraph/viewgraph/pkg/viewgraph"
)

func TestReadExplicitViews(t *testing.T) {
	input := `{
		"views": ["c", "a", "b"],
		"measurements": [
			{"from": "a", "to": "b", "weight": 1.5},
			{"from": "b", "to": "c", "weight": -0.5}
		]
	}`

	g, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	views := g.Views()
	want := []viewgraph.ViewID{"c", "a", "b"}
	if len(views) != len(want) {
		t.Fatalf("Views() = %v, want %v", views, want)
	}
	for i := range want {
		if views[i] != want[i] {
			t.Errorf("Views()[%d] = %v, want %v", i, views[i], want[i])
		}
	}

	edges, weights := g.Measurements()
	if len(edges) != 2 {
		t.Fatalf("EdgeCount = %d, want 2", len(edges))
	}
	if edges[0] != (viewgraph.Edge{From: "a", To: "b"}) || weights[0] != 1.5 {
		t.Errorf("measurement 0 = %v %v, want a->b 1.5", edges[0], weights[0])
	}
	if edges[1] != (viewgraph.Edge{From: "b", To: "c"}) || weights[1] != -0.5 {
		t.Errorf("measurement 1 = %v %v, want b->c -0.5", edges[1], weights[1])
	}
}

func TestReadDerivedViews(t *testing.T) {
	input := `{
		"measurements": [
			{"from": "x", "to": "y", "weight": 1},
			{"from": "z", "to": "x", "weight": 2}
		]
	}`

	g, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	views := g.Views()
	want := []viewgraph.ViewID{"x", "y", "z"}
	if len(views) != len(want) {
		t.Fatalf("Views() = %v, want %v", views, want)
	}
	for i := range want {
		if views[i] != want[i] {
			t.Errorf("Views()[%d] = %v, want %v (first-appearance order)", i, views[i], want[i])
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "malformed JSON",
			input: `{"measurements": [`,
		},
		{
			name:  "duplicate view",
			input: `{"views": ["a", "a"], "measurements": []}`,
		},
		{
			name:  "empty view ID",
			input: `{"views": [""], "measurements": []}`,
		},
		{
			name:  "control character in view ID",
			input: "{\"views\": [\"a\u0001\"], \"measurements\": []}",
		},
		{
			name:  "empty measurement endpoint",
			input: `{"measurements": [{"from": "", "to": "b", "weight": 1}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); err == nil {
				t.Error("Read() = nil, want error")
			}
		})
	}
}

func TestReadUnknownViewWithExplicitList(t *testing.T) {
	input := `{
		"views": ["a", "b"],
		"measurements": [{"from": "a", "to": "ghost", "weight": 1}]
	}`

	_, err := Read(strings.NewReader(input))
	if !errors.Is(err, viewgraph.ErrUnknownView) {
		t.Errorf("Read() error = %v, want ErrUnknownView", err)
	}
}

func TestRoundTrip(t *testing.T) {
	g := viewgraph.New()
	for _, v := range []viewgraph.ViewID{"cam2", "cam0", "cam1"} {
		if err := g.AddView(v); err != nil {
			t.Fatalf("AddView(%s) error = %v", v, err)
		}
	}
	measurements := []struct {
		from, to viewgraph.ViewID
		w        float64
	}{
		{"cam0", "cam1", 1.0},
		{"cam1", "cam2", -2.5},
		{"cam0", "cam1", 0.25}, // parallel edge
		{"cam2", "cam2", 3.0},  // self-loop
	}
	for _, m := range measurements {
		if err := g.AddMeasurement(m.from, m.to, m.w); err != nil {
			t.Fatalf("AddMeasurement error = %v", err)
		}
	}

	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	g2, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	v1, v2 := g.Views(), g2.Views()
	if len(v1) != len(v2) {
		t.Fatalf("view count mismatch: %d vs %d", len(v1), len(v2))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Errorf("view order changed at %d: %v vs %v", i, v1[i], v2[i])
		}
	}

	e1, w1 := g.Measurements()
	e2, w2 := g2.Measurements()
	if len(e1) != len(e2) {
		t.Fatalf("edge count mismatch: %d vs %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i] != e2[i] || w1[i] != w2[i] {
			t.Errorf("measurement %d changed: %v %v vs %v %v", i, e1[i], w1[i], e2[i], w2[i])
		}
	}
}

func TestOrderingDocumentRoundTrip(t *testing.T) {
	ord := viewgraph.Ordering{"a": 1, "b": 0, "c": 2}

	doc, err := NewOrderingDocument(ord)
	if err != nil {
		t.Fatalf("NewOrderingDocument() error = %v", err)
	}

	want := []string{"b", "a", "c"}
	if len(doc.Sequence) != len(want) {
		t.Fatalf("Sequence = %v, want %v", doc.Sequence, want)
	}
	for i := range want {
		if doc.Sequence[i] != want[i] {
			t.Errorf("Sequence[%d] = %v, want %v", i, doc.Sequence[i], want[i])
		}
	}

	back, err := doc.Ordering()
	if err != nil {
		t.Fatalf("Ordering() error = %v", err)
	}
	if len(back) != len(ord) {
		t.Fatalf("round-trip size = %d, want %d", len(back), len(ord))
	}
	for id, p := range ord {
		if back[id] != p {
			t.Errorf("round-trip position[%s] = %d, want %d", id, back[id], p)
		}
	}
}

func TestNewOrderingDocumentInvalid(t *testing.T) {
	ord := viewgraph.Ordering{"a": 0, "b": 0}
	if _, err := NewOrderingDocument(ord); !errors.Is(err, viewgraph.ErrInvalidOrdering) {
		t.Errorf("NewOrderingDocument() error = %v, want ErrInvalidOrdering", err)
	}
}

func TestOrderingDocumentDuplicateView(t *testing.T) {
	doc := &OrderingDocument{Sequence: []string{"a", "b", "a"}}
	if _, err := doc.Ordering(); !errors.Is(err, viewgraph.ErrInvalidOrdering) {
		t.Errorf("Ordering() error = %v, want ErrInvalidOrdering", err)
	}
}

func TestNewOutlierReportSorted(t *testing.T) {
	w := viewgraph.OutlierWeights{
		{From: "b", To: "c"}: 1.0,
		{From: "a", To: "b"}: 2.5,
		{From: "a", To: "c"}: 1.0,
	}

	rep := NewOutlierReport(w)

	if rep.Total != 4.5 {
		t.Errorf("Total = %v, want 4.5", rep.Total)
	}
	want := []OutlierEdge{
		{From: "a", To: "b", Weight: 2.5},
		{From: "a", To: "c", Weight: 1.0},
		{From: "b", To: "c", Weight: 1.0},
	}
	if len(rep.Outliers) != len(want) {
		t.Fatalf("Outliers = %v, want %v", rep.Outliers, want)
	}
	for i := range want {
		if rep.Outliers[i] != want[i] {
			t.Errorf("Outliers[%d] = %v, want %v", i, rep.Outliers[i], want[i])
		}
	}
}

func TestWriteOutliersDeterministic(t *testing.T) {
	w := viewgraph.OutlierWeights{
		{From: "x", To: "y"}: 0.5,
		{From: "p", To: "q"}: 1.5,
	}

	var first bytes.Buffer
	if err := WriteOutliers(w, &first); err != nil {
		t.Fatalf("WriteOutliers() error = %v", err)
	}
	for range 10 {
		var buf bytes.Buffer
		if err := WriteOutliers(w, &buf); err != nil {
			t.Fatalf("WriteOutliers() error = %v", err)
		}
		if buf.String() != first.String() {
			t.Fatal("WriteOutliers output varies across runs")
		}
	}
}
