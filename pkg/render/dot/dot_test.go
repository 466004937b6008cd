package dot

import (
	"strings"
	"testing"

	"github.com/viewgraph/viewgraph/pkg/viewgraph"
)

func buildGraph(t *testing.T) *viewgraph.Graph {
	t.Helper()
	g := viewgraph.New()
	for _, v := range []viewgraph.ViewID{"a", "b", "c"} {
		if err := g.AddView(v); err != nil {
			t.Fatalf("AddView(%s): %v", v, err)
		}
	}
	for _, m := range []struct {
		from, to viewgraph.ViewID
		w        float64
	}{
		{"a", "b", 1},
		{"b", "c", 1},
		{"c", "a", 1},
	} {
		if err := g.AddMeasurement(m.from, m.to, m.w); err != nil {
			t.Fatalf("AddMeasurement: %v", err)
		}
	}
	return g
}

func TestToDOTRawGraph(t *testing.T) {
	g := buildGraph(t)

	out := ToDOT(g, nil, nil, Options{})

	if !strings.HasPrefix(out, "digraph viewgraph {") {
		t.Errorf("missing digraph header: %q", out[:40])
	}
	for _, want := range []string{`"a" [label="a"];`, `"b" [label="b"];`, `"c" [label="c"];`, `"a" -> "b";`, `"c" -> "a";`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "dashed") {
		t.Error("raw graph should not contain outlier styling")
	}
}

func TestToDOTSequencePlacement(t *testing.T) {
	g := buildGraph(t)
	ord := viewgraph.Ordering{"a": 2, "b": 0, "c": 1}

	out := ToDOT(g, ord, nil, Options{})

	// Node statements follow sequence order: b, c, a.
	ib := strings.Index(out, `"b" [`)
	ic := strings.Index(out, `"c" [`)
	ia := strings.Index(out, `"a" [`)
	if ib == -1 || ic == -1 || ia == -1 {
		t.Fatalf("missing node statements:\n%s", out)
	}
	if !(ib < ic && ic < ia) {
		t.Errorf("node order = b@%d c@%d a@%d, want sequence order", ib, ic, ia)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	g := buildGraph(t)
	ord := viewgraph.Ordering{"a": 0, "b": 1, "c": 2}

	out := ToDOT(g, ord, nil, Options{Detailed: true})

	if !strings.Contains(out, `label="a\npos: 0"`) {
		t.Errorf("detailed label missing position:\n%s", out)
	}
	// Edge weights appear as labels.
	if !strings.Contains(out, `label="1"`) {
		t.Errorf("detailed edge label missing:\n%s", out)
	}
}

func TestToDOTHighlightOutliers(t *testing.T) {
	g := buildGraph(t)
	ord := viewgraph.Ordering{"a": 0, "b": 1, "c": 2}
	outliers := viewgraph.OutlierWeights{
		{From: "c", To: "a"}: 1.0,
	}

	out := ToDOT(g, ord, outliers, Options{HighlightOutliers: true})

	if !strings.Contains(out, `"c" -> "a" [style=dashed, color=red, fontcolor=red, label="1"];`) {
		t.Errorf("outlier edge not highlighted:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "b";`) {
		t.Errorf("consistent edge should stay plain:\n%s", out)
	}
}

func TestToDOTQuotesSpecialIDs(t *testing.T) {
	g := viewgraph.New()
	if err := g.AddView(`cam "zero"`); err != nil {
		t.Fatalf("AddView: %v", err)
	}

	out := ToDOT(g, nil, nil, Options{})

	if !strings.Contains(out, `"cam \"zero\""`) {
		t.Errorf("special characters not escaped:\n%s", out)
	}
}
