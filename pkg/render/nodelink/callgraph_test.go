package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/frametree"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
)

func buildTree(t *testing.T, lines ...string) *frametree.Tree {
	t.Helper()
	b := frametree.NewBuilder()
	for _, l := range lines {
		rec, st := collapsed.ParseLine(l)
		if st != collapsed.OK {
			t.Fatalf("ParseLine(%q) = %v", l, st)
		}
		b.Add(rec)
	}
	tr, err := b.Tree()
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

var recursive = []string{"main;a;b 2", "main;b 1", "main;main;a 1"}

func TestBuild(t *testing.T) {
	g := Build(buildTree(t, recursive...), Options{})

	if g.Total != 4 {
		t.Errorf("Total = %v, want 4", g.Total)
	}
	want := []Func{
		{Name: "main", Total: 4, Self: 0},
		{Name: "a", Total: 3, Self: 1},
		{Name: "b", Total: 3, Self: 3},
	}
	if len(g.Funcs) != len(want) {
		t.Fatalf("Funcs = %+v, want %+v", g.Funcs, want)
	}
	for i := range want {
		if g.Funcs[i] != want[i] {
			t.Errorf("Funcs[%d] = %+v, want %+v", i, g.Funcs[i], want[i])
		}
	}

	wantCalls := []Call{
		{From: "a", To: "b", Weight: 2},
		{From: "main", To: "a", Weight: 3},
		{From: "main", To: "b", Weight: 1},
		{From: "main", To: "main", Weight: 1},
	}
	if len(g.Calls) != len(wantCalls) {
		t.Fatalf("Calls = %+v, want %+v", g.Calls, wantCalls)
	}
	for i := range wantCalls {
		if g.Calls[i] != wantCalls[i] {
			t.Errorf("Calls[%d] = %+v, want %+v", i, g.Calls[i], wantCalls[i])
		}
	}
}

func TestBuildMinShare(t *testing.T) {
	g := Build(buildTree(t, recursive...), Options{MinShare: 0.8})
	if len(g.Funcs) != 1 || g.Funcs[0].Name != "main" {
		t.Fatalf("Funcs = %+v, want only main", g.Funcs)
	}
	if len(g.Calls) != 1 || g.Calls[0].To != "main" {
		t.Errorf("Calls = %+v, want only main -> main", g.Calls)
	}
	if _, ok := g.Func("a"); ok {
		t.Error("a should have been dropped")
	}
}

func TestToDOT_Basic(t *testing.T) {
	g := Build(buildTree(t, recursive...), Options{})
	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"main" [label="main\n100.00%"]`) {
		t.Error("ToDOT() output missing node main")
	}
	if !strings.Contains(dot, `"main" -> "a" [penwidth=4.00, label="75.00%"]`) {
		t.Error("ToDOT() output missing weighted edge")
	}
	if strings.Contains(dot, `"all"`) {
		t.Error("synthetic root should not be a node")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := Build(buildTree(t, recursive...), Options{})
	dot := ToDOT(g, Options{Detailed: true})

	if !strings.Contains(dot, `self: 3 (75.00%)\ntotal: 3 (75.00%)`) {
		t.Error("ToDOT() detailed output missing sample counts")
	}
}

func TestToDOT_Fill(t *testing.T) {
	g := Build(buildTree(t, "main 1"), Options{})
	dot := ToDOT(g, Options{Fill: func(string) palette.Color { return palette.Color{R: 255, G: 128} }})
	if !strings.Contains(dot, `fillcolor="#ff8000"`) {
		t.Error("ToDOT() output missing node fill")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
