package layout

import (
	"testing"

	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/frametree"
)

func tree(t *testing.T, lines ...string) *frametree.Tree {
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

func frameByName(t *testing.T, l Layout, name string) Frame {
	t.Helper()
	for _, f := range l.Frames {
		if f.Node.Name == name {
			return f
		}
	}
	t.Fatalf("no frame named %q", name)
	return Frame{}
}

// 300 usable pixels over 3 samples: 100px per sample.
var testOpts = Options{ImageWidth: 320, SidePad: 10, FrameHeight: 16}

func TestBuildHorizontal(t *testing.T) {
	l := Build(tree(t, "a;b 1", "a;c 2"), testOpts)

	if len(l.Frames) != 4 {
		t.Fatalf("len(Frames) = %d, want 4", len(l.Frames))
	}
	tests := []struct {
		name        string
		start, end  float64
		left, right float64
		depth       int
	}{
		{frametree.RootName, 0, 3, 10, 310, 0},
		{"a", 0, 3, 10, 310, 1},
		{"b", 0, 1, 10, 110, 2},
		{"c", 1, 3, 110, 310, 2},
	}
	for _, tt := range tests {
		f := frameByName(t, l, tt.name)
		if f.Start != tt.start || f.End != tt.end {
			t.Errorf("%s: span = [%v, %v), want [%v, %v)", tt.name, f.Start, f.End, tt.start, tt.end)
		}
		if f.Left != tt.left || f.Right != tt.right {
			t.Errorf("%s: pixels = [%v, %v], want [%v, %v]", tt.name, f.Left, f.Right, tt.left, tt.right)
		}
		if f.Depth != tt.depth {
			t.Errorf("%s: depth = %d, want %d", tt.name, f.Depth, tt.depth)
		}
	}
	if l.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", l.MaxDepth)
	}
	if l.FrameHeight != 48 {
		t.Errorf("FrameHeight = %v, want 48", l.FrameHeight)
	}
}

func TestBuildSelfGap(t *testing.T) {
	// a has 2 self samples, its only child b has 1: b takes the left third.
	l := Build(tree(t, "a 2", "a;b 1"), testOpts)
	a, b := frameByName(t, l, "a"), frameByName(t, l, "b")
	if b.Left != a.Left {
		t.Errorf("child starts at %v, want parent start %v", b.Left, a.Left)
	}
	if b.Width() >= a.Width() {
		t.Errorf("child width %v should be less than parent width %v", b.Width(), a.Width())
	}
	if b.Right != 110 {
		t.Errorf("b.Right = %v, want 110", b.Right)
	}
}

func TestBuildFactor(t *testing.T) {
	opts := testOpts
	opts.Factor = 2.5
	l := Build(tree(t, "a;b 1", "a;c 2"), opts)

	if l.Total != 7.5 {
		t.Errorf("Total = %v, want 7.5", l.Total)
	}
	c := frameByName(t, l, "c")
	if c.Start != 2.5 || c.End != 7.5 {
		t.Errorf("c span = [%v, %v), want [2.5, 7.5)", c.Start, c.End)
	}
	// Pixel geometry does not depend on the factor.
	if c.Left != 110 || c.Right != 310 {
		t.Errorf("c pixels = [%v, %v], want [110, 310]", c.Left, c.Right)
	}
}

func TestBuildDirection(t *testing.T) {
	tr := tree(t, "a;b 1", "a;c 2")

	normal := Build(tr, testOpts)
	opts := testOpts
	opts.Direction = Inverted
	inverted := Build(tr, opts)

	tests := []struct {
		name                   string
		normalTop, normalBot   float64
		invertTop, invertedBot float64
	}{
		{frametree.RootName, 33, 48, 0, 15},
		{"a", 17, 32, 16, 31},
		{"b", 1, 16, 32, 47},
	}
	for _, tt := range tests {
		n := frameByName(t, normal, tt.name)
		if n.Top != tt.normalTop || n.Bottom != tt.normalBot {
			t.Errorf("normal %s: rows = [%v, %v], want [%v, %v]", tt.name, n.Top, n.Bottom, tt.normalTop, tt.normalBot)
		}
		i := frameByName(t, inverted, tt.name)
		if i.Top != tt.invertTop || i.Bottom != tt.invertedBot {
			t.Errorf("inverted %s: rows = [%v, %v], want [%v, %v]", tt.name, i.Top, i.Bottom, tt.invertTop, tt.invertedBot)
		}
		if n.Left != i.Left || n.Right != i.Right {
			t.Errorf("%s: horizontal geometry differs between directions", tt.name)
		}
	}
}

func TestBuildPadding(t *testing.T) {
	opts := testOpts
	opts.TopPad = 36
	opts.BottomPad = 34
	l := Build(tree(t, "a 1"), opts)

	if l.FrameHeight != 2*16+36+34 {
		t.Errorf("FrameHeight = %v, want %v", l.FrameHeight, 2*16+36+34)
	}
	root := frameByName(t, l, frametree.RootName)
	if root.Bottom != l.FrameHeight-34 {
		t.Errorf("root bottom = %v, want %v", root.Bottom, l.FrameHeight-34)
	}
}

func TestBuildPrunesNarrowFrames(t *testing.T) {
	// 100 usable pixels over 10000 samples: b is 0.02px wide.
	tr := tree(t, "a;b 1", "a;b;x 1", "a;c 9998")
	l := Build(tr, Options{ImageWidth: 120, SidePad: 10})

	for _, f := range l.Frames {
		if f.Node.Name == "b" || f.Node.Name == "x" {
			t.Errorf("frame %q should have been pruned", f.Node.Name)
		}
	}
	if l.Pruned != 2 {
		t.Errorf("Pruned = %d, want 2", l.Pruned)
	}
	a := frameByName(t, l, "a")
	if a.Node.Total != 10000 {
		t.Errorf("a total = %v, want 10000 (pruning must not alter totals)", a.Node.Total)
	}
	c := frameByName(t, l, "c")
	if c.Start != 2 {
		t.Errorf("c starts at %v, want 2 (pruned sibling keeps its space)", c.Start)
	}
}

func TestBuildMinWidthThreshold(t *testing.T) {
	tr := tree(t, "a;b 1", "a;c 9")
	// b is 10px wide.
	l := Build(tr, Options{ImageWidth: 120, SidePad: 10, MinWidth: 10})
	frameByName(t, l, "b")

	l = Build(tr, Options{ImageWidth: 120, SidePad: 10, MinWidth: 10.5})
	for _, f := range l.Frames {
		if f.Node.Name == "b" {
			t.Error("b should be pruned at minwidth 10.5")
		}
	}
}

func TestBuildKeepsRootWithZeroTotal(t *testing.T) {
	l := Build(tree(t, "a 0"), Options{})
	if len(l.Frames) != 1 || !l.Frames[0].Node.IsRoot() {
		t.Fatalf("Frames = %v, want only the root", l.Frames)
	}
	if l.Frames[0].Width() != DefaultImageWidth-2*DefaultSidePad {
		t.Errorf("root width = %v", l.Frames[0].Width())
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Normal, false},
		{"normal", Normal, false},
		{"Inverted", Inverted, false},
		{"icicle", Inverted, false},
		{"sideways", Normal, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
