package frametree

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/errors"
)

func build(t *testing.T, lines ...string) *Tree {
	t.Helper()
	b := NewBuilder()
	for _, l := range lines {
		rec, st := collapsed.ParseLine(l)
		if st != collapsed.OK {
			t.Fatalf("ParseLine(%q) = %v", l, st)
		}
		b.Add(rec)
	}
	tree, err := b.Tree()
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	return tree
}

func find(t *testing.T, tree *Tree, path string) *Node {
	t.Helper()
	n := tree.Root
	for _, name := range strings.Split(path, ";") {
		n = n.Child(name)
		if n == nil {
			t.Fatalf("no node at %q", path)
		}
	}
	return n
}

func TestBuildExample(t *testing.T) {
	tree := build(t, "a;b 1", "a;c 2")

	if tree.Total() != 3 {
		t.Errorf("root total = %v, want 3", tree.Total())
	}
	tests := []struct {
		path        string
		total, self float64
	}{
		{"a", 3, 0},
		{"a;b", 1, 1},
		{"a;c", 2, 2},
	}
	for _, tt := range tests {
		n := find(t, tree, tt.path)
		if n.Total != tt.total || n.Self != tt.self {
			t.Errorf("%s: total/self = %v/%v, want %v/%v", tt.path, n.Total, n.Self, tt.total, tt.self)
		}
	}
	if tree.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", tree.NodeCount())
	}
	if tree.MaxDepth() != 2 {
		t.Errorf("MaxDepth() = %d, want 2", tree.MaxDepth())
	}
	if tree.Differential {
		t.Error("Differential = true, want false")
	}
}

func TestInvariantHolds(t *testing.T) {
	tree := build(t,
		"main;init 5",
		"main;loop;work 40",
		"main;loop;work;alloc 7",
		"main;loop 3",
		"main 1",
		"other;x 2",
	)

	tree.Walk(func(n *Node) bool {
		var children float64
		for _, c := range n.Children() {
			children += c.Total
		}
		if n.Total != n.Self+children {
			t.Errorf("%v: total %v != self %v + children %v", n.Path(), n.Total, n.Self, children)
		}
		if n.Self < 0 {
			t.Errorf("%v: negative self %v", n.Path(), n.Self)
		}
		return true
	})
	if tree.Total() != 58 {
		t.Errorf("root total = %v, want 58", tree.Total())
	}
	if self := find(t, tree, "main;loop").Self; self != 3 {
		t.Errorf("main;loop self = %v, want 3", self)
	}
}

func TestOrderIndependent(t *testing.T) {
	lines := []string{
		"a;b;c 1", "a;b 2", "a;d 3", "e 4", "a;b;c 5", "e;f 6", "a 7", "a;d;g 8",
	}
	want := dump(build(t, lines...))

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10; i++ {
		shuffled := slices.Clone(lines)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := dump(build(t, shuffled...)); got != want {
			t.Fatalf("shuffle %d produced a different tree:\n%s\nwant:\n%s", i, got, want)
		}
	}
}

func dump(tree *Tree) string {
	var sb strings.Builder
	tree.Walk(func(n *Node) bool {
		fmt.Fprintf(&sb, "%s%s %g/%g\n", strings.Repeat(" ", n.Depth), n.Name, n.Total, n.Self)
		return true
	})
	return sb.String()
}

func TestSiblingsLexical(t *testing.T) {
	tree := build(t, "z 1", "a 1", "m 1", "b 1")
	var names []string
	for _, c := range tree.Root.Children() {
		names = append(names, c.Name)
	}
	if want := []string{"a", "b", "m", "z"}; !slices.Equal(names, want) {
		t.Errorf("children = %q, want %q", names, want)
	}
}

func TestDifferential(t *testing.T) {
	tree := build(t, "a;b 1 4", "a;c 5 2", "d 3")

	if !tree.Differential {
		t.Fatal("Differential = false, want true")
	}
	if tree.Root.Total != 9 || tree.Root.Total2 != 9 {
		t.Errorf("root totals = %v/%v, want 9/9", tree.Root.Total, tree.Root.Total2)
	}
	a := find(t, tree, "a")
	if a.Total != 6 || a.Total2 != 6 || a.Delta != 0 {
		t.Errorf("a = %v/%v delta %v, want 6/6 delta 0", a.Total, a.Total2, a.Delta)
	}
	b := find(t, tree, "a;b")
	if b.Delta != 3 || b.Self2 != 4 {
		t.Errorf("a;b delta/self2 = %v/%v, want 3/4", b.Delta, b.Self2)
	}
	c := find(t, tree, "a;c")
	if c.Delta != -3 {
		t.Errorf("a;c delta = %v, want -3", c.Delta)
	}
	if d := find(t, tree, "d"); d.Delta != 0 {
		t.Errorf("single-weight record delta = %v, want 0", d.Delta)
	}
	if tree.MaxDelta() != 3 {
		t.Errorf("MaxDelta() = %v, want 3", tree.MaxDelta())
	}
}

func TestSelfNeverNegative(t *testing.T) {
	// The parent's running total and the children's sum can disagree in
	// the last bit.
	tree := build(t, "a;b 0.1", "a;c 0.2", "a;d 0.3")
	tree.Walk(func(n *Node) bool {
		if n.Self < 0 {
			t.Errorf("%v: negative self %v", n.Path(), n.Self)
		}
		return true
	})
}

func TestReverse(t *testing.T) {
	b := NewBuilder(WithReverse())
	for _, l := range []string{"main;a;leaf 2", "main;b;leaf 3"} {
		rec, _ := collapsed.ParseLine(l)
		b.Add(rec)
	}
	tree, err := b.Tree()
	if err != nil {
		t.Fatal(err)
	}
	leaf := tree.Root.Child("leaf")
	if leaf == nil || leaf.Total != 5 {
		t.Fatalf("leaf = %+v, want total 5", leaf)
	}
	if got := find(t, tree, "leaf;a;main").Total; got != 2 {
		t.Errorf("leaf;a;main total = %v, want 2", got)
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	tree := build(t, "a;b;c 1", "d 1")
	var visited []string
	tree.Walk(func(n *Node) bool {
		visited = append(visited, n.Name)
		return n.Name != "a"
	})
	if want := []string{RootName, "a", "d"}; !slices.Equal(visited, want) {
		t.Errorf("visited = %q, want %q", visited, want)
	}
}

func TestPath(t *testing.T) {
	tree := build(t, "a;b;c 1")
	if got := find(t, tree, "a;b;c").Path(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Path() = %q", got)
	}
	if got := tree.Root.Path(); len(got) != 0 {
		t.Errorf("root Path() = %q, want empty", got)
	}
}

func TestNoRecords(t *testing.T) {
	_, err := NewBuilder().Tree()
	if !errors.Is(err, errors.ErrCodeNoStacks) {
		t.Fatalf("Tree() error = %v, want %s", err, errors.ErrCodeNoStacks)
	}
	if errors.UserMessage(err) != "No stack counts found" {
		t.Errorf("message = %q", errors.UserMessage(err))
	}
}

func TestBuildStreams(t *testing.T) {
	var stats collapsed.Stats
	tree, err := Build(context.Background(), &stats, []io.Reader{
		strings.NewReader("a;b 1\nbad line\n"),
		strings.NewReader("\na;c 2\n"),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.Total() != 3 || tree.Records != 2 {
		t.Errorf("Total = %v, Records = %d", tree.Total(), tree.Records)
	}
	if stats.Accepted != 2 || stats.Ignored != 1 || stats.Lines != 4 {
		t.Errorf("stats = %+v", stats)
	}

	single, err := Build(context.Background(), nil, []io.Reader{strings.NewReader("a;c 2\na;b 1\n")})
	if err != nil {
		t.Fatal(err)
	}
	if dump(single) != dump(tree) {
		t.Errorf("multi-stream tree differs from single stream:\n%s\nvs\n%s", dump(tree), dump(single))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, iofs.ErrPermission }

func TestBuildStreamsReadError(t *testing.T) {
	_, err := Build(context.Background(), nil, []io.Reader{strings.NewReader("a 1\n"), failingReader{}})
	if !errors.Is(err, errors.ErrCodeInput) {
		t.Fatalf("error = %v, want INPUT", err)
	}
	if !strings.Contains(err.Error(), "read input 1") {
		t.Errorf("error should name the stream: %v", err)
	}
}

func TestBuildStreamsEmpty(t *testing.T) {
	var stats collapsed.Stats
	_, err := Build(context.Background(), &stats, []io.Reader{strings.NewReader("junk\n\n")})
	if !errors.Is(err, errors.ErrCodeNoStacks) {
		t.Fatalf("error = %v, want NO_STACKS", err)
	}
	if stats.Ignored != 1 {
		t.Errorf("Ignored = %d, want 1", stats.Ignored)
	}
}
