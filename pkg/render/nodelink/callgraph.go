package nodelink

import (
	"cmp"
	"slices"

	"github.com/matzehuels/stackflame/pkg/frametree"
)

// Func is one function in the call graph.
type Func struct {
	Name string

	// Total counts samples with the function anywhere on the stack;
	// recursive frames are counted once.
	Total float64
	// Self counts samples with the function at the top of the stack.
	Self float64
}

// Call is a caller/callee edge weighted by the samples that flowed along it.
type Call struct {
	From, To string
	Weight   float64
}

// Graph is a call graph folded from a stack tree.
type Graph struct {
	Funcs []Func // sorted by descending Total, then name
	Calls []Call // sorted by From, then To
	Total float64
}

// Func returns the function named name.
func (g *Graph) Func(name string) (Func, bool) {
	for _, f := range g.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return Func{}, false
}

// Build folds t into a call graph. Functions whose total share of samples
// is below opts.MinShare are dropped together with their edges. The
// synthetic root is never part of the graph.
func Build(t *frametree.Tree, opts Options) *Graph {
	funcs := make(map[string]*Func)
	calls := make(map[[2]string]float64)
	onStack := make(map[string]int)

	var visit func(n *frametree.Node)
	visit = func(n *frametree.Node) {
		f, ok := funcs[n.Name]
		if !ok {
			f = &Func{Name: n.Name}
			funcs[n.Name] = f
		}
		if onStack[n.Name] == 0 {
			f.Total += n.Total
		}
		f.Self += n.Self

		onStack[n.Name]++
		for _, c := range n.Children() {
			calls[[2]string{n.Name, c.Name}] += c.Total
			visit(c)
		}
		onStack[n.Name]--
	}
	for _, c := range t.Root.Children() {
		visit(c)
	}

	g := &Graph{Total: t.Total()}
	keep := make(map[string]bool, len(funcs))
	for name, f := range funcs {
		if g.Total > 0 && f.Total/g.Total < opts.MinShare {
			continue
		}
		keep[name] = true
		g.Funcs = append(g.Funcs, *f)
	}
	slices.SortFunc(g.Funcs, func(a, b Func) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	for k, w := range calls {
		if keep[k[0]] && keep[k[1]] {
			g.Calls = append(g.Calls, Call{From: k[0], To: k[1], Weight: w})
		}
	}
	slices.SortFunc(g.Calls, func(a, b Call) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	return g
}
