package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/frametree"
	"github.com/matzehuels/stackflame/pkg/render/nodelink"
)

func ExampleBuild() {
	b := frametree.NewBuilder()
	for _, line := range []string{"main;parse 3", "main;render;parse 1"} {
		rec, _ := collapsed.ParseLine(line)
		b.Add(rec)
	}
	tree, _ := b.Tree()

	g := nodelink.Build(tree, nodelink.Options{})
	for _, f := range g.Funcs {
		fmt.Printf("%s total=%g self=%g\n", f.Name, f.Total, f.Self)
	}
	for _, c := range g.Calls {
		fmt.Printf("%s -> %s %g\n", c.From, c.To, c.Weight)
	}
	// Output:
	// main total=4 self=0
	// parse total=4 self=4
	// render total=1 self=0
	// main -> parse 3
	// main -> render 1
	// render -> parse 1
}
