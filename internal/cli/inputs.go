package cli

import (
	"context"
	"io"
	"os"

	"github.com/matzehuels/stackflame/pkg/frametree"
	"github.com/matzehuels/stackflame/pkg/pipeline"
)

// openInputs opens every file, or returns stdin when files is empty. The
// returned function closes whatever was opened.
func openInputs(files []string) ([]io.Reader, func(), error) {
	if len(files) == 0 {
		return []io.Reader{os.Stdin}, func() {}, nil
	}
	return pipeline.OpenFiles(files)
}

// mergeInputs reads and merges the stacks of files without rendering them.
func (c *CLI) mergeInputs(ctx context.Context, files []string, opts pipeline.Options) (*frametree.Tree, error) {
	ins, closeAll, err := openInputs(files)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	tree, _, err := runner.BuildTree(ctx, opts, ins)
	return tree, err
}
