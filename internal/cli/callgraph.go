package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackflame/pkg/pipeline"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
	"github.com/matzehuels/stackflame/pkg/render/nodelink"
)

const (
	formatDOT = "dot"

	defaultMinShare = 0.005
	defaultPNGScale = 2.0
)

type callgraphFlags struct {
	output   string
	format   string
	minShare float64
	detailed bool
	colors   string
	reverse  bool
}

// callgraphCommand creates the callgraph command.
func (c *CLI) callgraphCommand() *cobra.Command {
	flags := callgraphFlags{
		format:   formatDOT,
		minShare: defaultMinShare,
		colors:   palette.Hot.String(),
	}

	cmd := &cobra.Command{
		Use:   "callgraph [files...]",
		Short: "Render collapsed stacks as a call graph",
		Long: `Callgraph folds the merged stacks by function name into a directed graph of
callers and callees. Edge widths follow the samples that flowed along them.

SVG, PDF and PNG output use Graphviz; PDF and PNG also need rsvg-convert.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCallgraph(cmd.Context(), args, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", flags.format, "output format: dot, svg, pdf, png")
	cmd.Flags().Float64Var(&flags.minShare, "min-share", flags.minShare, "drop functions below this fraction of all samples")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show self and total counts in node labels")
	cmd.Flags().StringVar(&flags.colors, "colors", flags.colors, "node color palette")
	cmd.Flags().BoolVar(&flags.reverse, "reverse", false, "merge stacks leaf first")

	return cmd
}

func (c *CLI) runCallgraph(ctx context.Context, files []string, flags *callgraphFlags) error {
	logger := loggerFromContext(ctx)

	p, err := palette.Parse(flags.colors)
	if err != nil {
		return err
	}
	if flags.format != formatDOT {
		if err := pipeline.ValidateFormat(flags.format); err != nil || flags.format == pipeline.FormatJSON {
			return fmt.Errorf("invalid format: %q (must be one of: dot, svg, pdf, png)", flags.format)
		}
	}

	prog := newProgress(logger)
	tree, err := c.mergeInputs(ctx, files, pipeline.Options{Reverse: flags.reverse})
	if err != nil {
		return err
	}

	resolver := palette.NewResolver(p, palette.WithHash())
	opts := nodelink.Options{
		MinShare: flags.minShare,
		Detailed: flags.detailed,
		Fill:     resolver.Color,
	}
	g := nodelink.Build(tree, opts)
	logger.Debug("built call graph", "funcs", len(g.Funcs), "calls", len(g.Calls))

	dot := nodelink.ToDOT(g, opts)
	var data []byte
	switch flags.format {
	case formatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case pipeline.FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case pipeline.FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, defaultPNGScale)
	}
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flags.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	prog.done("Rendered call graph with %d functions", len(g.Funcs))
	printFile(flags.output)
	return nil
}
