package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackflame/pkg/pipeline"
	"github.com/matzehuels/stackflame/pkg/render/flame/frameattrs"
	"github.com/matzehuels/stackflame/pkg/render/flame/layout"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
	"github.com/matzehuels/stackflame/pkg/render/flame/sink"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output      string
	format      string
	title       string
	subtitle    string
	notes       string
	colors      string
	bgcolors    string
	hash        bool
	seed        uint64
	inverted    bool
	reverse     bool
	negate      bool
	factor      float64
	minWidth    float64
	width       float64
	height      float64
	fontType    string
	fontSize    float64
	fontWidth   float64
	countName   string
	nameType    string
	searchColor string
	prettyXML   bool
	noJS        bool
	paletteMap  string
	nameAttr    string
	cache       bool
}

func defaultRenderFlags() renderFlags {
	return renderFlags{
		title:       sink.DefaultTitle,
		colors:      palette.Hot.String(),
		seed:        palette.DefaultSeed,
		factor:      1,
		minWidth:    layout.DefaultMinWidth,
		width:       layout.DefaultImageWidth,
		height:      layout.DefaultFrameHeight,
		fontType:    sink.DefaultFontType,
		fontSize:    sink.DefaultFontSize,
		fontWidth:   sink.DefaultFontWidth,
		countName:   sink.DefaultCountName,
		nameType:    sink.DefaultNameType,
		searchColor: sink.DefaultSearchColor,
	}
}

// register adds the flags shared by every command that renders a flame graph.
func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", f.title, "title text")
	fs.StringVar(&f.subtitle, "subtitle", "", "second level title (optional)")
	fs.StringVar(&f.notes, "notes", "", "notes embedded in the SVG <desc> element")
	fs.StringVar(&f.colors, "colors", f.colors, "color palette: "+strings.Join(palette.Names(), ", "))
	fs.StringVar(&f.bgcolors, "bgcolors", "", "background gradient: yellow, blue, green, grey or a #rrggbb color")
	fs.BoolVar(&f.hash, "hash", false, "color by function name hash")
	fs.Uint64Var(&f.seed, "seed", f.seed, "seed for generated colors when --hash is off")
	fs.BoolVar(&f.inverted, "inverted", false, "icicle graph: grow frames downwards")
	fs.BoolVar(&f.reverse, "reverse", false, "merge stacks leaf first")
	fs.BoolVar(&f.negate, "negate", false, "swap red and blue in differential graphs")
	fs.Float64Var(&f.factor, "factor", f.factor, "multiply sample counts by this factor")
	fs.Float64Var(&f.minWidth, "minwidth", f.minWidth, "omit frames narrower than this many pixels")
	fs.Float64Var(&f.width, "width", f.width, "image width in pixels")
	fs.Float64Var(&f.height, "height", f.height, "frame height in pixels")
	fs.StringVar(&f.fontType, "fonttype", f.fontType, "font family")
	fs.Float64Var(&f.fontSize, "fontsize", f.fontSize, "font size")
	fs.Float64Var(&f.fontWidth, "fontwidth", f.fontWidth, "average character width as a fraction of the font size")
	fs.StringVar(&f.countName, "countname", f.countName, "count type label")
	fs.StringVar(&f.nameType, "nametype", f.nameType, "name type label")
	fs.StringVar(&f.searchColor, "searchcolor", f.searchColor, "color of search matches")
	fs.BoolVar(&f.prettyXML, "pretty-xml", false, "indent the SVG output")
	fs.BoolVar(&f.noJS, "no-javascript", false, "omit the interaction script")
	fs.StringVar(&f.paletteMap, "palette-map", "", "file of pinned colors, read and updated by every render")
	fs.StringVar(&f.nameAttr, "nameattr", "", "file of per-function tooltip and attribute overrides")
}

// options converts the flags to pipeline options. Caller-owned maps are
// loaded separately by loadMaps.
func (f *renderFlags) options() (pipeline.Options, error) {
	p, err := palette.Parse(f.colors)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Title:               f.title,
		Subtitle:            f.subtitle,
		Notes:               f.notes,
		Factor:              f.factor,
		Palette:             p,
		Hash:                f.hash,
		Seed:                f.seed,
		NegateDifferentials: f.negate,
		PrettyXML:           f.prettyXML,
		NoJavaScript:        f.noJS,
		MinWidth:            f.minWidth,
		ImageWidth:          f.width,
		FrameHeight:         f.height,
		FontType:            f.fontType,
		FontSize:            f.fontSize,
		FontWidth:           f.fontWidth,
		CountName:           f.countName,
		NameType:            f.nameType,
		SearchColor:         f.searchColor,
		Reverse:             f.reverse,
		Format:              formatFor(f.output, f.format),
	}
	if f.inverted {
		opts.Direction = layout.Inverted
	}
	if f.bgcolors != "" {
		if opts.BackgroundColors, err = palette.ParseBackground(f.bgcolors); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}

// loadMaps loads the palette map and frame attribute files named by the
// flags into opts.
func (f *renderFlags) loadMaps(opts *pipeline.Options) error {
	if f.paletteMap != "" {
		m, err := palette.LoadMapFile(f.paletteMap)
		if err != nil {
			return err
		}
		opts.PaletteMap = m
	}
	if f.nameAttr != "" {
		m, err := frameattrs.LoadFile(f.nameAttr)
		if err != nil {
			return err
		}
		opts.FuncFrameAttrs = m
	}
	return nil
}

// formatFor picks the output format: an explicit --format wins, then the
// extension of --output, then svg.
func formatFor(output, format string) string {
	if format != "" {
		return format
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return ext
	}
	return pipeline.FormatSVG
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	flags := defaultRenderFlags()

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render collapsed stacks as a flame graph",
		Long: `Render reads collapsed stack lines ("frame;frame;frame count") from the given
files, or from stdin when none are given, merges them and writes a flame graph.

Lines may carry two counts ("a;b 10 14"), in which case a differential flame
graph is drawn: width follows the first count, color the change.`,
		Example: `  stackflame render out.folded > cpu.svg
  stackflame render --title CPU --colors java -o cpu.svg host1.folded host2.folded
  perf script | stackcollapse-perf.pl | stackflame render --inverted -o icicle.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.config.apply(&flags, cmd.Flags().Changed)
			return c.runRender(cmd.Context(), args, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: svg, json, png, pdf (default from --output, else svg)")
	cmd.Flags().BoolVar(&flags.cache, "cache", false, "reuse rendered artifacts from the local cache")

	return cmd
}

// runRender renders the inputs and writes the result to --output or stdout.
// Nothing is written when the render fails.
func (c *CLI) runRender(ctx context.Context, files []string, flags *renderFlags) error {
	logger := loggerFromContext(ctx)

	opts, err := flags.options()
	if err != nil {
		return err
	}
	if err := flags.loadMaps(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(flags.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ins, closeAll, err := openInputs(files)
	if err != nil {
		return err
	}
	defer closeAll()
	if len(files) == 0 {
		logger.Debug("reading stacks from stdin")
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts, ins)
	if err != nil {
		return err
	}
	logger.Debug("render stats", "stats", res.Stats.String())

	if opts.PaletteMap != nil {
		if err := opts.PaletteMap.SaveFile(flags.paletteMap); err != nil {
			return fmt.Errorf("save palette map: %w", err)
		}
		logger.Debug("saved palette map", "path", flags.paletteMap, "names", opts.PaletteMap.Len())
	}

	if flags.output == "" {
		_, err := os.Stdout.Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(flags.output, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	prog.done("Rendered %s", flags.output)
	printFile(flags.output)
	printStats(res.Stats.Frames, res.Stats.Pruned, res.CacheHit)
	return nil
}
