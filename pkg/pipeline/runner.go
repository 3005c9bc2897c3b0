package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackflame/pkg/cache"
	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/errors"
	"github.com/matzehuels/stackflame/pkg/frametree"
	"github.com/matzehuels/stackflame/pkg/observability"
	"github.com/matzehuels/stackflame/pkg/render/flame/layout"
)

// Diagnostics logged once per run.
const (
	msgNoStacks   = "No stack counts found"
	msgFractional = "The input data has fractional sample counts; tooltips round them to whole " +
		"samples. To keep the extra precision, scale the sample data up and use --factor to scale it back down."
)

// Runner executes renders with an optional artifact cache.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store render results. Multiple goroutines can safely use the same Runner
// as long as each render has its own palette map.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, the default charmbracelet logger is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// FromReader renders a single input stream to w.
func FromReader(ctx context.Context, opts Options, r io.Reader, w io.Writer) error {
	return NewRunner(nil, nil, nil).FromReader(ctx, opts, r, w)
}

// FromReaders renders several input streams, merged as one input, to w.
func FromReaders(ctx context.Context, opts Options, rs []io.Reader, w io.Writer) error {
	return NewRunner(nil, nil, nil).FromReaders(ctx, opts, rs, w)
}

// FromReader renders a single input stream to w.
func (r *Runner) FromReader(ctx context.Context, opts Options, in io.Reader, w io.Writer) error {
	return r.FromReaders(ctx, opts, []io.Reader{in}, w)
}

// FromReaders renders several input streams, merged as one input, to w.
// Nothing is written unless the render succeeds.
func (r *Runner) FromReaders(ctx context.Context, opts Options, ins []io.Reader, w io.Writer) error {
	res, err := r.Execute(ctx, opts, ins)
	if err != nil {
		return err
	}
	if _, err := w.Write(res.Artifact); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// FromFiles renders the named files, merged as one input, to w. Every file
// is opened before any is read, so a missing file fails the render before
// any input is merged.
func (r *Runner) FromFiles(ctx context.Context, opts Options, paths []string, w io.Writer) error {
	ins, closeAll, err := OpenFiles(paths)
	if err != nil {
		return err
	}
	defer closeAll()
	return r.FromReaders(ctx, opts, ins, w)
}

// OpenFiles opens every named file for reading. On failure the files
// already opened are closed; on success the returned function closes all
// of them.
func OpenFiles(paths []string) ([]io.Reader, func(), error) {
	opened := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	ins := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, errors.Wrap(errors.ErrCodeInput, err, "open %s", p)
		}
		opened = append(opened, f)
		ins = append(ins, f)
	}
	return ins, closeAll, nil
}

// Execute runs the complete pipeline and returns the artifact with
// statistics. When the runner has a cache and the render does not depend
// on caller-owned maps, artifacts are looked up and stored by input and
// options hash.
func (r *Runner) Execute(ctx context.Context, opts Options, ins []io.Reader) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if !r.cacheable(&opts) {
		return r.execute(ctx, &opts, ins)
	}

	buffered, key, err := r.artifactKey(&opts, ins)
	if err != nil {
		return nil, err
	}
	if res, ok := r.lookup(ctx, key); ok {
		r.diagnose(res.Input)
		return res, nil
	}

	res, err := r.execute(ctx, &opts, buffered)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, res)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, opts *Options, ins []io.Reader) (*Result, error) {
	res := &Result{}

	parseStart := time.Now()
	tree, stats, err := r.BuildTree(ctx, *opts, ins)
	res.Input = stats
	if err != nil {
		return nil, err
	}
	res.Tree = tree
	res.Stats.ParseTime = time.Since(parseStart)
	r.Logger.Debug("merged stacks",
		"records", tree.Records,
		"nodes", tree.NodeCount(),
		"depth", tree.MaxDepth(),
		"differential", tree.Differential,
		"duration", res.Stats.ParseTime)

	hooks := observability.Pipeline()
	layoutStart := time.Now()
	hooks.OnStageStart(ctx, observability.StageLayout)
	res.Layout = layout.Build(tree, opts.layoutOptions())
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.Stats.Frames = len(res.Layout.Frames)
	res.Stats.Pruned = res.Layout.Pruned
	hooks.OnStageComplete(ctx, observability.StageLayout, res.Stats.Frames, res.Stats.LayoutTime, nil)
	r.Logger.Debug("computed layout", "layout", res.Layout, "duration", res.Stats.LayoutTime)

	renderStart := time.Now()
	hooks.OnStageStart(ctx, observability.StageRender)
	res.Artifact, err = renderArtifact(ctx, tree, res.Layout, opts)
	res.Stats.RenderTime = time.Since(renderStart)
	hooks.OnStageComplete(ctx, observability.StageRender, len(res.Artifact), res.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r.Logger.Debug("rendered output",
		"format", opts.Format,
		"bytes", len(res.Artifact),
		"duration", res.Stats.RenderTime)
	return res, nil
}

// BuildTree reads every stream and merges the accepted records. Run-level
// diagnostics are logged once, after the last stream has been read.
func (r *Runner) BuildTree(ctx context.Context, opts Options, ins []io.Reader) (*frametree.Tree, collapsed.Stats, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnStageStart(ctx, observability.StageParse)

	var stats collapsed.Stats
	tree, err := frametree.Build(ctx, &stats, ins, opts.treeOptions()...)
	hooks.OnStageComplete(ctx, observability.StageParse, stats.Accepted, time.Since(start), err)
	if errors.Is(err, errors.ErrCodeInput) {
		return nil, stats, err
	}

	r.diagnose(stats)
	if errors.Is(err, errors.ErrCodeNoStacks) {
		r.Logger.Error(msgNoStacks)
		return nil, stats, err
	}
	if err != nil {
		return nil, stats, err
	}
	return tree, stats, nil
}

// diagnose logs the aggregated per-line warnings of a run.
func (r *Runner) diagnose(stats collapsed.Stats) {
	if stats.Ignored > 0 {
		r.Logger.Warn(fmt.Sprintf("Ignored %d lines with invalid format", stats.Ignored))
	}
	if stats.Fractional > 0 {
		r.Logger.Warn(msgFractional)
	}
}

// cacheable reports whether a render may be served from the cache. Renders
// that read or extend caller-owned maps always run.
func (r *Runner) cacheable(opts *Options) bool {
	if _, ok := r.Cache.(cache.NullCache); ok {
		return false
	}
	return opts.PaletteMap == nil && opts.FuncFrameAttrs == nil
}

// artifactKey buffers the input streams and derives the cache key. The
// returned readers replay the buffered input.
func (r *Runner) artifactKey(opts *Options, ins []io.Reader) ([]io.Reader, string, error) {
	var all bytes.Buffer
	buffered := make([]io.Reader, len(ins))
	for i, in := range ins {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInput, err, "read input %d", i)
		}
		buffered[i] = bytes.NewReader(data)
		fmt.Fprintf(&all, "%d:", len(data))
		all.Write(data)
	}

	optsHash, err := cache.HashJSON(opts)
	if err != nil {
		return nil, "", err
	}
	key := r.Keyer.ArtifactKey(cache.Hash(all.Bytes()), cache.ArtifactKeyOpts{
		Format:  opts.Format,
		Options: optsHash,
	})
	return buffered, key, nil
}

type cachedArtifact struct {
	Artifact []byte          `json:"artifact"`
	Input    collapsed.Stats `json:"input"`
	Stats    Stats           `json:"stats"`
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache lookup failed", "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var c cachedArtifact
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false
	}
	r.Logger.Debug("artifact served from cache", "bytes", len(c.Artifact))
	return &Result{Artifact: c.Artifact, Input: c.Input, Stats: c.Stats, CacheHit: true}, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(cachedArtifact{Artifact: res.Artifact, Input: res.Input, Stats: res.Stats})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Debug("cache store failed", "err", err)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
