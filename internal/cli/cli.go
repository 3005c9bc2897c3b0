// Package cli implements the stackflame command-line interface.
//
// The CLI is built on cobra. Every command shares one charmbracelet logger,
// which also rides in the command context, and one optional TOML config
// file whose values act as flag defaults.
//
// # Commands
//
//   - render: collapsed stacks to SVG, JSON, PNG or PDF
//   - palette: inspect or clear a palette map file
//   - callgraph: the merged stacks as a Graphviz call graph
//   - browse: interactive list of the hottest frames
//   - serve: HTTP render server
//   - cache: manage the artifact cache
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackflame/pkg/buildinfo"
	"github.com/matzehuels/stackflame/pkg/cache"
	"github.com/matzehuels/stackflame/pkg/observability"
	"github.com/matzehuels/stackflame/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stackflame"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	config     renderConfig
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackflame renders collapsed stacks as flame graphs",
		Long:         `Stackflame merges collapsed stack samples ("a;b;c 42") from any number of inputs and renders them as interactive SVG flame graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stackflame/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.callgraphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	for _, cmd := range root.Commands() {
		completeFlagValues(cmd)
	}

	return root
}

// setup runs before every command: it applies --verbose, loads the config
// file and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	cfg, path, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.config = cfg

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(useCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(useCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, versionKeyer(), c.Logger), nil
}

// versionKeyer scopes artifact keys to the running binary so an upgrade
// never serves artifacts rendered by an older version.
func versionKeyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, buildinfo.Version+":")
}

func newCache(useCache bool) (cache.Cache, error) {
	if !useCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackflame/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/stackflame/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
