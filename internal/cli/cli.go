// Package cli implements the movegraph command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/movegraph/pkg/buildinfo"
	"github.com/matzehuels/movegraph/pkg/cache"
	"github.com/matzehuels/movegraph/pkg/config"
	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/httputil"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "movegraph"

	// defaultBase names outputs when the moveset comes from the config file.
	defaultBase = "moveset"
)

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
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance writing logs to w.
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
		Use:   appName,
		Short: "Movegraph draws grappling move sets as interactive graphs",
		Long: `Movegraph turns a moveset file (moves with parent and child transitions)
into a styled node-link diagram. It renders static SVG/PNG/PDF files, serves an
interactive view over HTTP and explores the graph in the terminal.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.movesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Sources
// =============================================================================

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// openSource returns the moveset named on the command line, or the
// configured source when no argument is given. URLs are fetched over HTTP.
func (c *CLI) openSource(cfg *config.Config, args []string) (moves.Source, error) {
	if len(args) == 0 {
		return cfg.OpenSource(c.Logger)
	}
	arg := args[0]
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		client := httputil.NewClient(httputil.ClientOptions{
			Timeout:  cfg.Source.Timeout,
			Attempts: cfg.Source.Attempts,
			Logger:   c.Logger,
		})
		src, err := moves.NewHTTPSource(arg, client)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return moves.FileSource{Path: arg}, nil
}

// inputBase derives an output base path from the moveset argument.
func inputBase(args []string) string {
	if len(args) == 0 {
		return defaultBase
	}
	arg := args[0]
	if strings.Contains(arg, "://") {
		name := filepath.Base(strings.TrimRight(arg, "/"))
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return strings.TrimSuffix(arg, filepath.Ext(arg))
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the config.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	engine, err := pipeline.NewEngine(cfg.Layout.Engine, c.Logger)
	if err != nil {
		return nil, err
	}

	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		opened, err := cfg.OpenCache(ctx)
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "err", mgerrors.UserMessage(err))
		} else {
			store = opened
		}
	}
	runner := pipeline.NewRunner(store, cfg.Keyer(), engine, c.Logger)
	runner.LayoutTTL = cfg.Cache.LayoutTTL
	runner.ArtifactTTL = cfg.Cache.ArtifactTTL
	return runner, nil
}

// pipelineOptions applies the config to pipeline options.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Mode:   cfg.Layout.Mode,
		Style:  cfg.Style,
		Layout: cfg.Layout.Options,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
