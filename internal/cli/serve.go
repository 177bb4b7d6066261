package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/movegraph/pkg/config"
	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/observability/prom"
	"github.com/matzehuels/movegraph/pkg/pipeline"
	"github.com/matzehuels/movegraph/pkg/server"
	"github.com/matzehuels/movegraph/pkg/viewer"
)

// serveOpts holds the flags of the serve command. Zero values keep the
// configured setting.
type serveOpts struct {
	addr      string
	static    string
	mode      string
	engine    string
	watch     bool
	noMetrics bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [moveset]",
		Short: "Serve the interactive moves graph over HTTP",
		Long: `Serve the interactive moves graph over HTTP.

The moveset is loaded once at startup. With --watch, edits to a moveset file
reload the graph and notify connected browsers over the websocket at /ws.
A failed reload keeps the previous graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8050)")
	cmd.Flags().StringVar(&opts.static, "static", "", "directory served under /static")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "initial layout mode: concentric, dagre, cola")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: graphviz, native")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the moveset file changes")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not serve /metrics")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, so serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyEngineFlag(cfg, so.engine)
	applyServeFlags(cfg, so)

	src, err := c.openSource(cfg, args)
	if err != nil {
		return err
	}
	engine, err := pipeline.NewEngine(cfg.Layout.Engine, c.Logger)
	if err != nil {
		return err
	}

	var metrics *prom.Collector
	if !so.noMetrics {
		metrics = prom.NewCollector(appName)
		metrics.Register()
	}

	vopts := viewer.DefaultOptions()
	vopts.Style = cfg.Style
	vopts.Layout = cfg.Layout.Options
	vopts.Engine = engine
	vopts.Mode = cfg.Mode()

	srv := server.New(server.Options{
		Addr:      cfg.Server.Addr,
		StaticDir: cfg.Server.StaticDir,
		Source:    src,
		WatchPath: watchPath(cfg, src),
		Debounce:  cfg.Server.Debounce,
		RateLimit: cfg.Server.RateLimit,
		Burst:     cfg.Server.Burst,
		Viewer:    vopts,
		Metrics:   metrics,
		Logger:    c.Logger,
	})
	defer srv.Close()

	if err := srv.Initialize(ctx); err != nil {
		printWarning("Initial load failed: %s", mgerrors.UserMessage(err))
	} else {
		g := srv.Session().Graph()
		printSuccess("Loaded %s", src.Describe())
		printStats(g.NodeCount(), g.EdgeCount(), false)
	}
	printKeyValue("Listening", "http://"+cfg.Server.Addr)
	return srv.Run(ctx)
}

func applyServeFlags(cfg *config.Config, so serveOpts) {
	if so.addr != "" {
		cfg.Server.Addr = so.addr
	}
	if so.static != "" {
		cfg.Server.StaticDir = so.static
	}
	if so.mode != "" {
		cfg.Layout.Mode = so.mode
	}
	if so.watch {
		cfg.Server.Watch = true
	}
}

// watchPath returns the file to watch, or "" when watching is off or the
// source is not a local file.
func watchPath(cfg *config.Config, src moves.Source) string {
	if !cfg.Server.Watch {
		return ""
	}
	if fs, ok := src.(moves.FileSource); ok {
		return fs.Path
	}
	return ""
}
