package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/movegraph/pkg/config"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file (single format) or base path (several)
	formats  string  // comma-separated output formats
	mode     string  // layout mode, empty for the configured default
	engine   string  // engine family, empty for the configured default
	zoom     float64 // zoom level the styles are computed at
	scale    float64 // PNG scale factor
	detailed bool    // type and area under each label
	noCache  bool    // skip the cache entirely
	refresh  bool    // recompute and overwrite cached entries
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{zoom: pipeline.DefaultZoom, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [moveset]",
		Short: "Render a moveset to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a moveset to static files.

The moveset is a JSON or YAML file (or an http(s) URL). Without an argument the
source from the config file is used. The layout runs once for the chosen mode
and every requested format is rendered from the same positions.

Layouts and artifacts are cached; use --refresh to recompute.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "layout mode: concentric, dagre, cola")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: "+strings.Join(pipeline.Engines, ", "))
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "zoom level for label and edge sizing")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show move type and area under labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, args []string, ro renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyEngineFlag(cfg, ro.engine)

	opts := pipelineOptions(cfg)
	if ro.mode != "" {
		opts.Mode = ro.mode
	}
	opts.Formats = parseFormats(ro.formats)
	opts.Zoom = ro.zoom
	opts.Scale = ro.scale
	opts.Detailed = ro.detailed
	opts.Refresh = ro.refresh
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	src, err := c.openSource(cfg, args)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", src.Describe()))
	spinner.Start()
	result, err := runner.Execute(ctx, src, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths := outputPaths(ro.output, inputBase(args), opts.Formats)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %d moves (%s layout)", result.Stats.NodeCount, result.Layout.Mode)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	if !result.Layout.Refined && result.Layout.Mode != layout.ModeConcentric && result.Stats.NodeCount > 0 {
		printWarning("Layout engine unavailable, showing the concentric seed")
	}
	return nil
}

// applyEngineFlag overrides the configured engine family.
func applyEngineFlag(cfg *config.Config, engine string) {
	if engine != "" {
		cfg.Layout.Engine = engine
	}
}

// outputPaths maps each format to its output file. A single format writes
// to output verbatim when it has an extension or is "-". Otherwise files
// are named base.<ext>, where base is output without a known extension or
// the input base.
func outputPaths(output, inputBase string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && (output == "-" || filepath.Ext(output) != "") {
		paths[formats[0]] = output
		return paths
	}

	base := inputBase
	if output != "" {
		base = trimFormatExt(output)
	}
	for _, f := range formats {
		paths[f] = base + "." + pipeline.Extension(f)
	}
	return paths
}

// writeFile writes data to path, creating parent directories. "-" writes
// to stdout.
func writeFile(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// trimFormatExt strips a known output extension, longest first so that
// "x.cy.json" loses ".cy.json" rather than ".json".
func trimFormatExt(path string) string {
	exts := make([]string, len(pipeline.Formats))
	for i, f := range pipeline.Formats {
		exts[i] = "." + pipeline.Extension(f)
	}
	slices.SortFunc(exts, func(a, b string) int { return len(b) - len(a) })
	for _, ext := range exts {
		if trimmed, ok := strings.CutSuffix(path, ext); ok {
			return trimmed
		}
	}
	return path
}
