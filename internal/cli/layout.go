package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/pipeline"
)

// layoutFile is the document written by the layout command.
type layoutFile struct {
	Mode      layout.Mode      `json:"mode"`
	Engine    string           `json:"engine"`
	Refined   bool             `json:"refined"`
	Bounds    layout.Rect      `json:"bounds"`
	Positions layout.Positions `json:"positions"`
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		mode    string
		engine  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [moveset]",
		Short: "Compute node positions for a moveset",
		Long: `Compute node positions for a moveset.

The output is a JSON document with the position of every move in the chosen
mode. Concentric layouts never need an engine; dagre and cola refine the
concentric seed with the configured engine family.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, mode, engine, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "layout mode: concentric, dagre, cola")
	cmd.Flags().StringVar(&engine, "engine", "", "layout engine: graphviz, native")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runLayout loads the moveset, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, args []string, mode, engine, output string, noCache, refresh bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyEngineFlag(cfg, engine)
	opts := pipelineOptions(cfg)
	if mode != "" {
		opts.Mode = mode
	}
	opts.Refresh = refresh

	src, err := c.openSource(cfg, args)
	if err != nil {
		return err
	}
	ms, err := moves.Load(ctx, src)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, err := runner.Build(ctx, ms, opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.LayoutMode()))
	spinner.Start()
	res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	sc := pipeline.BuildScene(g, res, opts)
	doc := layoutFile{
		Mode:      res.Mode,
		Engine:    runner.Engine.Name(),
		Refined:   res.Refined,
		Bounds:    sc.Bounds,
		Positions: res.Final(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	if output == "" {
		output = inputBase(args) + ".layout.json"
	}
	if err := writeFile(output, append(data, '\n')); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+argOrEmpty(args))
	return nil
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
