package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/moves"
)

// graphCommand creates the graph command, which exports the node-link JSON.
func (c *CLI) graphCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph [moveset]",
		Short: "Export the move graph as node-link JSON",
		Long: `Export the move graph as node-link JSON.

Every move becomes a node and every child reference naming an existing move
becomes an edge. References to unknown moves are dropped; run
'movegraph moves check' to list them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json, - for stdout)")
	return cmd
}

func (c *CLI) runGraph(ctx context.Context, args []string, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	src, err := c.openSource(cfg, args)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	ms, err := moves.Load(ctx, src)
	if err != nil {
		return err
	}
	g := graph.Build(ms)
	prog.done(fmt.Sprintf("Built graph from %s", src.Describe()))

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		return err
	}
	if output == "" {
		output = inputBase(args) + ".graph.json"
	}
	if err := writeFile(output, buf.Bytes()); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printSuccess("Graph exported")
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	if n := len(graph.Dangling(ms)); n > 0 {
		printWarning("%d references to unknown moves were dropped", n)
	}
	return nil
}
