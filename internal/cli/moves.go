package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/moves"
)

// movesCommand groups the moveset authoring tools.
func (c *CLI) movesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moves",
		Short: "Check and edit moveset files",
	}
	cmd.AddCommand(c.movesCheckCommand())
	cmd.AddCommand(c.movesAddCommand())
	return cmd
}

// checkReport summarizes the authoring problems in a moveset.
type checkReport struct {
	Moves      int
	Edges      int
	Dangling   []graph.Reference
	Asymmetric []graph.Reference
	Cyclic     bool
}

// Problems counts the findings that fail a strict check.
func (r checkReport) Problems() int { return len(r.Dangling) }

func checkMoveset(ms moves.Moveset) (checkReport, error) {
	if err := ms.Validate(); err != nil {
		return checkReport{}, err
	}
	g := graph.Build(ms)
	return checkReport{
		Moves:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Dangling:   graph.Dangling(ms),
		Asymmetric: graph.Asymmetric(ms),
		Cyclic:     g.HasCycle(),
	}, nil
}

// movesCheckCommand creates the "moves check" subcommand.
func (c *CLI) movesCheckCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [moveset]",
		Short: "Report references to unknown moves and one-sided links",
		Long: `Report authoring problems in a moveset.

Dangling references (parents or children naming moves that do not exist) are
dropped from the diagram without notice; this command lists them. Children that
do not name the move back as a parent, and cycles, are reported for information.

With --strict, dangling references make the command fail.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMovesCheck(cmd.Context(), args, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when references to unknown moves exist")
	return cmd
}

func (c *CLI) runMovesCheck(ctx context.Context, args []string, strict bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	src, err := c.openSource(cfg, args)
	if err != nil {
		return err
	}
	ms, err := moves.Load(ctx, src)
	if err != nil {
		return err
	}

	report, err := checkMoveset(ms)
	if err != nil {
		return err
	}
	printReport(report)

	if strict && report.Problems() > 0 {
		return mgerrors.New(mgerrors.ErrCodeInvalidMoveset, "%d references to unknown moves", report.Problems())
	}
	return nil
}

func printReport(r checkReport) {
	printKeyValue("Moves", fmt.Sprint(r.Moves))
	printKeyValue("Edges", fmt.Sprint(r.Edges))
	printKeyValue("Cycles", map[bool]string{true: "yes", false: "no"}[r.Cyclic])
	printNewline()

	if len(r.Dangling) == 0 {
		printSuccess("No references to unknown moves")
	} else {
		printWarning("%d references to unknown moves", len(r.Dangling))
		for _, ref := range r.Dangling {
			printDetail("%s: %s %q", ref.Move, ref.Relation, ref.Target)
		}
	}
	if len(r.Asymmetric) > 0 {
		printInfo("%d children do not list their parent", len(r.Asymmetric))
		for _, ref := range r.Asymmetric {
			printDetail("%s %s %s", ref.Move, iconArrow, ref.Target)
		}
	}
}

// addOpts holds the flags of "moves add".
type addOpts struct {
	into     string
	path     []string
	parents  []string
	children []string
	area     string
	moveType string
	subType  string
	image    string
	video    string
}

func (o addOpts) record() moves.Record {
	return moves.Record{
		Path:     o.path,
		Parents:  o.parents,
		Children: o.children,
		Area:     moves.Label(o.area),
		Type:     moves.Label(o.moveType),
		SubType:  moves.Label(o.subType),
		Image:    o.image,
		Video:    o.video,
	}
}

// movesAddCommand creates the "moves add" subcommand.
func (c *CLI) movesAddCommand() *cobra.Command {
	var opts addOpts

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Author a new move entry",
		Long: `Author a new move entry.

Without --into the entry is printed as a JSON snippet ready to paste into a
moveset file. With --into the move is added to the file, which is rewritten
in its own format.`,
		Example: `  movegraph moves add "Knee Slice" --parents "Top Full Guard" --type Pass --area Ground
  movegraph moves add "Armbar" --children Sweep --into moveset.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMovesAdd(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.into, "into", "", "moveset file to add the move to, relative to the working directory")
	cmd.Flags().StringSliceVar(&opts.path, "path", nil, "path from the root position")
	cmd.Flags().StringSliceVar(&opts.parents, "parents", nil, "parent moves")
	cmd.Flags().StringSliceVar(&opts.children, "children", nil, "child moves")
	cmd.Flags().StringVar(&opts.area, "area", "", "area, e.g. Ground or Standing")
	cmd.Flags().StringVar(&opts.moveType, "type", "", "type: Guard, Pass, Submission, Takedown, Control")
	cmd.Flags().StringVar(&opts.subType, "sub-type", "", "sub type")
	cmd.Flags().StringVar(&opts.image, "image", "", "image URL (default: derived from the name)")
	cmd.Flags().StringVar(&opts.video, "video", "", "video URL")
	return cmd
}

func runMovesAdd(w io.Writer, name string, opts addOpts) error {
	rec := opts.record()
	if opts.into == "" {
		snippet, err := moves.Snippet(name, rec)
		if err != nil {
			return err
		}
		_, err = w.Write(snippet)
		return err
	}

	if err := mgerrors.ValidatePath(opts.into); err != nil {
		return err
	}
	ms, err := moves.ReadFile(opts.into)
	if err != nil {
		return err
	}
	if err := ms.Add(name, rec); err != nil {
		return err
	}
	if err := writeMoveset(opts.into, ms); err != nil {
		return err
	}
	printSuccess("Added %q to %s", name, opts.into)
	for _, ref := range graph.Dangling(moves.Moveset{name: rec}) {
		if _, ok := ms[ref.Target]; !ok {
			printWarning("%s %q does not exist yet", ref.Relation, ref.Target)
		}
	}
	return nil
}

// writeMoveset rewrites a moveset file in the format its extension names.
func writeMoveset(path string, ms moves.Moveset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if moves.FormatFromPath(path) == moves.FormatYAML {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(ms); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return enc.Close()
	}
	return moves.WriteJSON(f, ms)
}
