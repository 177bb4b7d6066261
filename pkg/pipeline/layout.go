package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/layout/force"
	"github.com/matzehuels/movegraph/pkg/layout/graphviz"
	"github.com/matzehuels/movegraph/pkg/layout/layered"
	"github.com/matzehuels/movegraph/pkg/style"
)

// Engine families.
const (
	EngineGraphviz = "graphviz" // dot for hierarchical, neato for physical
	EngineNative   = "native"   // layered sweeps and a spring simulation
)

// Engines lists the engine families.
var Engines = []string{EngineGraphviz, EngineNative}

// NewEngine builds the engine router for a family. An empty name selects
// Graphviz.
func NewEngine(family string, logger *log.Logger) (layout.Engine, error) {
	switch family {
	case "", EngineGraphviz:
		gv := graphviz.New(logger)
		return layout.Router{Hierarchical: gv, Physical: gv}, nil
	case EngineNative:
		return layout.Router{Hierarchical: layered.New(), Physical: force.New()}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q (must be graphviz or native)", family)
	}
}

// ComputeLayout runs one layout of g. Each call gets its own orchestrator,
// so concurrent calls never cancel each other.
func ComputeLayout(ctx context.Context, engine layout.Engine, g *graph.Graph, opts Options) (layout.Result, error) {
	opts.SetDefaults()
	orch := layout.NewOrchestrator(engine,
		layout.WithOptions(opts.Layout),
		layout.WithLogger(opts.Logger))
	return orch.Run(ctx, g, style.Diameters(opts.Style, g), opts.LayoutMode())
}
