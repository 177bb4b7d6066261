package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/movegraph/pkg/graph"
)

var (
	// ErrUnavailable reports that no engine can serve a request. The
	// orchestrator treats it as a no-op.
	ErrUnavailable = errors.New("layout engine unavailable")

	// ErrSuperseded is returned by [Orchestrator.Run] when a newer run
	// cancelled this one.
	ErrSuperseded = errors.New("layout run superseded")
)

// Request is one refinement job.
type Request struct {
	Graph        *graph.Graph
	Seed         Positions
	Sizes        map[string]float64
	Mode         Mode
	Hierarchical HierarchicalOptions
	Physical     PhysicalOptions
}

// Engine refines seeded positions for a mode. Implementations must honour
// ctx cancellation; for [ModePhysical] the context carries the simulation
// deadline and engines should return their best positions when it expires.
type Engine interface {
	Name() string
	Refine(ctx context.Context, req Request) (Positions, error)
}

// Router dispatches requests to one engine per mode family. A nil field
// makes that family unavailable.
type Router struct {
	Hierarchical Engine
	Physical     Engine
}

// Name describes the routed engines.
func (r Router) Name() string {
	return fmt.Sprintf("router(%s,%s)", engineName(r.Hierarchical), engineName(r.Physical))
}

// Refine forwards req to the engine for its mode.
func (r Router) Refine(ctx context.Context, req Request) (Positions, error) {
	var e Engine
	switch req.Mode {
	case ModeHierarchical:
		e = r.Hierarchical
	case ModePhysical:
		e = r.Physical
	}
	if e == nil {
		return nil, fmt.Errorf("%w: no engine for %s", ErrUnavailable, req.Mode)
	}
	return e.Refine(ctx, req)
}

func engineName(e Engine) string {
	if e == nil {
		return "none"
	}
	return e.Name()
}
