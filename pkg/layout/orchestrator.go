package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/observability"
)

// Result is the outcome of one layout run.
type Result struct {
	RunID     string
	Mode      Mode
	Seed      Positions
	Positions Positions // nil when refinement was skipped
	Refined   bool
	Duration  time.Duration
}

// Final returns the refined positions, or the seed when there are none.
func (r Result) Final() Positions {
	if r.Positions != nil {
		return r.Positions
	}
	return r.Seed
}

// Orchestrator runs seed-then-refine layouts with cancel-and-replace
// semantics. It is safe for concurrent use.
type Orchestrator struct {
	engine Engine
	opts   Options
	logger *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	runID  string
}

// Option configures an [Orchestrator].
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOptions replaces the default layout options.
func WithOptions(opts Options) Option {
	return func(o *Orchestrator) { o.opts = opts }
}

// NewOrchestrator creates an orchestrator refining with engine. A nil engine
// is allowed and makes every refining mode a no-op.
func NewOrchestrator(engine Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine: engine,
		opts:   DefaultOptions(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Options returns the orchestrator's layout options.
func (o *Orchestrator) Options() Options { return o.opts }

// Run lays out g in the given mode. Every call re-seeds from scratch and
// cancels any run still in flight.
//
// An empty graph returns a Result with no positions. A concentric run
// returns the seed. Other modes refine the seed; when no engine is
// available the Result carries only the seed and Refined is false.
func (o *Orchestrator) Run(ctx context.Context, g *graph.Graph, sizes map[string]float64, mode Mode) (Result, error) {
	mode = ParseMode(string(mode))
	runCtx, runID := o.begin(ctx)
	defer o.end(runID)

	res := Result{RunID: runID, Mode: mode}
	if g == nil || g.Empty() {
		o.logger.Debug("layout skipped", "run", runID, "reason", "empty graph")
		return res, nil
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(mode), g.NodeCount())

	res.Seed = Seed(g, sizes, o.opts.Seed)
	positions, err := o.refine(runCtx, g, sizes, mode, res.Seed)
	res.Duration = time.Since(start)

	switch {
	case runCtx.Err() != nil && ctx.Err() == nil:
		err = ErrSuperseded
	case ctx.Err() != nil:
		err = ctx.Err()
	case errors.Is(err, ErrUnavailable):
		o.logger.Warn("layout engine unavailable", "run", runID, "mode", mode, "err", err)
		err = nil
	}
	hooks.OnLayoutComplete(ctx, string(mode), res.Duration, err)
	if err != nil {
		return Result{RunID: runID, Mode: mode}, err
	}

	switch {
	case mode == ModeConcentric:
		res.Positions = res.Seed
	case positions != nil:
		res.Positions = positions.Normalize(sizes, o.opts.Padding(mode))
		res.Refined = true
	}
	o.logger.Debug("layout complete", "run", runID, "mode", mode, "nodes", g.NodeCount(), "refined", res.Refined, "duration", res.Duration)
	return res, nil
}

func (o *Orchestrator) refine(ctx context.Context, g *graph.Graph, sizes map[string]float64, mode Mode, seed Positions) (Positions, error) {
	if mode == ModeConcentric {
		return seed, nil
	}
	if o.engine == nil {
		return nil, ErrUnavailable
	}

	req := Request{
		Graph:        g,
		Seed:         seed.Clone(),
		Sizes:        sizes,
		Mode:         mode,
		Hierarchical: o.opts.Hierarchical,
		Physical:     o.opts.Physical,
	}
	if mode == ModePhysical && o.opts.Physical.MaxSimulationTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Physical.MaxSimulationTime)
		defer cancel()
	}

	positions, err := o.engine.Refine(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s refine: %w", o.engine.Name(), err)
	}
	return positions, nil
}

// begin cancels the previous run and registers a new one.
func (o *Orchestrator) begin(ctx context.Context) (context.Context, string) {
	runCtx, cancel := context.WithCancel(ctx)
	runID := uuid.NewString()

	o.mu.Lock()
	if o.cancel != nil {
		o.logger.Debug("layout superseded", "run", o.runID, "by", runID)
		o.cancel()
	}
	o.cancel, o.runID = cancel, runID
	o.mu.Unlock()
	return runCtx, runID
}

// end releases the run if it is still the current one.
func (o *Orchestrator) end(runID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runID == runID {
		o.cancel()
		o.cancel, o.runID = nil, ""
	}
}

// Current returns the ID of the run in flight, or "".
func (o *Orchestrator) Current() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runID
}
