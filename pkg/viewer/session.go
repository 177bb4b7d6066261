package viewer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/render/scene"
	"github.com/matzehuels/movegraph/pkg/style"
	"github.com/matzehuels/movegraph/pkg/viewport"
)

// Options configures a [Session].
type Options struct {
	Style   style.Config
	Layout  layout.Options
	Engine  layout.Engine // nil disables refinement
	Mode    layout.Mode
	Width   float64
	Height  float64
	Surface viewport.Surface // nil records into the session's StyleSnapshot
	Logger  *log.Logger
}

// DefaultOptions returns a session with the stock style and layout, an
// 800x600 viewport and no refining engine.
func DefaultOptions() Options {
	return Options{
		Style:  style.DefaultConfig(),
		Layout: layout.DefaultOptions(),
		Mode:   layout.ModePhysical,
		Width:  800,
		Height: 600,
	}
}

// Session is one interactive view of a moveset. It is safe for concurrent
// use. Camera events are delivered to the reactor outside the state lock but
// under the camera lock, so surfaces see them in the order the state changed.
type Session struct {
	logger   *log.Logger
	orch     *layout.Orchestrator
	notifier *viewport.Notifier
	reactor  *viewport.Reactor
	snapshot *StyleSnapshot

	camera sync.Mutex // serializes camera changes with their publication

	mu        sync.RWMutex
	base      style.Config
	overrides style.Overrides
	state     viewport.State
	moveset   moves.Moveset
	g         *graph.Graph
	positions layout.Positions
	source    string
	loadedAt  time.Time
}

// New creates a session without a graph. Call Initialize to load one.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Style.BaseDiameter == 0 {
		opts.Style = style.DefaultConfig()
	}

	s := &Session{
		logger:   logger,
		notifier: viewport.NewNotifier(),
		snapshot: NewStyleSnapshot(),
		base:     opts.Style.Clone(),
		state:    viewport.NewState(opts.Width, opts.Height),
	}
	if opts.Mode != "" {
		s.state.Mode = layout.ParseMode(string(opts.Mode))
	}
	s.state.Curve = opts.Style.Curve
	s.state.ShowLabels = !opts.Style.HideLabels
	s.orch = layout.NewOrchestrator(opts.Engine, layout.WithOptions(opts.Layout), layout.WithLogger(logger))

	var surface viewport.Surface = s.snapshot
	if opts.Surface != nil {
		surface = Surfaces{s.snapshot, opts.Surface}
	}
	s.reactor = viewport.NewReactor(s.notifier, s, surface, logger)
	return s
}

// Close detaches the zoom reactor.
func (s *Session) Close() { s.reactor.Close() }

// Initialize loads the moveset from src, builds the graph, runs the layout
// for the current mode and applies the initial zoom styling. On error the
// session is left without a graph.
func (s *Session) Initialize(ctx context.Context, src moves.Source) error {
	s.clear()
	built, err := s.prepare(ctx, src)
	if err != nil {
		s.logger.Error("initialization failed", "source", src.Describe(), "err", err)
		return err
	}
	s.install(built)
	return s.restyle()
}

// Reload is Initialize for a running session: on error the previous graph
// stays in place.
func (s *Session) Reload(ctx context.Context, src moves.Source) error {
	built, err := s.prepare(ctx, src)
	if err != nil {
		s.logger.Warn("reload failed, keeping previous graph", "source", src.Describe(), "err", err)
		return err
	}
	s.install(built)
	return s.restyle()
}

type prepared struct {
	source    string
	moveset   moves.Moveset
	graph     *graph.Graph
	positions layout.Positions
}

// maxLayoutAttempts bounds how often a load re-runs a layout superseded by
// concurrent mode changes before settling for the seed.
const maxLayoutAttempts = 3

func (s *Session) prepare(ctx context.Context, src moves.Source) (prepared, error) {
	ms, err := moves.Load(ctx, src)
	if err != nil {
		return prepared{}, err
	}
	g := graph.Build(ms)

	positions, mode, err := s.layoutLoaded(ctx, g)
	if err != nil {
		return prepared{}, mgerrors.Wrap(mgerrors.ErrCodeInternal, err, "layout %s", mode)
	}
	s.logger.Info("moveset loaded", "source", src.Describe(), "moves", g.NodeCount(), "edges", g.EdgeCount(), "mode", mode)
	return prepared{source: src.Describe(), moveset: ms, graph: g, positions: positions}, nil
}

// layoutLoaded lays out a freshly built graph in the current mode. A mode
// change that supersedes the run only changes the mode: the layout is run
// again with the newer mode, and after maxLayoutAttempts the seed is kept.
func (s *Session) layoutLoaded(ctx context.Context, g *graph.Graph) (layout.Positions, layout.Mode, error) {
	var (
		mode  layout.Mode
		sizes map[string]float64
	)
	for range maxLayoutAttempts {
		s.mu.RLock()
		mode, sizes = s.state.Mode, style.Diameters(s.styleLocked(), g)
		s.mu.RUnlock()

		res, err := s.orch.Run(ctx, g, sizes, mode)
		if err == nil {
			return res.Final(), mode, nil
		}
		if !errors.Is(err, layout.ErrSuperseded) {
			return nil, mode, err
		}
		s.logger.Debug("load layout superseded, running again", "mode", mode)
	}
	s.logger.Warn("layout kept being superseded, using seed", "mode", mode)
	return layout.Seed(g, sizes, s.orch.Options().Seed), mode, nil
}

func (s *Session) install(p prepared) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = p.source
	s.moveset = p.moveset
	s.g = p.graph
	s.positions = p.positions
	s.loadedAt = time.Now()
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source, s.moveset, s.g, s.positions = "", nil, nil, nil
}

func (s *Session) restyle() error {
	s.camera.Lock()
	defer s.camera.Unlock()
	s.mu.RLock()
	zoom := s.state.Zoom
	s.mu.RUnlock()
	return s.reactor.Restyle(zoom)
}

// =============================================================================
// Read access
// =============================================================================

// Graph returns the current graph, or nil before a successful Initialize.
func (s *Session) Graph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g
}

// Style returns the effective style: the base config with overrides and the
// label toggle applied.
func (s *Session) Style() style.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.styleLocked()
}

func (s *Session) styleLocked() style.Config {
	cfg := s.base.With(s.overrides)
	cfg.Curve = s.state.Curve
	cfg.HideLabels = !s.state.ShowLabels
	return cfg
}

// Overrides returns the active user overrides.
func (s *Session) Overrides() style.Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides
}

// State returns the view state.
func (s *Session) State() viewport.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Positions returns a copy of the node positions.
func (s *Session) Positions() layout.Positions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions.Clone()
}

// Moveset returns the loaded moveset.
func (s *Session) Moveset() moves.Moveset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveset
}

// Source describes where the current moveset came from.
func (s *Session) Source() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source, s.loadedAt
}

// ZoomStyle returns the last zoom-dependent attributes applied.
func (s *Session) ZoomStyle() ZoomStyle { return s.snapshot.Get() }

// Scene returns the render-ready element list for the current state.
func (s *Session) Scene() scene.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.g == nil {
		return scene.Build(graph.New(), s.styleLocked(), nil, s.state.Zoom)
	}
	sc := scene.Build(s.g, s.styleLocked(), s.positions, s.state.Zoom)
	sc.Mode = s.state.Mode
	return sc
}

// Tooltip returns the hover summary of a move.
func (s *Session) Tooltip(id string) (Tooltip, error) {
	n, err := s.node(id)
	if err != nil {
		return Tooltip{}, err
	}
	return tooltipFor(n), nil
}

func (s *Session) node(id string) (*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.g == nil {
		return nil, mgerrors.New(mgerrors.ErrCodeNotFound, "no graph loaded")
	}
	n, ok := s.g.Node(id)
	if !ok {
		return nil, mgerrors.New(mgerrors.ErrCodeMoveNotFound, "move not found: %s", id)
	}
	return n, nil
}

// Surfaces applies a batch to several surfaces in order, stopping at the
// first error.
type Surfaces []viewport.Surface

// Batch implements viewport.Surface.
func (f Surfaces) Batch(fn func(viewport.StyleWriter)) error {
	for _, s := range f {
		if err := s.Batch(fn); err != nil {
			return err
		}
	}
	return nil
}
