package viewport

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/style"
)

// StyleWriter receives zoom-dependent attributes inside a batch.
type StyleWriter interface {
	SetEdgeStyle(width, arrowScale float64)
	SetNodeFontSize(id string, size float64)
}

// Surface is the rendering collaborator. Batch must apply everything written
// inside fn as one visual update.
type Surface interface {
	Batch(fn func(StyleWriter)) error
}

// Model supplies the graph and style the reactor reads. Both may change
// between events; the reactor reads them afresh each time.
type Model interface {
	Graph() *graph.Graph
	Style() style.Config
}

// Reactor restyles a surface on zoom changes.
type Reactor struct {
	model   Model
	surface Surface
	logger  *log.Logger
	stop    func()
}

// NewReactor creates a reactor subscribed to n.
func NewReactor(n *Notifier, model Model, surface Surface, logger *log.Logger) *Reactor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Reactor{model: model, surface: surface, logger: logger}
	r.stop = n.Subscribe(r.handle)
	return r
}

// Close unsubscribes the reactor.
func (r *Reactor) Close() { r.stop() }

func (r *Reactor) handle(ev Event) {
	if ev.Kind != KindZoom {
		return
	}
	if err := r.Restyle(ev.Zoom); err != nil {
		r.logger.Warn("restyle failed", "zoom", ev.Zoom, "err", err)
	}
}

// Restyle recomputes edge width, arrow scale and every node's font size for
// zoom and applies them in one batch. It is a no-op without a graph.
func (r *Reactor) Restyle(zoom float64) error {
	g := r.model.Graph()
	if g == nil {
		return nil
	}
	cfg := r.model.Style()
	width := style.EdgeWidth(cfg, zoom)
	arrow := style.ArrowScale(cfg, zoom)
	nodes := g.Nodes()
	fonts := make([]float64, len(nodes))
	for i, n := range nodes {
		fonts[i] = style.FontSize(cfg, n, zoom)
	}

	return r.surface.Batch(func(w StyleWriter) {
		w.SetEdgeStyle(width, arrow)
		for i, n := range nodes {
			w.SetNodeFontSize(n.ID, fonts[i])
		}
	})
}
