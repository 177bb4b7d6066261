package viewer

import (
	"maps"
	"sync"

	"github.com/matzehuels/movegraph/pkg/viewport"
)

// StyleSnapshot is a [viewport.Surface] that records the most recent
// zoom-dependent attributes. Each batch replaces the previous state
// atomically.
type StyleSnapshot struct {
	mu         sync.RWMutex
	version    int
	edgeWidth  float64
	arrowScale float64
	fonts      map[string]float64
}

// NewStyleSnapshot returns an empty snapshot.
func NewStyleSnapshot() *StyleSnapshot {
	return &StyleSnapshot{fonts: map[string]float64{}}
}

type snapshotWriter struct {
	edgeWidth, arrowScale float64
	fonts                 map[string]float64
}

func (w *snapshotWriter) SetEdgeStyle(width, arrowScale float64) {
	w.edgeWidth, w.arrowScale = width, arrowScale
}

func (w *snapshotWriter) SetNodeFontSize(id string, size float64) { w.fonts[id] = size }

// Batch implements viewport.Surface.
func (s *StyleSnapshot) Batch(fn func(viewport.StyleWriter)) error {
	w := &snapshotWriter{fonts: map[string]float64{}}
	fn(w)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.edgeWidth, s.arrowScale = w.edgeWidth, w.arrowScale
	s.fonts = w.fonts
	return nil
}

// ZoomStyle is a copy of the recorded attributes.
type ZoomStyle struct {
	Version    int                `json:"version"`
	EdgeWidth  float64            `json:"edge_width"`
	ArrowScale float64            `json:"arrow_scale"`
	FontSizes  map[string]float64 `json:"font_sizes"`
}

// Get returns the recorded attributes.
func (s *StyleSnapshot) Get() ZoomStyle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ZoomStyle{
		Version:    s.version,
		EdgeWidth:  s.edgeWidth,
		ArrowScale: s.arrowScale,
		FontSizes:  maps.Clone(s.fonts),
	}
}
