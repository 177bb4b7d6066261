package viewer

import (
	"context"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/style"
	"github.com/matzehuels/movegraph/pkg/viewport"
)

// SetLayoutMode switches the layout mode and re-runs the layout from a
// fresh seed. Unknown names select the physical mode. A run superseded by a
// newer call returns layout.ErrSuperseded and leaves positions untouched.
// When the graph is reloaded while the run is in flight, the layout is run
// again on the new graph.
func (s *Session) SetLayoutMode(ctx context.Context, name string) (layout.Result, error) {
	mode := layout.ParseMode(name)

	s.mu.Lock()
	s.state.Mode = mode
	g, cfg := s.g, s.styleLocked()
	s.mu.Unlock()

	for g != nil {
		res, err := s.orch.Run(ctx, g, style.Diameters(cfg, g), mode)
		if err != nil {
			return res, err
		}

		s.mu.Lock()
		if s.g == g {
			s.positions = res.Final()
			s.mu.Unlock()
			return res, nil
		}
		g, cfg = s.g, s.styleLocked()
		s.mu.Unlock()
	}
	return layout.Result{Mode: mode}, nil
}

// SetCurveStyle changes the edge curve style.
func (s *Session) SetCurveStyle(name string) error {
	c, ok := style.ParseCurve(name)
	if !ok {
		return mgerrors.New(mgerrors.ErrCodeInvalidInput, "unknown curve style: %s", name)
	}
	s.mu.Lock()
	s.state.Curve = c
	s.mu.Unlock()
	return nil
}

// SetShowLabels toggles node labels.
func (s *Session) SetShowLabels(show bool) {
	s.mu.Lock()
	s.state.ShowLabels = show
	s.overrides.SetShowLabels(show)
	s.mu.Unlock()
}

// SetNodeColor paints every node with color, replacing the type palette.
func (s *Session) SetNodeColor(color string) error {
	return s.setColor(color, func(o *style.Overrides) { o.NodeColor = color })
}

// SetEdgeColor changes the line and arrow color of every edge.
func (s *Session) SetEdgeColor(color string) error {
	return s.setColor(color, func(o *style.Overrides) { o.EdgeColor = color })
}

// SetBackground changes the page background.
func (s *Session) SetBackground(color string) error {
	return s.setColor(color, func(o *style.Overrides) { o.Background = color })
}

func (s *Session) setColor(color string, apply func(*style.Overrides)) error {
	if err := mgerrors.ValidateColor(color); err != nil {
		return err
	}
	s.mu.Lock()
	apply(&s.overrides)
	s.mu.Unlock()
	return nil
}

// ResetNodeColors restores the type palette.
func (s *Session) ResetNodeColors() {
	s.mu.Lock()
	s.overrides.ResetNodeColors()
	s.mu.Unlock()
}

// ResetColors restores node, edge and background colors.
func (s *Session) ResetColors() {
	s.mu.Lock()
	s.overrides.ResetColors()
	s.mu.Unlock()
}

// Zoom sets the zoom level and restyles zoom-dependent attributes.
// Unusable values are treated as 1; others are clamped to
// [viewport.MinZoom, viewport.MaxZoom].
func (s *Session) Zoom(zoom float64) {
	s.camera.Lock()
	defer s.camera.Unlock()
	s.mu.Lock()
	s.state.Zoom = viewport.ClampZoom(zoom)
	ev := viewport.Event{Kind: viewport.KindZoom, Zoom: s.state.Zoom, Pan: s.state.Pan}
	s.mu.Unlock()
	s.notifier.Publish(ev)
}

// ZoomAt scales the zoom around a rendered anchor point.
func (s *Session) ZoomAt(factor float64, anchor layout.Point) {
	s.camera.Lock()
	defer s.camera.Unlock()
	s.mu.Lock()
	s.state = s.state.ZoomAt(factor, anchor)
	ev := viewport.Event{Kind: viewport.KindZoom, Zoom: s.state.Zoom, Pan: s.state.Pan}
	s.mu.Unlock()
	s.notifier.Publish(ev)
}

// Pan shifts the view. It never restyles.
func (s *Session) Pan(dx, dy float64) {
	s.camera.Lock()
	defer s.camera.Unlock()
	s.mu.Lock()
	s.state = s.state.PanBy(dx, dy)
	ev := viewport.Event{Kind: viewport.KindPan, Zoom: s.state.Zoom, Pan: s.state.Pan}
	s.mu.Unlock()
	s.notifier.Publish(ev)
}

// Resize changes the viewport size.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	s.state.Width, s.state.Height = width, height
	s.mu.Unlock()
}

// Fit zooms and pans so the whole graph is visible.
func (s *Session) Fit(padding float64) {
	s.camera.Lock()
	defer s.camera.Unlock()
	s.mu.Lock()
	if s.g == nil {
		s.mu.Unlock()
		return
	}
	bounds := s.positions.Bounds(style.Diameters(s.styleLocked(), s.g))
	s.state = s.state.Fit(bounds, padding)
	ev := viewport.Event{Kind: viewport.KindZoom, Zoom: s.state.Zoom, Pan: s.state.Pan}
	s.mu.Unlock()
	s.notifier.Publish(ev)
}

// Focus moves the camera to a node. It returns the animation together with
// the state it starts from, so surfaces can play it frame by frame; the
// session itself jumps to the final view.
func (s *Session) Focus(id string) (viewport.Animation, viewport.State, error) {
	n, err := s.node(id)
	if err != nil {
		return viewport.Animation{}, viewport.State{}, err
	}

	s.camera.Lock()
	defer s.camera.Unlock()
	s.mu.Lock()
	from := s.state
	center, ok := s.positions[id]
	if !ok {
		s.mu.Unlock()
		return viewport.Animation{}, from, mgerrors.New(mgerrors.ErrCodeNotFound, "move %s has no position", id)
	}
	a, err := viewport.Focus(from, id, center, style.NodeDiameter(s.styleLocked(), n))
	if err != nil {
		s.mu.Unlock()
		return viewport.Animation{}, from, mgerrors.Wrap(mgerrors.ErrCodeInvalidInput, err, "focus")
	}
	s.state = a.At(from, a.Duration)
	ev := viewport.Event{Kind: viewport.KindZoom, Zoom: s.state.Zoom, Pan: s.state.Pan}
	s.mu.Unlock()

	s.notifier.Publish(ev)
	return a, from, nil
}
