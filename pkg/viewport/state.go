package viewport

import (
	"math"

	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/style"
)

// Zoom limits applied by [ClampZoom].
const (
	MinZoom = 0.05
	MaxZoom = 20
)

// ClampZoom normalizes z and limits it to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, style.NormalizeZoom(z)))
}

// State is the current view. Pan is the rendered offset of the model
// origin, so a model point p is drawn at p*Zoom + Pan.
type State struct {
	Zoom       float64      `json:"zoom"`
	Pan        layout.Point `json:"pan"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Mode       layout.Mode  `json:"mode"`
	Curve      style.Curve  `json:"curve"`
	ShowLabels bool         `json:"show_labels"`
}

// NewState returns a view of the given size at zoom 1.
func NewState(width, height float64) State {
	return State{
		Zoom:       1,
		Width:      width,
		Height:     height,
		Mode:       layout.ModePhysical,
		Curve:      style.CurveStraight,
		ShowLabels: true,
	}
}

// ToScreen maps a model point to rendered coordinates.
func (s State) ToScreen(p layout.Point) layout.Point {
	z := style.NormalizeZoom(s.Zoom)
	return layout.Point{X: p.X*z + s.Pan.X, Y: p.Y*z + s.Pan.Y}
}

// ToModel maps a rendered point back to model coordinates.
func (s State) ToModel(p layout.Point) layout.Point {
	z := style.NormalizeZoom(s.Zoom)
	return layout.Point{X: (p.X - s.Pan.X) / z, Y: (p.Y - s.Pan.Y) / z}
}

// ZoomAt scales the zoom by factor while keeping the rendered point anchor
// fixed. The result is clamped to [MinZoom, MaxZoom].
func (s State) ZoomAt(factor float64, anchor layout.Point) State {
	old := style.NormalizeZoom(s.Zoom)
	z := ClampZoom(old * factor)
	model := s.ToModel(anchor)
	s.Zoom = z
	s.Pan = layout.Point{X: anchor.X - model.X*z, Y: anchor.Y - model.Y*z}
	return s
}

// PanBy shifts the view by a rendered offset.
func (s State) PanBy(dx, dy float64) State {
	s.Pan.X += dx
	s.Pan.Y += dy
	return s
}

// Fit returns a view that shows all of bounds with padding on every side.
func (s State) Fit(bounds layout.Rect, padding float64) State {
	w, h := bounds.Width(), bounds.Height()
	if w <= 0 || h <= 0 || s.Width <= 2*padding || s.Height <= 2*padding {
		return s
	}
	z := math.Min((s.Width-2*padding)/w, (s.Height-2*padding)/h)
	z = ClampZoom(z)
	cx, cy := bounds.MinX+w/2, bounds.MinY+h/2
	s.Zoom = z
	s.Pan = layout.Point{X: s.Width/2 - cx*z, Y: s.Height/2 - cy*z}
	return s
}
