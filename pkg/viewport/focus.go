package viewport

import (
	"fmt"
	"time"

	"github.com/matzehuels/movegraph/pkg/layout"
)

// Focus animation parameters.
const (
	FocusFraction = 0.15
	FocusDuration = 300 * time.Millisecond
	EaseInOut     = "ease-in-out"
)

// Animation is a camera move toward a target view.
type Animation struct {
	Target   string        `json:"target"`
	Zoom     float64       `json:"zoom"`
	Pan      layout.Point  `json:"pan"`
	Center   layout.Point  `json:"center"`
	Duration time.Duration `json:"duration"`
	Easing   string        `json:"easing"`
}

// Focus centers the view on a node at center with the given diameter and
// zooms so the node spans FocusFraction of the viewport width.
func Focus(s State, id string, center layout.Point, diameter float64) (Animation, error) {
	if diameter <= 0 {
		return Animation{}, fmt.Errorf("focus %s: diameter must be positive", id)
	}
	if s.Width <= 0 {
		return Animation{}, fmt.Errorf("focus %s: viewport has no width", id)
	}
	z := s.Width * FocusFraction / diameter
	return Animation{
		Target:   id,
		Zoom:     z,
		Center:   center,
		Pan:      layout.Point{X: s.Width/2 - center.X*z, Y: s.Height/2 - center.Y*z},
		Duration: FocusDuration,
		Easing:   EaseInOut,
	}, nil
}

// At returns the view elapsed into the animation, starting from from.
func (a Animation) At(from State, elapsed time.Duration) State {
	t := 1.0
	if a.Duration > 0 && elapsed < a.Duration {
		t = float64(elapsed) / float64(a.Duration)
	}
	if elapsed < 0 {
		t = 0
	}
	k := Ease(t)
	out := from
	out.Zoom = from.Zoom + (a.Zoom-from.Zoom)*k
	out.Pan = layout.Point{
		X: from.Pan.X + (a.Pan.X-from.Pan.X)*k,
		Y: from.Pan.Y + (a.Pan.Y-from.Pan.Y)*k,
	}
	return out
}

// Ease is the cubic ease-in-out curve on [0, 1].
func Ease(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		u := -2*t + 2
		return 1 - u*u*u/2
	}
}
