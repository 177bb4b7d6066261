package style

import (
	"maps"
	"slices"
	"strings"
)

// Curve is the edge curve style understood by renderers.
type Curve string

const (
	CurveStraight        Curve = "straight"
	CurveBezier          Curve = "bezier"
	CurveUnbundledBezier Curve = "unbundled-bezier"
	CurveHaystack        Curve = "haystack"
	CurveSegments        Curve = "segments"
	CurveTaxi            Curve = "taxi"
)

var curves = []Curve{CurveStraight, CurveBezier, CurveUnbundledBezier, CurveHaystack, CurveSegments, CurveTaxi}

// Curves returns all supported curve styles.
func Curves() []Curve { return slices.Clone(curves) }

// ParseCurve resolves a curve style name case-insensitively.
func ParseCurve(s string) (Curve, bool) {
	c := Curve(strings.ToLower(strings.TrimSpace(s)))
	return c, slices.Contains(curves, c)
}

// Default palette colors by move type.
const (
	ColorGuard      = "#1f77b4"
	ColorPass       = "#ff7f0e"
	ColorSubmission = "#d62728"
	ColorTakedown   = "#DEB887"
	ColorControl    = "#379a1c"
	ColorDefault    = "#888"
)

// Config holds the sizing constants and colors used by every attribute
// function. Build one with [DefaultConfig] and adjust fields as needed.
type Config struct {
	BaseDiameter     float64 `toml:"base_diameter" json:"base_diameter" validate:"gt=0"`
	PerEdgeIncrement float64 `toml:"per_edge_increment" json:"per_edge_increment" validate:"gte=0"`
	LabelScale       float64 `toml:"label_scale" json:"label_scale" validate:"gt=0"`
	MinFontSize      float64 `toml:"min_font_size" json:"min_font_size" validate:"gt=0"`
	MaxFontSize      float64 `toml:"max_font_size" json:"max_font_size" validate:"gtefield=MinFontSize"`
	MaxEdgeWidth     float64 `toml:"max_edge_width" json:"max_edge_width" validate:"gt=0"`
	BorderWidth      float64 `toml:"border_width" json:"border_width" validate:"gte=0"`

	Palette      map[string]string `toml:"palette" json:"palette" validate:"dive,keys,required,endkeys,hexcolor"`
	DefaultColor string            `toml:"default_color" json:"default_color" validate:"hexcolor"`
	NodeColor    string            `toml:"node_color" json:"node_color,omitempty" validate:"omitempty,hexcolor"`
	EdgeColor    string            `toml:"edge_color" json:"edge_color" validate:"hexcolor"`
	LabelColor   string            `toml:"label_color" json:"label_color" validate:"hexcolor"`
	Background   string            `toml:"background" json:"background" validate:"hexcolor"`

	Curve      Curve `toml:"curve" json:"curve" validate:"oneof=straight bezier unbundled-bezier haystack segments taxi"`
	HideLabels bool  `toml:"hide_labels" json:"hide_labels"`
}

// DefaultConfig returns the stock diagram style.
func DefaultConfig() Config {
	return Config{
		BaseDiameter:     30,
		PerEdgeIncrement: 5,
		LabelScale:       0.2,
		MinFontSize:      4,
		MaxFontSize:      16,
		MaxEdgeWidth:     3,
		BorderWidth:      4,
		Palette:          DefaultPalette(),
		DefaultColor:     ColorDefault,
		EdgeColor:        "#AAFDE9",
		LabelColor:       "#fff",
		Background:       "#5050a0",
		Curve:            CurveStraight,
	}
}

// DefaultPalette returns a fresh copy of the type → color mapping.
func DefaultPalette() map[string]string {
	return map[string]string{
		"Guard":      ColorGuard,
		"Pass":       ColorPass,
		"Submission": ColorSubmission,
		"Takedown":   ColorTakedown,
		"Control":    ColorControl,
	}
}

// Clone returns a copy of c that shares no maps with it.
func (c Config) Clone() Config {
	c.Palette = maps.Clone(c.Palette)
	return c
}
