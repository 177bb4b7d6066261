package layout

import (
	"math"
	"strings"
	"time"
)

// Mode selects the refinement applied after seeding. The values are the
// layout names used by the diagram's mode selector.
type Mode string

const (
	ModeConcentric   Mode = "concentric"
	ModeHierarchical Mode = "dagre"
	ModePhysical     Mode = "cola"
)

// Modes lists the supported modes in selector order.
func Modes() []Mode { return []Mode{ModeConcentric, ModeHierarchical, ModePhysical} }

// ParseMode maps a name to a Mode. It never fails: unknown names select
// [ModePhysical]. "hierarchical" and "physical" are accepted as aliases.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concentric":
		return ModeConcentric
	case "dagre", "hierarchical":
		return ModeHierarchical
	default:
		return ModePhysical
	}
}

// Point is a node center in layout units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps node IDs to centers.
type Positions map[string]Point

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the box width.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the box height.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Bounds returns the box around all centers, grown by each node's radius
// when sizes has an entry for it. An empty set yields the zero Rect.
func (p Positions) Bounds(sizes map[string]float64) Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for id, pt := range p {
		rad := sizes[id] / 2
		r.MinX = math.Min(r.MinX, pt.X-rad)
		r.MinY = math.Min(r.MinY, pt.Y-rad)
		r.MaxX = math.Max(r.MaxX, pt.X+rad)
		r.MaxY = math.Max(r.MaxY, pt.Y+rad)
	}
	return r
}

// Normalize returns a copy translated so the bounding box starts at
// (padding, padding).
func (p Positions) Normalize(sizes map[string]float64, padding float64) Positions {
	if len(p) == 0 {
		return Positions{}
	}
	b := p.Bounds(sizes)
	dx, dy := padding-b.MinX, padding-b.MinY
	out := make(Positions, len(p))
	for id, pt := range p {
		out[id] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	return out
}

// Clone returns a copy of p.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for id, pt := range p {
		out[id] = pt
	}
	return out
}

// SeedOptions configures the concentric seed.
type SeedOptions struct {
	Padding        float64 `toml:"padding" json:"padding" validate:"gte=0"`
	MinNodeSpacing float64 `toml:"min_node_spacing" json:"min_node_spacing" validate:"gte=0"`
}

// HierarchicalOptions configures [ModeHierarchical].
type HierarchicalOptions struct {
	RankDir string  `toml:"rank_dir" json:"rank_dir" validate:"oneof=TB BT LR RL"`
	RankSep float64 `toml:"rank_sep" json:"rank_sep" validate:"gte=0"`
	NodeSep float64 `toml:"node_sep" json:"node_sep" validate:"gte=0"`
	EdgeSep float64 `toml:"edge_sep" json:"edge_sep" validate:"gte=0"`
	Padding float64 `toml:"padding" json:"padding" validate:"gte=0"`
}

// PhysicalOptions configures [ModePhysical].
type PhysicalOptions struct {
	MaxSimulationTime time.Duration `toml:"max_simulation_time" json:"max_simulation_time" validate:"gt=0"`
	NodeSpacing       float64       `toml:"node_spacing" json:"node_spacing" validate:"gte=0"`
	AvoidOverlap      bool          `toml:"avoid_overlap" json:"avoid_overlap"`
	Padding           float64       `toml:"padding" json:"padding" validate:"gte=0"`
}

// Options groups the per-mode options.
type Options struct {
	Seed         SeedOptions         `toml:"seed" json:"seed"`
	Hierarchical HierarchicalOptions `toml:"hierarchical" json:"hierarchical"`
	Physical     PhysicalOptions     `toml:"physical" json:"physical"`
}

// DefaultOptions returns the stock layout parameters.
func DefaultOptions() Options {
	return Options{
		Seed: SeedOptions{Padding: 50, MinNodeSpacing: 10},
		Hierarchical: HierarchicalOptions{
			RankDir: "TB",
			RankSep: 50,
			NodeSep: 30,
			EdgeSep: 10,
			Padding: 20,
		},
		Physical: PhysicalOptions{
			MaxSimulationTime: 3 * time.Second,
			NodeSpacing:       20,
			AvoidOverlap:      true,
			Padding:           20,
		},
	}
}

// Padding returns the padding configured for mode.
func (o Options) Padding(mode Mode) float64 {
	switch mode {
	case ModeConcentric:
		return o.Seed.Padding
	case ModeHierarchical:
		return o.Hierarchical.Padding
	default:
		return o.Physical.Padding
	}
}
