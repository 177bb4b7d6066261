// Package pipeline provides the batch path from a moveset to rendered
// diagrams, shared by the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline has four stages:
//
//  1. Load: read the moveset from a [moves.Source]
//  2. Build: turn it into a [graph.Graph]
//  3. Layout: seed and refine node positions for a layout mode
//  4. Render: style the scene and write SVG, PNG, PDF, DOT or JSON
//
// Build, layout and render results are cached under content-hash keys, so a
// second run over an unchanged moveset only pays for the load.
//
// # Usage
//
//	engine, _ := pipeline.NewEngine(pipeline.EngineGraphviz, logger)
//	runner := pipeline.NewRunner(c, nil, engine, logger)
//	result, err := runner.Execute(ctx, moves.FileSource{Path: "moveset.json"}, pipeline.Options{
//	    Mode:    "dagre",
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can also run on their own: [Runner.Build], [Runner.Layout] and
// [Runner.Render].
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/movegraph/pkg/cache"
	"github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/render/scene"
	"github.com/matzehuels/movegraph/pkg/style"
)

const (
	// DefaultZoom is the zoom level static renders are styled at.
	DefaultZoom = 1.0

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultMode is used when no layout mode is requested.
	DefaultMode = layout.ModePhysical
)

// Output formats.
const (
	FormatSVG       = "svg"
	FormatPNG       = "png"
	FormatPDF       = "pdf"
	FormatDOT       = "dot"
	FormatJSON      = "json"      // scene JSON
	FormatCytoscape = "cytoscape" // Cytoscape.js elements and stylesheet
)

// Formats lists every output format in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON, FormatCytoscape}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatCytoscape {
		return "cy.json"
	}
	return format
}

// Options configures a pipeline run.
type Options struct {
	Mode     string   `json:"mode,omitempty"`
	Zoom     float64  `json:"zoom,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // type and area under each label
	Scale    float64  `json:"scale,omitempty"`    // PNG only
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cache reads

	Style  style.Config   `json:"-"`
	Layout layout.Options `json:"-"`
	Logger *log.Logger    `json:"-"`

	validated bool
}

// Result holds everything a pipeline run produced.
type Result struct {
	Moveset   moves.Moveset
	Graph     *graph.Graph
	GraphHash string
	Layout    layout.Result
	Scene     scene.Scene
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage timings.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	GraphHit  bool
	LayoutHit bool
	RenderHit bool // every requested artifact was cached
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults fills zero fields and validates formats. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields without validating.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = string(DefaultMode)
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style.BaseDiameter == 0 {
		o.Style = style.DefaultConfig()
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// LayoutMode returns the resolved layout mode.
func (o *Options) LayoutMode() layout.Mode { return layout.ParseMode(o.Mode) }

// LayoutKeyOpts returns the cache key inputs for a layout by engine.
func (o *Options) LayoutKeyOpts(engine string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Mode:    string(o.LayoutMode()),
		Engine:  engine,
		Options: cache.HashJSON(o.Layout),
		Sizing:  cache.HashJSON([]float64{o.Style.BaseDiameter, o.Style.PerEdgeIncrement}),
	}
}

// ArtifactKeyOpts returns the cache key inputs for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Style:    cache.HashJSON(o.Style),
		Zoom:     o.Zoom,
		Detailed: o.Detailed,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
