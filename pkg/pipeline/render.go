package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/render"
	"github.com/matzehuels/movegraph/pkg/render/nodelink"
	"github.com/matzehuels/movegraph/pkg/render/scene"
)

// BuildScene styles g at opts.Zoom using the final positions of res.
func BuildScene(g *graph.Graph, res layout.Result, opts Options) scene.Scene {
	opts.SetDefaults()
	sc := scene.Build(g, opts.Style, res.Final(), opts.Zoom)
	sc.Mode = res.Mode
	return sc
}

// Render writes the scene in every requested format. PNG and PDF reuse the
// SVG when it is also requested.
func Render(ctx context.Context, sc scene.Scene, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	dot := nodelink.ToDOT(sc, nodelink.Options{Detailed: opts.Detailed})

	var svg []byte
	getSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data, err = getSVG()
		case FormatPNG:
			if data, err = getSVG(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		case FormatPDF:
			if data, err = getSVG(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			var buf bytes.Buffer
			err = scene.WriteJSON(&buf, sc)
			data = buf.Bytes()
		case FormatCytoscape:
			var buf bytes.Buffer
			err = scene.WriteCytoscape(&buf, sc)
			data = buf.Bytes()
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
