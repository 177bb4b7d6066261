package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/movegraph/pkg/cache"
	"github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
)

const guardPass = `{
	"Guard": {"type": "Guard", "children": ["Pass", "Ghost"]},
	"Pass":  {"type": "Pass", "parents": ["Guard"]}
}`

func writeMoveset(t *testing.T, data string) moves.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moveset.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return moves.FileSource{Path: path}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"cytoscape", false},
		{"SVG", true},
		{"gif", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Mode != "cola" || opts.Zoom != 1 || opts.Scale != 2 {
		t.Errorf("defaults = mode %s zoom %v scale %v", opts.Mode, opts.Zoom, opts.Scale)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Style.BaseDiameter != 30 || opts.Layout.Seed.Padding != 50 {
		t.Error("style and layout defaults not applied")
	}

	bad := Options{Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid format should fail validation")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	if opts.ArtifactKeyOpts(FormatSVG).Scale != 0 {
		t.Error("scale should only key PNG artifacts")
	}
	if opts.ArtifactKeyOpts(FormatPNG).Scale != 2 {
		t.Error("PNG key should carry the scale")
	}
}

func TestNewEngine(t *testing.T) {
	for _, name := range []string{"", EngineGraphviz, EngineNative} {
		if _, err := NewEngine(name, nil); err != nil {
			t.Errorf("NewEngine(%q): %v", name, err)
		}
	}
	if _, err := NewEngine("elk", nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewEngine(elk) = %v", err)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil, nil)
	src := writeMoveset(t, guardPass)
	opts := Options{Mode: "dagre", Formats: []string{FormatDOT, FormatJSON, FormatCytoscape}}

	res, err := r.Execute(ctx, src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.NodeCount != 2 || res.Stats.EdgeCount != 1 {
		t.Errorf("graph = %d nodes %d edges, want 2 and 1", res.Stats.NodeCount, res.Stats.EdgeCount)
	}
	if res.Layout.Mode != layout.ModeHierarchical || !res.Layout.Refined {
		t.Errorf("layout = %s refined=%v", res.Layout.Mode, res.Layout.Refined)
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run should miss every cache: %+v", res.CacheInfo)
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"Guard" -> "Pass"`) {
		t.Errorf("DOT missing edge:\n%s", res.Artifacts[FormatDOT])
	}

	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil || len(doc.Nodes) != 2 {
		t.Errorf("scene JSON = %s (%v)", res.Artifacts[FormatJSON], err)
	}

	again, err := r.Execute(ctx, src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.GraphHit || !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit every cache: %+v", again.CacheInfo)
	}
	if string(again.Artifacts[FormatDOT]) != string(res.Artifacts[FormatDOT]) {
		t.Error("cached DOT differs from the rendered one")
	}

	opts.Refresh = true
	fresh, _ := r.Execute(ctx, src, opts)
	if fresh.CacheInfo != (CacheInfo{}) {
		t.Errorf("refresh should bypass cache reads: %+v", fresh.CacheInfo)
	}
}

func TestExecute_EmptyMoveset(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), writeMoveset(t, "{}"), Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Graph.NodeCount() != 0 || res.Layout.Positions != nil {
		t.Error("empty moveset should produce no nodes and no positions")
	}
}

func TestExecute_LoadError(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	_, err := r.Execute(context.Background(), moves.FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, Options{})
	if err == nil {
		t.Fatal("missing moveset should fail")
	}
}

func TestLayout_ConcentricIsCached(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil, nil)
	g, _ := r.Build(ctx, mustParse(t, guardPass), Options{})

	opts := Options{Mode: "concentric"}
	first, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil || hit {
		t.Fatalf("first layout: hit=%v err=%v", hit, err)
	}
	second, hit, _ := r.LayoutWithCacheInfo(ctx, g, opts)
	if !hit {
		t.Fatal("second concentric layout should hit the cache")
	}
	for id, p := range first.Final() {
		if second.Final()[id] != p {
			t.Errorf("cached position for %s = %v, want %v", id, second.Final()[id], p)
		}
	}
}

func TestLayout_UnavailableNotCached(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, layout.Router{}, nil)
	g, _ := r.Build(ctx, mustParse(t, guardPass), Options{})

	res, _, err := r.LayoutWithCacheInfo(ctx, g, Options{Mode: "cola"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Refined || len(res.Final()) != 2 {
		t.Errorf("unavailable engine should leave the seed: refined=%v", res.Refined)
	}
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, g, Options{Mode: "cola"}); hit {
		t.Error("unrefined layout should not be cached")
	}
}

func mustParse(t *testing.T, data string) moves.Moveset {
	t.Helper()
	ms, err := moves.Parse([]byte(data), moves.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	return ms
}
