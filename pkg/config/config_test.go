package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/movegraph/pkg/cache"
	"github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.ModePhysical, cfg.Mode())
	assert.Equal(t, 3*time.Second, cfg.Layout.Physical.MaxSimulationTime)
	assert.Equal(t, "#5050a0", cfg.Style.Background)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoad_DefaultLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "movegraph", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[layout]\nmode = \"dagre\"\n"), 0o644))

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, layout.ModeHierarchical, cfg.Mode())
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
[style]
edge_color = "#ffffff"
curve = "taxi"

[style.palette]
Sweep = "#9467bd"

[layout]
engine = "native"

[layout.physical]
max_simulation_time = "1500ms"

[server]
watch = true
`)
	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	assert.Equal(t, "#ffffff", cfg.Style.EdgeColor)
	assert.Equal(t, "#9467bd", cfg.Style.Palette["Sweep"])
	assert.Equal(t, 30.0, cfg.Style.BaseDiameter, "unset keys keep defaults")
	assert.Equal(t, "native", cfg.Layout.Engine)
	assert.Equal(t, 1500*time.Millisecond, cfg.Layout.Physical.MaxSimulationTime)
	assert.Equal(t, 50.0, cfg.Layout.Hierarchical.RankSep)
	assert.True(t, cfg.Server.Watch)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad color", "[style]\nedge_color = \"teal\"\n", "style.edgecolor must be a hex color"},
		{"bad engine", "[layout]\nengine = \"elk\"\n", "layout.engine must be one of"},
		{"font range", "[style]\nmax_font_size = 2.0\n", "style.maxfontsize must not be less than minfontsize"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", "cache.redisaddr is required"},
		{"unknown key", "[server]\nport = 80\n", "unknown keys: server.port"},
		{"syntax", "[style\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "code = %s", errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_HTTPSourceURL(t *testing.T) {
	cfg := Default()
	cfg.Source.Kind = "http"
	cfg.Source.URL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg.Source.URL = "https://example.com/moveset"
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Layout.Mode = "concentric"
	cfg.Cache.Backend = "none"
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, Save(cfg, path))
	got, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestOpenSource(t *testing.T) {
	cfg := Default()
	src, err := cfg.OpenSource(nil)
	require.NoError(t, err)
	assert.Equal(t, moves.FileSource{Path: "moveset.json"}, src)

	cfg.Source = SourceConfig{Kind: "http", URL: "https://example.com/moveset.yaml"}
	src, err = cfg.OpenSource(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/moveset.yaml", src.Describe())

	cfg.Source = SourceConfig{Kind: "mongo", MongoURI: "mongodb://localhost", Database: "bjj", Collection: "moves"}
	src, err = cfg.OpenSource(nil)
	require.NoError(t, err)
	assert.Equal(t, "mongodb:bjj.moves", src.Describe())

	cfg.Source.Kind = "ftp"
	_, err = cfg.OpenSource(nil)
	assert.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	cfg := Default()

	cfg.Cache.Backend = "none"
	c, err := cfg.OpenCache(ctx)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, c)

	cfg.Cache.Backend = "file"
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	data, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(data))
}

func TestKeyer(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cache.NewDefaultKeyer().GraphKey("h"), cfg.Keyer().GraphKey("h"))

	cfg.Cache.Prefix = "studio:"
	assert.Equal(t, "studio:"+cache.NewDefaultKeyer().GraphKey("h"), cfg.Keyer().GraphKey("h"))
}
