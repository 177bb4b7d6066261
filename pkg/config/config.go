package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/movegraph/pkg/cache"
	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/httputil"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/style"
)

// Config is the complete settings tree.
type Config struct {
	Style  style.Config `toml:"style"`
	Layout LayoutConfig `toml:"layout"`
	Source SourceConfig `toml:"source"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig selects the engine family and default mode.
type LayoutConfig struct {
	Engine string `toml:"engine" validate:"oneof=graphviz native"`
	Mode   string `toml:"mode" validate:"oneof=concentric dagre cola hierarchical physical"`
	layout.Options
}

// SourceConfig says where the moveset comes from.
type SourceConfig struct {
	Kind       string        `toml:"kind" validate:"oneof=file http mongo"`
	Path       string        `toml:"path" validate:"required_if=Kind file"`
	URL        string        `toml:"url" validate:"required_if=Kind http"`
	MongoURI   string        `toml:"mongo_uri" validate:"required_if=Kind mongo"`
	Database   string        `toml:"database" validate:"required_if=Kind mongo"`
	Collection string        `toml:"collection" validate:"required_if=Kind mongo"`
	NameField  string        `toml:"name_field"`
	Timeout    time.Duration `toml:"timeout" validate:"gte=0"`
	Attempts   int           `toml:"attempts" validate:"gte=0"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend" validate:"oneof=file redis none"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db" validate:"gte=0"`
	Prefix        string        `toml:"prefix"`
	LayoutTTL     time.Duration `toml:"layout_ttl" validate:"gte=0"`
	ArtifactTTL   time.Duration `toml:"artifact_ttl" validate:"gte=0"`
}

// ServerConfig configures `movegraph serve`.
type ServerConfig struct {
	Addr      string        `toml:"addr" validate:"required"`
	StaticDir string        `toml:"static_dir"`
	Watch     bool          `toml:"watch"`
	Debounce  time.Duration `toml:"debounce" validate:"gte=0"`
	RateLimit float64       `toml:"rate_limit" validate:"gte=0"` // layout requests per second, 0 disables
	Burst     int           `toml:"burst" validate:"gte=0"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Style: style.DefaultConfig(),
		Layout: LayoutConfig{
			Engine:  "graphviz",
			Mode:    string(layout.ModePhysical),
			Options: layout.DefaultOptions(),
		},
		Source: SourceConfig{
			Kind:     "file",
			Path:     "moveset.json",
			Timeout:  httputil.DefaultTimeout,
			Attempts: 3,
		},
		Cache: CacheConfig{
			Backend:     "file",
			LayoutTTL:   cache.LayoutTTL,
			ArtifactTTL: cache.ArtifactTTL,
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8050",
			StaticDir: "static",
			Debounce:  250 * time.Millisecond,
			RateLimit: 5,
			Burst:     10,
		},
	}
}

// Dir returns $XDG_CONFIG_HOME/movegraph, falling back to ~/.config.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "movegraph")
}

// DefaultPath returns the config file in [Dir].
func DefaultPath() string { return filepath.Join(Dir(), "config.toml") }

// Load reads path, or the default location when path is empty, over the
// defaults. A missing default file yields the defaults; a missing explicit
// file is an error. It returns the file actually read ("" for none).
func Load(path string) (*Config, string, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	meta, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, "", mgerrors.Wrap(mgerrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, "", cfg.Validate()
	}
	if err != nil {
		return nil, "", mgerrors.Wrap(mgerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, "", mgerrors.New(mgerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Save writes cfg as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

var validate = validator.New()

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return mgerrors.New(mgerrors.ErrCodeInvalidConfig, "%s", formatValidationError(err))
	}
	if c.Source.Kind == "http" {
		if err := mgerrors.ValidateURL(c.Source.URL); err != nil {
			return mgerrors.Wrap(mgerrors.ErrCodeInvalidConfig, err, "source.url")
		}
	}
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	// Config.Style.MaxFontSize → style.maxfontsize
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
	switch e.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color, got %q", field, e.Value())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"gt": ">", "gte": ">="}[e.Tag()], e.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, strings.ToLower(e.Param()))
	default:
		return field + " is invalid"
	}
}

// Mode returns the configured default layout mode.
func (c *Config) Mode() layout.Mode { return layout.ParseMode(c.Layout.Mode) }

// OpenSource builds the moveset source described by the [source] section.
func (c *Config) OpenSource(logger *log.Logger) (moves.Source, error) {
	s := c.Source
	switch s.Kind {
	case "", "file":
		return moves.FileSource{Path: s.Path}, nil
	case "http":
		client := httputil.NewClient(httputil.ClientOptions{
			Timeout:  s.Timeout,
			Attempts: s.Attempts,
			Logger:   logger,
		})
		src, err := moves.NewHTTPSource(s.URL, client)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "mongo":
		return moves.MongoSource{
			URI:        s.MongoURI,
			Database:   s.Database,
			Collection: s.Collection,
			NameField:  s.NameField,
			Logger:     logger,
		}, nil
	default:
		return nil, mgerrors.New(mgerrors.ErrCodeInvalidConfig, "unknown source kind %q", s.Kind)
	}
}

// OpenCache builds the cache described by the [cache] section, instrumented
// for the observability hooks.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	cc := c.Cache
	switch cc.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
		if err != nil {
			return nil, mgerrors.Wrap(mgerrors.ErrCodeNetwork, err, "open redis cache")
		}
		return cache.Instrument(rc), nil
	default:
		dir := cc.Dir
		if dir == "" {
			var err error
			if dir, err = cache.DefaultDir(); err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(fc), nil
	}
}

// Keyer returns the cache keyer, scoped by the configured prefix.
func (c *Config) Keyer() cache.Keyer { return cache.NewScopedKeyer(nil, c.Cache.Prefix) }
