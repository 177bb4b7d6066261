package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/movegraph/pkg/observability"
)

// Default TTLs for cached products.
const (
	GraphTTL    = 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. A zero TTL never expires.
// Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for pipeline products.
type Keyer interface {
	GraphKey(movesetHash string) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the graph that change a layout.
type LayoutKeyOpts struct {
	Mode    string `json:"mode"`
	Engine  string `json:"engine"`
	Options string `json:"options,omitempty"` // hash of layout.Options
	Sizing  string `json:"sizing,omitempty"`  // hash of diameter settings
}

// ArtifactKeyOpts are the inputs besides the layout that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style,omitempty"` // hash of style.Config
	Zoom     float64 `json:"zoom,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:sha256(inputs)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns the key for the graph built from a moveset.
func (DefaultKeyer) GraphKey(movesetHash string) string {
	return hashKey(KindGraph, movesetHash)
}

// LayoutKey returns the key for a layout of a graph.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, graphHash, opts)
}

// ArtifactKey returns the key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}

// Key kinds, used as key prefixes and metric labels.
const (
	KindGraph    = "graph"
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// KindOf extracts the kind from a key, skipping any scope prefix.
func KindOf(key string) string {
	for _, kind := range []string{KindGraph, KindLayout, KindArtifact} {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return "other"
}

type instrumented struct {
	Cache
}

// Instrument reports cache traffic to the observability cache hooks.
func Instrument(c Cache) Cache {
	if c == nil {
		return nil
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KindOf(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KindOf(key))
		}
	}
	return data, ok, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KindOf(key), len(data))
	return nil
}
