package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/movegraph/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil || ok || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, ok, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	if err := c.Set(ctx, "k", []byte("hello"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "hello" {
		t.Fatalf("Get = %q, %v, %v", data, ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("{not json"), 0o644)

	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("corrupt entry: ok=%v err=%v, want miss", ok, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	type payload struct{ N int }
	var got payload
	if err := GetJSON(ctx, c, "p", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("GetJSON on empty cache = %v, want ErrCacheMiss", err)
	}

	if err := SetJSON(ctx, c, "p", payload{N: 7}, 0); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "p", &got); err != nil || got.N != 7 {
		t.Errorf("GetJSON = %+v, %v", got, err)
	}

	_ = c.Set(ctx, "bad", []byte("nope"), 0)
	if err := GetJSON(ctx, c, "bad", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("undecodable entry = %v, want ErrCacheMiss", err)
	}
	if _, ok, _ := c.Get(ctx, "bad"); ok {
		t.Error("undecodable entry should be deleted")
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if n := len(Hash(nil)); n != 64 {
		t.Errorf("Hash length = %d, want 64", n)
	}
	if HashJSON(func() {}) != "" {
		t.Error("HashJSON of an unencodable value should be empty")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if gk := k.GraphKey("abc"); !strings.HasPrefix(gk, "graph:") || gk != k.GraphKey("abc") {
		t.Errorf("GraphKey = %s", gk)
	}

	lk1 := k.LayoutKey("h", LayoutKeyOpts{Mode: "dagre", Engine: "graphviz"})
	lk2 := k.LayoutKey("h", LayoutKeyOpts{Mode: "cola", Engine: "graphviz"})
	if lk1 == lk2 {
		t.Error("different modes should produce different layout keys")
	}

	ak1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("different formats should produce different artifact keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "studio:")
	if key := scoped.GraphKey("abc"); key != "studio:"+NewDefaultKeyer().GraphKey("abc") {
		t.Errorf("GraphKey = %s", key)
	}
	if _, ok := NewScopedKeyer(nil, "").(DefaultKeyer); !ok {
		t.Error("empty prefix should return the inner keyer")
	}
}

func TestKindOf(t *testing.T) {
	k := NewDefaultKeyer()
	tests := map[string]string{
		k.GraphKey("x"):                                   KindGraph,
		k.LayoutKey("x", LayoutKeyOpts{}):                 KindLayout,
		"studio:" + k.ArtifactKey("x", ArtifactKeyOpts{}): KindArtifact,
		"random": "other",
	}
	for key, want := range tests {
		if got := KindOf(key); got != want {
			t.Errorf("KindOf(%s) = %s, want %s", key, got, want)
		}
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, s)
}

func (h *recordingHooks) OnCacheHit(_ context.Context, kind string)        { h.add("hit:" + kind) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, kind string)       { h.add("miss:" + kind) }
func (h *recordingHooks) OnCacheSet(_ context.Context, kind string, _ int) { h.add("set:" + kind) }

func TestInstrument(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := Instrument(fc)
	key := NewDefaultKeyer().LayoutKey("g", LayoutKeyOpts{Mode: "cola"})

	_, _, _ = c.Get(ctx, key)
	_ = c.Set(ctx, key, []byte("{}"), 0)
	_, _, _ = c.Get(ctx, key)

	want := []string{"miss:layout", "set:layout", "hit:layout"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
	if Instrument(nil) != nil {
		t.Error("Instrument(nil) should be nil")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("MOVEGRAPH_REDIS_ADDR")
	if addr == "" {
		t.Skip("MOVEGRAPH_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := NewScopedKeyer(nil, "movegraph-test:").GraphKey("k")
	if _, ok, err := c.Get(ctx, key+"-missing"); ok || err != nil {
		t.Fatalf("Get missing: ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, ok, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
}
