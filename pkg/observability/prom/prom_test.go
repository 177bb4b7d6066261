package prom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/movegraph/pkg/observability"
)

func TestCollectorHooks(t *testing.T) {
	defer observability.Reset()

	c := NewCollector("test")
	c.Register()
	ctx := context.Background()

	observability.Pipeline().OnLoadComplete(ctx, "file:moveset.json", 12, time.Millisecond, nil)
	observability.Pipeline().OnLayoutComplete(ctx, "cola", time.Second, nil)
	observability.Pipeline().OnLayoutComplete(ctx, "cola", time.Second, context.Canceled)
	observability.Cache().OnCacheHit(ctx, "layout")
	observability.Cache().OnCacheMiss(ctx, "layout")
	observability.Cache().OnCacheSet(ctx, "artifact", 2048)
	observability.HTTP().OnResponse(ctx, "GET", "example.com", "/moveset", 200, time.Millisecond)
	observability.HTTP().OnError(ctx, "GET", "example.com", "/moveset", errors.New("refused"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Loads.WithLabelValues("ok")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.GraphNodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Layouts.WithLabelValues("cola", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Layouts.WithLabelValues("cola", "canceled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHits.WithLabelValues("layout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheMisses.WithLabelValues("layout")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(c.CacheBytes.WithLabelValues("artifact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("example.com", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPErrors.WithLabelValues("example.com")))
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector("test")
	c.ObserveRequest("GET", "/api/graph", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_http_requests_total{method="GET",route="/api/graph",status="200"} 1`))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("test")
	b := NewCollector("test")
	a.Renders.WithLabelValues("ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Renders.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Renders.WithLabelValues("ok")))
}
