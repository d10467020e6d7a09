package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestQuoteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := NewQuoteMetrics(reg)
	require.NoError(t, err)

	m.ObserveQuote(SourceRemote, "Happiness", 120*time.Millisecond)
	m.ObserveQuote(SourceFallback, "Happiness", time.Millisecond)
	m.ObserveQuote(SourceFallback, "Happiness", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.served.WithLabelValues(SourceRemote, "Happiness")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.served.WithLabelValues(SourceFallback, "Happiness")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestQuoteMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewQuoteMetrics(reg)
	require.NoError(t, err)

	_, err = NewQuoteMetrics(reg)
	assert.Error(t, err)
}

func TestMiddleware_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(TracingMiddleware("zenquote-test"), Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestMiddleware_EchoesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	r := gin.New()
	r.Use(TracingMiddleware("zenquote-test"), Middleware())
	r.GET("/api/v1/widget", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/widget", http.NoBody))

	assert.Len(t, w.Header().Get(HeaderTraceID), 32)
}

func TestMiddleware_OpsRoutesPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/-/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got []string
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		got = append(got, route(c))
	})
	r.GET("/api/v1/bookmarks/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/bookmarks/abc", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	assert.Equal(t, []string{"/api/v1/bookmarks/:id", unmatchedRoute}, got)
}
