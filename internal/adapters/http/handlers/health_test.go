package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/ports"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string {
	return s.name
}

func (s stubChecker) Check(context.Context) error {
	return s.err
}

func newOpsEngine(t *testing.T, critical, optional error) *gin.Engine {
	t.Helper()

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(stubChecker{name: "storage", err: critical}))
	require.NoError(t, registry.RegisterOptional(stubChecker{name: "generator", err: optional}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "zenquote_test_total", Help: "test"}))

	engine := gin.New()
	NewHealthHandler(registry, NewBuildInfo("1.2.3", "abc123", "2024-01-15T10:00:00Z"), reg).RegisterRoutes(engine)

	return engine
}

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2024-01-15T10:00:00Z")

	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
}

func TestHealthHandler_Liveness(t *testing.T) {
	engine := newOpsEngine(t, nil, errors.New("quota exceeded"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		critical   error
		optional   error
		wantCode   int
		wantStatus string
	}{
		{"healthy", nil, nil, http.StatusOK, "healthy"},
		{"generator down is degraded but ready", nil, errors.New("circuit open"), http.StatusOK, "degraded"},
		{"storage down is not ready", errors.New("database locked"), nil, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newOpsEngine(t, tt.critical, tt.optional)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

			assert.Equal(t, tt.wantCode, w.Code)

			var resp readinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, 2)
			assert.True(t, resp.Checks["generator"].Optional)
		})
	}
}

func TestHealthHandler_Build(t *testing.T) {
	engine := newOpsEngine(t, nil, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/build", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var bi BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bi))
	assert.Equal(t, "1.2.3", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
}

func TestHealthHandler_Metrics(t *testing.T) {
	engine := newOpsEngine(t, nil, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "zenquote_test_total")
}
