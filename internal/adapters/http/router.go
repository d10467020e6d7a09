package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/zenquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/zenquote/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when no timeout is configured.
// It must exceed the generator timeout so the fallback quote can still be served.
const DefaultRequestTimeout = 20 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	// Timeout is the deadline for /api/v1 requests.
	Timeout time.Duration

	Health      *handlers.HealthHandler
	Quotes      *handlers.QuoteHandler
	Widget      *handlers.WidgetHandler
	Bookmarks   *handlers.BookmarkHandler
	Preferences *handlers.PreferencesHandler
	Share       *handlers.ShareHandler
}

// apiRoutes is implemented by every /api/v1 handler.
type apiRoutes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware order (first to last):
//  1. Recovery
//  2. Context logger, request ID, correlation ID
//  3. OpenTelemetry tracing and HTTP metrics
//  4. Logging (skips /-/ paths)
//  5. Timeout (API routes only)
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.Use(
		middleware.Recovery(logger),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(logger),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.Timeout(timeout))

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers the widget API. Nil handlers are skipped.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	routes := []apiRoutes{}

	if cfg.Quotes != nil {
		routes = append(routes, cfg.Quotes)
	}
	if cfg.Widget != nil {
		routes = append(routes, cfg.Widget)
	}
	if cfg.Bookmarks != nil {
		routes = append(routes, cfg.Bookmarks)
	}
	if cfg.Preferences != nil {
		routes = append(routes, cfg.Preferences)
	}
	if cfg.Share != nil {
		routes = append(routes, cfg.Share)
	}

	for _, r := range routes {
		r.RegisterRoutes(rg)
	}
}
