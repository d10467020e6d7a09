package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/zenquote/internal/platform/config"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/zenquote/internal/adapters/clients"

const (
	defaultTimeout         = 15 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL prefixes every request path, e.g.
	// "https://generativelanguage.googleapis.com/v1beta".
	BaseURL string

	// ServiceName names the downstream in logs, spans and metrics.
	ServiceName string

	// Timeout bounds one request. Zero means 15s.
	Timeout time.Duration

	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// HeaderFunc adds credentials to every request.
	HeaderFunc func(*http.Request)

	Logger *slog.Logger
}

// Client calls one downstream service. Each call is a single attempt: a
// failed quote is cheaper to replace with a fallback than to retry. Calls
// are guarded by a circuit breaker, traced, and carry the caller's request
// and correlation IDs.
type Client struct {
	hc      *http.Client
	baseURL string
	name    string
	auth    func(*http.Request)
	logger  *slog.Logger
	breaker *CircuitBreaker
	tracer  trace.Tracer
	metrics *clientMetrics
}

// New returns a Client for cfg.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("downstream", cfg.ServiceName))

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	metrics, err := loadClientMetrics()
	if err != nil {
		return nil, err
	}

	return &Client{
		hc:      &http.Client{Timeout: timeout, Transport: newTransport(cfg.Transport)},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		name:    cfg.ServiceName,
		auth:    cfg.HeaderFunc,
		logger:  logger,
		breaker: breaker,
		tracer:  otel.Tracer(instrumentationName),
		metrics: metrics,
	}, nil
}

func newTransport(tc config.TransportConfig) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        positive(tc.MaxIdleConns, config.DefaultTransportMaxIdleConns),
		MaxIdleConnsPerHost: positive(tc.MaxIdleConnsPerHost, config.DefaultTransportMaxIdleConnsPerHost),
		IdleConnTimeout:     positive(tc.IdleConnTimeout, defaultIdleConnTimeout),
	}
}

func positive[T int | time.Duration](v, fallback T) T {
	if v > 0 {
		return v
	}

	return fallback
}

// PostJSON posts in, encoded as JSON, to path under the base URL.
func (c *Client) PostJSON(ctx context.Context, path string, in any) (*http.Response, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.Do(ctx, req)
}

// Do sends req once. Any response is returned for the caller to map, error
// statuses included. The error is ErrCircuitOpen when the breaker refused
// the call, or wraps ErrRequestFailed when no response arrived. Transport
// failures, 429 and 5xx count against the breaker.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.breaker.Allow() {
		c.metrics.record(ctx, c.name, req.Method, 0, "circuit_open", 0)
		logger.Warn("request blocked by circuit breaker", slog.Time("retry_at", c.breaker.RetryAt()))
		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("url.path", req.URL.Path),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	c.decorate(ctx, req)

	resp, err := c.hc.Do(req.WithContext(ctx))
	elapsed := time.Since(start)

	if err != nil {
		c.breaker.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.record(ctx, c.name, req.Method, 0, outcome(0, err), elapsed)
		logger.Warn("request failed", slog.Duration("duration", elapsed), slog.Any("error", err))

		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	if countsAgainstBreaker(resp.StatusCode) {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	c.metrics.record(ctx, c.name, req.Method, resp.StatusCode, outcome(resp.StatusCode, nil), elapsed)
	logger.Debug("request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

	return resp, nil
}

// decorate sets the tracing, ID and credential headers.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if c.auth != nil {
		c.auth(req)
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// CircuitState returns the breaker state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// CircuitRetryAt returns when an open breaker next lets a call through, or
// the zero time when it is not open.
func (c *Client) CircuitRetryAt() time.Time {
	return c.breaker.RetryAt()
}

// ServiceName returns the downstream name.
func (c *Client) ServiceName() string {
	return c.name
}

func countsAgainstBreaker(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// outcome is the result label: the status class, or why no status arrived.
func outcome(status int, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case err != nil || status == 0:
		return "error"
	}

	return strconv.Itoa(status/100) + "xx"
}

type clientMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

var loadClientMetrics = sync.OnceValues(func() (*clientMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of downstream HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	total, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Downstream HTTP requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &clientMetrics{duration: duration, total: total}, nil
})

func (m *clientMetrics) record(ctx context.Context, service, method string, status int, result string, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", service),
		attribute.String("result", result),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	m.duration.Record(ctx, elapsed.Seconds(), opt)
	m.total.Add(ctx, 1, opt)
}
