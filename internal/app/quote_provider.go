package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

// Quote sources reported to QuoteMetrics.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// DefaultFetchTimeout bounds one generator call when no timeout is configured.
const DefaultFetchTimeout = 15 * time.Second

// QuoteMetrics observes served quotes.
type QuoteMetrics interface {
	ObserveQuote(source, category string, elapsed time.Duration)
}

// QuoteSource yields a quote for a category. It never fails.
type QuoteSource interface {
	Fetch(ctx context.Context, category domain.Category) *domain.Quote
}

// QuoteProviderConfig contains configuration for the quote provider.
type QuoteProviderConfig struct {
	// Generator is the remote generator. Nil means every fetch uses the fallback list.
	Generator ports.QuoteGenerator

	// Timeout bounds each generator call.
	Timeout time.Duration

	// Metrics is optional.
	Metrics QuoteMetrics

	Logger *slog.Logger
}

// QuoteProvider asks the generator for a quote and falls back to a uniform
// random pick from the fallback list on any failure.
type QuoteProvider struct {
	generator ports.QuoteGenerator
	timeout   time.Duration
	metrics   QuoteMetrics
	logger    *slog.Logger
	now       func() time.Time
	pick      func(n int) int
}

// NewQuoteProvider creates a quote provider.
func NewQuoteProvider(cfg QuoteProviderConfig) *QuoteProvider {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &QuoteProvider{
		generator: cfg.Generator,
		timeout:   timeout,
		metrics:   cfg.Metrics,
		logger:    logger.With(slog.String("component", "app.QuoteProvider")),
		now:       time.Now,
		pick:      rand.IntN,
	}
}

// Fetch returns a quote for category. It always returns a non-nil quote with
// non-empty text and author; generator failures are logged and swallowed.
func (p *QuoteProvider) Fetch(ctx context.Context, category domain.Category) *domain.Quote {
	start := p.now()

	if p.generator != nil {
		q, err := p.generate(ctx, category)
		if err == nil {
			p.observe(SourceRemote, category, start)
			return q
		}

		logging.FromContextOr(ctx, p.logger).WarnContext(ctx, "quote generator failed, serving fallback",
			slog.String("category", category.String()),
			slog.Any("error", err),
		)
	}

	q := p.fallback()
	p.observe(SourceFallback, category, start)

	return q
}

func (p *QuoteProvider) generate(ctx context.Context, category domain.Category) (*domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	q, err := p.generator.Generate(ctx, category)
	if err != nil {
		return nil, err
	}

	if q == nil || strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.Author) == "" {
		return nil, domain.NewInvalidResponseError("generator", "quote is missing text or author", nil)
	}

	if q.ID == "" {
		return domain.NewQuote(q.Text, q.Author, p.now())
	}

	return q, nil
}

// fallback cannot fail: every entry in the list has non-blank fields.
func (p *QuoteProvider) fallback() *domain.Quote {
	f := fallbackQuotes[p.pick(len(fallbackQuotes))]

	q, err := domain.NewQuote(f.Text, f.Author, p.now())
	if err != nil {
		panic("fallback quote is invalid: " + err.Error())
	}

	return q
}

func (p *QuoteProvider) observe(source string, category domain.Category, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveQuote(source, category.String(), p.now().Sub(start))
	}
}
