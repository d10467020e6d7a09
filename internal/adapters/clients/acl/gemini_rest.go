package acl

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen/zenquote/internal/adapters/clients"
	"github.com/jsamuelsen/zenquote/internal/adapters/generator"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
)

// RESTServiceName identifies the REST generator in logs, errors and health checks.
const RESTServiceName = "gemini-rest"

// APIKeyHeader carries the Gemini API key. A header keeps the key out of
// request URLs, which end up in spans and access logs.
const APIKeyHeader = "x-goog-api-key"

// RESTGeneratorConfig contains configuration for the REST generator.
type RESTGeneratorConfig struct {
	// Client is the HTTP client to use for requests. Its BaseURL should point
	// at the API version root, e.g. https://generativelanguage.googleapis.com/v1beta.
	Client *clients.Client

	// Model is the model name, e.g. gemini-2.5-flash.
	Model string

	Temperature float64

	// Logger is the structured logger.
	Logger *slog.Logger
}

// RESTGenerator implements ports.QuoteGenerator over the Gemini
// models/{model}:generateContent endpoint.
type RESTGenerator struct {
	BaseAdapter
	model       string
	temperature float64
	logger      *slog.Logger
	now         func() time.Time
}

// NewRESTGenerator creates a REST generator.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewRESTGenerator(cfg RESTGeneratorConfig) *RESTGenerator {
	if cfg.Client == nil {
		panic("RESTGenerator: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RESTGenerator{
		BaseAdapter: NewBaseAdapter(cfg.Client, RESTServiceName),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
		now:         time.Now,
	}
}

// APIKeyHeaderFunc returns a clients.Config HeaderFunc that sets the API key.
func APIKeyHeaderFunc(apiKey string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(APIKeyHeader, apiKey)
	}
}

// Wire types for generateContent. Unexported: they never leave this package.
type (
	restPart struct {
		Text string `json:"text,omitempty"`
	}

	restContent struct {
		Role  string     `json:"role,omitempty"`
		Parts []restPart `json:"parts"`
	}

	restGenerationConfig struct {
		Temperature      float64        `json:"temperature,omitempty"`
		ResponseMimeType string         `json:"response_mime_type"`
		ResponseSchema   map[string]any `json:"response_schema"`
	}

	restRequest struct {
		Contents         []restContent        `json:"contents"`
		GenerationConfig restGenerationConfig `json:"generationConfig"`
	}

	restResponse struct {
		Candidates []struct {
			Content struct {
				Parts []restPart `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
	}
)

// Generate implements ports.QuoteGenerator.
func (g *RESTGenerator) Generate(ctx context.Context, category domain.Category) (*domain.Quote, error) {
	path := "/models/" + g.model + ":generateContent"
	g.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", path),
		slog.String("category", category.String()))

	req := restRequest{
		Contents: []restContent{{
			Role:  "user",
			Parts: []restPart{{Text: generator.Prompt(category)}},
		}},
		GenerationConfig: restGenerationConfig{
			Temperature:      g.temperature,
			ResponseMimeType: generator.MIMEType,
			ResponseSchema:   generator.Schema(),
		},
	}

	body, err := g.PostJSON(ctx, path, req, "generate quote", g.model)
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[restResponse](body)
	if err != nil {
		return nil, domain.NewInvalidResponseError(g.ServiceName(), "undecodable body", err)
	}

	g.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("candidates", len(resp.Candidates)))

	return generator.Decode(g.ServiceName(), firstCandidateText(resp), g.now())
}

// firstCandidateText concatenates the text parts of the first candidate.
func firstCandidateText(resp *restResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}

	return b.String()
}

// Name implements ports.HealthChecker.
func (g *RESTGenerator) Name() string {
	return RESTServiceName
}

// Check implements ports.HealthChecker. An open circuit means recent calls
// failed; quotes are being served from the fallback list meanwhile.
func (g *RESTGenerator) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if g.Client().CircuitState() == clients.StateOpen {
		retry := g.Client().CircuitRetryAt().UTC().Format(time.RFC3339)
		return domain.NewUnavailableError(RESTServiceName, "circuit breaker open until "+retry)
	}

	return nil
}
