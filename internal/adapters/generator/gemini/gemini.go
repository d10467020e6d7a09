// Package gemini implements ports.QuoteGenerator with the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/jsamuelsen/zenquote/internal/adapters/generator"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
)

// ServiceName identifies this generator in logs, errors and health checks.
const ServiceName = "gemini"

// Config configures the SDK generator.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Logger      *slog.Logger
}

// models is the subset of *genai.Models the generator calls.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator asks a Gemini model for one structured quote.
type Generator struct {
	models      models
	model       string
	temperature float32
	logger      *slog.Logger
	now         func() time.Time
}

// New creates an SDK-backed generator.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if cfg.Model == "" {
		return nil, errors.New("gemini model is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return newWithModels(client.Models, cfg), nil
}

func newWithModels(m models, cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		models:      m,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger.With(slog.String("component", "gemini.Generator")),
		now:         time.Now,
	}
}

// Generate implements ports.QuoteGenerator.
func (g *Generator) Generate(ctx context.Context, category domain.Category) (*domain.Quote, error) {
	g.logger.Log(ctx, logging.LevelTrace, "generating quote",
		slog.String("model", g.model),
		slog.String("category", category.String()),
	)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(generator.Prompt(category)), g.requestConfig())
	if err != nil {
		return nil, mapError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, domain.NewInvalidResponseError(ServiceName, "no candidates", nil)
	}

	return generator.Decode(ServiceName, resp.Text(), g.now())
}

func (g *Generator) requestConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: generator.MIMEType,
		ResponseSchema:   Schema(),
	}
}

// Name implements ports.HealthChecker.
func (g *Generator) Name() string {
	return ServiceName
}

// Check implements ports.HealthChecker. It does not spend quota on a live
// call; a configured client is healthy, and outages are absorbed by the
// fallback list anyway.
func (g *Generator) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if g.models == nil {
		return domain.NewUnavailableError(ServiceName, "client not configured")
	}

	return nil
}

// Schema returns the structured-output schema in SDK form.
func Schema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": {
				Type:        genai.TypeString,
				Description: "The quote itself, without surrounding quotation marks.",
			},
			"author": {
				Type:        genai.TypeString,
				Description: "The person the quote is attributed to.",
			},
		},
		Required:         []string{"text", "author"},
		PropertyOrdering: []string{"text", "author"},
	}
}

// mapError translates SDK failures into domain errors.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return domain.NewUnavailableError(ServiceName, "rate limit exceeded")
		case apiErr.Code >= http.StatusInternalServerError:
			return domain.NewUnavailableError(ServiceName, apiErr.Message)
		default:
			return domain.NewUnavailableError(ServiceName,
				fmt.Sprintf("request rejected with status %d: %s", apiErr.Code, apiErr.Message))
		}
	}

	return domain.NewUnavailableError(ServiceName, err.Error())
}
