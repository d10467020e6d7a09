package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/zenquote/internal/adapters/clients"
	"github.com/jsamuelsen/zenquote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/zenquote/internal/adapters/desktop"
	"github.com/jsamuelsen/zenquote/internal/adapters/generator/gemini"
	"github.com/jsamuelsen/zenquote/internal/adapters/storage/bolt"
	"github.com/jsamuelsen/zenquote/internal/adapters/storage/memory"
	"github.com/jsamuelsen/zenquote/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/platform/config"
	"github.com/jsamuelsen/zenquote/internal/platform/telemetry"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

// Store is a key-value store that also reports its health.
type Store interface {
	ports.KeyValueStore
	ports.HealthChecker
}

// Generator is a quote generator that also reports its health.
type Generator interface {
	ports.QuoteGenerator
	ports.HealthChecker
}

// Deps overrides the desktop adapters. Nil fields use the system clipboard
// and default browser.
type Deps struct {
	Clipboard ports.Clipboard
	Opener    ports.URLOpener

	// BrowserOutput receives the launched browser's output.
	BrowserOutput io.Writer
}

// Runtime is the application core wired to its adapters.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger

	Store       Store
	Generator   Generator
	Provider    *app.QuoteProvider
	Bookmarks   *app.BookmarkStore
	Preferences *app.Preferences
	Widget      *app.Widget
	Sharer      *app.Sharer

	Health  *ports.DefaultHealthRegistry
	Metrics *prometheus.Registry

	telemetry *telemetry.Provider
}

// NewRuntime opens the store, builds the generator and wires the application
// services. Bookmarks are loaded before it returns. Close releases everything.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, deps Deps) (*Runtime, error) {
	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	rt := &Runtime{
		Config:    cfg,
		Logger:    logger,
		Health:    ports.NewHealthRegistry(),
		Metrics:   prometheus.NewRegistry(),
		telemetry: tel,
	}

	if err := rt.wire(ctx, deps); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	return rt, nil
}

func (rt *Runtime) wire(ctx context.Context, deps Deps) error {
	cfg := rt.Config

	rt.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	quoteMetrics, err := telemetry.NewQuoteMetrics(rt.Metrics)
	if err != nil {
		return fmt.Errorf("registering quote metrics: %w", err)
	}

	store, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	rt.Store = store

	if err := rt.Health.Register(store); err != nil {
		return fmt.Errorf("registering storage health check: %w", err)
	}

	gen, err := NewGenerator(ctx, cfg, rt.Logger)
	if err != nil {
		return err
	}

	var generator ports.QuoteGenerator
	if gen != nil {
		rt.Generator = gen
		generator = gen

		if err := rt.Health.RegisterOptional(gen); err != nil {
			return fmt.Errorf("registering generator health check: %w", err)
		}
	}

	rt.Provider = app.NewQuoteProvider(app.QuoteProviderConfig{
		Generator: generator,
		Timeout:   cfg.Generator.Timeout,
		Metrics:   quoteMetrics,
		Logger:    rt.Logger,
	})

	rt.Bookmarks = app.NewBookmarkStore(app.BookmarkStoreConfig{
		Store:  store,
		Key:    cfg.Bookmarks.Key,
		Logger: rt.Logger,
	})
	rt.Bookmarks.Load(ctx)

	rt.Preferences = app.NewPreferences(app.PreferencesConfig{
		Store:  store,
		Key:    cfg.Preferences.ThemeKey,
		Logger: rt.Logger,
	})

	rt.Widget = app.NewWidget(app.WidgetConfig{
		Provider:  rt.Provider,
		Bookmarks: rt.Bookmarks,
		Logger:    rt.Logger,
	})

	clip := deps.Clipboard
	if clip == nil {
		clip = desktop.NewClipboard()
	}

	opener := deps.Opener
	if opener == nil {
		out := deps.BrowserOutput
		if out == nil {
			out = io.Discard
		}
		opener = desktop.NewBrowser(out)
	}

	rt.Sharer = app.NewSharer(app.SharerConfig{
		IntentURL: cfg.Share.IntentURL,
		Clipboard: clip,
		Opener:    opener,
		Logger:    rt.Logger,
	})

	return nil
}

// Close closes the store and flushes telemetry.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error

	if rt.Store != nil {
		if err := rt.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing store: %w", err))
		}
	}

	if rt.telemetry != nil {
		if err := rt.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down telemetry: %w", err))
		}
	}

	return errors.Join(errs...)
}

// OpenStore opens the configured key-value store.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverBolt:
		s, err := bolt.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening bolt store: %w", err)
		}
		return s, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil

	case config.DriverMemory:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewGenerator builds the configured generator backend. It returns nil for
// the none backend, and also when no API key is configured, in which case
// every quote comes from the fallback list.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Generator, error) {
	gc := cfg.Generator

	if gc.Backend == config.BackendNone {
		logger.Info("quote generator disabled; serving fallback quotes")
		return nil, nil
	}

	if gc.APIKey == "" {
		logger.Warn("no generator API key configured; serving fallback quotes",
			slog.String("backend", gc.Backend),
		)
		return nil, nil
	}

	switch gc.Backend {
	case config.BackendGemini:
		g, err := gemini.New(ctx, gemini.Config{
			APIKey:      gc.APIKey,
			Model:       gc.Model,
			Temperature: gc.Temperature,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating gemini generator: %w", err)
		}
		return g, nil

	case config.BackendREST:
		client, err := clients.New(&clients.Config{
			BaseURL:     gc.BaseURL,
			ServiceName: acl.RESTServiceName,
			Timeout:     cfg.Client.Timeout,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			HeaderFunc:  acl.APIKeyHeaderFunc(gc.APIKey),
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating generator HTTP client: %w", err)
		}

		return acl.NewRESTGenerator(acl.RESTGeneratorConfig{
			Client:      client,
			Model:       gc.Model,
			Temperature: gc.Temperature,
			Logger:      logger,
		}), nil

	default:
		return nil, fmt.Errorf("unknown generator backend %q", gc.Backend)
	}
}
