package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

// DefaultThemeKey is the storage slot holding the theme preference.
const DefaultThemeKey = "zenquote_theme"

// PreferencesConfig contains configuration for preferences.
type PreferencesConfig struct {
	Store  ports.KeyValueStore
	Key    string
	Logger *slog.Logger
}

// Preferences persists the cosmetic theme.
type Preferences struct {
	mu     sync.Mutex
	kv     ports.KeyValueStore
	key    string
	logger *slog.Logger
}

// NewPreferences creates preferences backed by the store.
func NewPreferences(cfg PreferencesConfig) *Preferences {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	key := cfg.Key
	if key == "" {
		key = DefaultThemeKey
	}

	return &Preferences{
		kv:     cfg.Store,
		key:    key,
		logger: logger.With(slog.String("component", "app.Preferences")),
	}
}

// Theme returns the stored theme. A missing or unreadable value yields the default.
func (p *Preferences) Theme(ctx context.Context) domain.Theme {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.load(ctx)
}

// SetTheme stores t in its canonical lower-case form.
func (p *Preferences) SetTheme(ctx context.Context, t domain.Theme) error {
	parsed, err := domain.ParseTheme(string(t))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.store(ctx, parsed)
}

// ToggleTheme flips the stored theme and returns the new value.
func (p *Preferences) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.load(ctx).Toggle()

	return next, p.store(ctx, next)
}

func (p *Preferences) load(ctx context.Context) domain.Theme {
	raw, err := p.kv.Get(ctx, p.key)
	if err != nil {
		if !domain.IsNotFound(err) {
			logging.FromContextOr(ctx, p.logger).WarnContext(ctx, "reading theme failed, using default",
				slog.Any("error", err),
			)
		}
		return domain.DefaultTheme
	}

	t, err := domain.ParseTheme(string(raw))
	if err != nil {
		logging.FromContextOr(ctx, p.logger).WarnContext(ctx, "stored theme is invalid, using default",
			slog.String("value", string(raw)),
		)
		return domain.DefaultTheme
	}

	return t
}

func (p *Preferences) store(ctx context.Context, t domain.Theme) error {
	if err := p.kv.Set(ctx, p.key, []byte(t)); err != nil {
		logging.FromContextOr(ctx, p.logger).ErrorContext(ctx, "persisting theme failed",
			slog.String("theme", string(t)),
			slog.Any("error", err),
		)
		return fmt.Errorf("persisting theme: %w", err)
	}

	return nil
}
