package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

// DefaultShareIntentURL is the share endpoint used when none is configured.
const DefaultShareIntentURL = "https://twitter.com/intent/tweet"

// SharerConfig contains configuration for the sharer.
type SharerConfig struct {
	IntentURL string
	Clipboard ports.Clipboard
	Opener    ports.URLOpener
	Logger    *slog.Logger
}

// Sharer copies and shares quotes.
type Sharer struct {
	intentURL string
	clipboard ports.Clipboard
	opener    ports.URLOpener
	logger    *slog.Logger
}

// NewSharer creates a sharer. Clipboard and Opener may be nil when only
// ShareText and ShareURL are used.
func NewSharer(cfg SharerConfig) *Sharer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	intent := cfg.IntentURL
	if intent == "" {
		intent = DefaultShareIntentURL
	}

	return &Sharer{
		intentURL: intent,
		clipboard: cfg.Clipboard,
		opener:    cfg.Opener,
		logger:    logger.With(slog.String("component", "app.Sharer")),
	}
}

// ShareText is the text copied to the clipboard.
func (s *Sharer) ShareText(q *domain.Quote) string {
	return domain.FormatQuote(q)
}

// ShareURL is the share-intent URL carrying the formatted quote.
func (s *Sharer) ShareURL(q *domain.Quote) string {
	sep := "?"
	if strings.Contains(s.intentURL, "?") {
		sep = "&"
	}

	return s.intentURL + sep + "text=" + url.QueryEscape(domain.FormatQuote(q))
}

// Copy writes the formatted quote to the clipboard.
func (s *Sharer) Copy(ctx context.Context, q *domain.Quote) error {
	if q == nil {
		return domain.NewValidationError("quote", "is required")
	}

	if s.clipboard == nil {
		return domain.NewUnavailableError("clipboard", "not configured")
	}

	if err := s.clipboard.WriteText(ctx, s.ShareText(q)); err != nil {
		return fmt.Errorf("copying quote: %w", err)
	}

	s.logger.DebugContext(ctx, "quote copied", slog.String("quote_id", q.ID))

	return nil
}

// Share opens the share-intent URL for q.
func (s *Sharer) Share(ctx context.Context, q *domain.Quote) error {
	if q == nil {
		return domain.NewValidationError("quote", "is required")
	}

	if s.opener == nil {
		return domain.NewUnavailableError("browser", "not configured")
	}

	if err := s.opener.OpenURL(ctx, s.ShareURL(q)); err != nil {
		return fmt.Errorf("sharing quote: %w", err)
	}

	s.logger.DebugContext(ctx, "quote shared", slog.String("quote_id", q.ID))

	return nil
}
