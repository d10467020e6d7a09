package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
)

// Snapshot is the visible state of the widget.
type Snapshot struct {
	Category   domain.Category
	Quote      *domain.Quote
	Loading    bool
	Bookmarked bool
}

// WidgetConfig contains configuration for the widget session.
type WidgetConfig struct {
	Provider  QuoteSource
	Bookmarks *BookmarkStore
	Logger    *slog.Logger
}

// Widget is the single logical UI session. Every refresh takes a sequence
// number and its result is installed only if no later refresh was requested
// in the meantime, so the last requested quote wins.
type Widget struct {
	provider  QuoteSource
	bookmarks *BookmarkStore
	logger    *slog.Logger

	mu        sync.Mutex
	category  domain.Category
	current   *domain.Quote
	seq       uint64
	installed uint64

	wg sync.WaitGroup
}

// NewWidget creates a widget showing the General category and no quote.
func NewWidget(cfg WidgetConfig) *Widget {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Widget{
		provider:  cfg.Provider,
		bookmarks: cfg.Bookmarks,
		logger:    logger.With(slog.String("component", "app.Widget")),
		category:  domain.CategoryGeneral,
	}
}

// Start triggers the initial refresh in the background. Use Wait to block
// until it finishes.
func (w *Widget) Start(ctx context.Context) {
	w.wg.Go(func() {
		w.Refresh(ctx)
	})
}

// Wait blocks until background refreshes started by Start have finished.
func (w *Widget) Wait() {
	w.wg.Wait()
}

// Refresh fetches a new quote for the current category.
func (w *Widget) Refresh(ctx context.Context) Snapshot {
	return w.refresh(ctx, nil)
}

// SetCategory switches the category and fetches a quote for it.
func (w *Widget) SetCategory(ctx context.Context, category domain.Category) Snapshot {
	return w.refresh(ctx, &category)
}

// refresh switches to next when it is set. The category and the sequence
// number change together so the latest request's category is the visible one.
func (w *Widget) refresh(ctx context.Context, next *domain.Category) Snapshot {
	w.mu.Lock()
	if next != nil {
		w.category = *next
	}
	category := w.category
	w.seq++
	mine := w.seq
	w.mu.Unlock()

	q := w.provider.Fetch(ctx, category)

	w.mu.Lock()
	if mine == w.seq {
		w.current = q
		w.installed = mine
	} else {
		logging.FromContextOr(ctx, w.logger).DebugContext(ctx, "dropping superseded quote",
			slog.Uint64("request", mine),
			slog.Uint64("latest", w.seq),
		)
	}
	w.mu.Unlock()

	return w.Snapshot()
}

// Snapshot returns the current state.
func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	s := Snapshot{
		Category: w.category,
		Quote:    w.current,
		Loading:  w.seq != w.installed,
	}
	w.mu.Unlock()

	if s.Quote != nil && w.bookmarks != nil {
		s.Bookmarked = w.bookmarks.Contains(s.Quote.Text)
	}

	return s
}

// ToggleBookmark bookmarks or unbookmarks the current quote.
// The returned error reports a failed write; the snapshot already reflects the toggle.
func (w *Widget) ToggleBookmark(ctx context.Context) (Snapshot, error) {
	w.mu.Lock()
	current := w.current
	w.mu.Unlock()

	if current == nil {
		return w.Snapshot(), domain.NewValidationError("quote", "no quote is loaded")
	}

	if w.bookmarks == nil {
		return w.Snapshot(), domain.NewUnavailableError("bookmarks", "no bookmark store configured")
	}

	_, err := w.bookmarks.Toggle(ctx, current)

	return w.Snapshot(), err
}
