package dto

import (
	"time"

	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

// CategoryRequest selects a category. An empty category means General.
type CategoryRequest struct {
	Category string `json:"category" validate:"omitempty,category"`
}

// QuoteRequest carries a quote the client already holds, as returned by an
// earlier response.
type QuoteRequest struct {
	ID        string    `json:"id"        validate:"required,max=64"`
	Text      string    `json:"text"      validate:"required,notempty,max=2000"`
	Author    string    `json:"author"    validate:"required,notempty,max=200"`
	Timestamp time.Time `json:"timestamp"`
}

// ToDomain converts the request to a quote. A zero timestamp becomes now.
func (r *QuoteRequest) ToDomain(now time.Time) *domain.Quote {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = now
	}

	return &domain.Quote{ID: r.ID, Text: r.Text, Author: r.Author, Timestamp: ts}
}

// ThemeRequest sets the theme.
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,theme"`
}

// ListBookmarksRequest pages through bookmarks.
type ListBookmarksRequest struct {
	PaginationRequest
}

// ContainsRequest asks whether a text is bookmarked.
type ContainsRequest struct {
	Text string `form:"text" validate:"required"`
}

// QuoteResponse is a quote as sent to clients.
type QuoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Formatted string    `json:"formatted"`
}

// NewQuoteResponse converts a domain quote. Returns nil for nil.
func NewQuoteResponse(q *domain.Quote) *QuoteResponse {
	if q == nil {
		return nil
	}

	return &QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Author:    q.Author,
		Timestamp: q.Timestamp,
		Formatted: domain.FormatQuote(q),
	}
}

// WidgetResponse is the widget snapshot.
type WidgetResponse struct {
	Category   string         `json:"category"`
	Quote      *QuoteResponse `json:"quote"`
	Loading    bool           `json:"loading"`
	Bookmarked bool           `json:"bookmarked"`
}

// NewWidgetResponse converts a widget snapshot.
func NewWidgetResponse(s app.Snapshot) *WidgetResponse {
	return &WidgetResponse{
		Category:   s.Category.String(),
		Quote:      NewQuoteResponse(s.Quote),
		Loading:    s.Loading,
		Bookmarked: s.Bookmarked,
	}
}

// BookmarkedResponse reports whether a quote is bookmarked.
type BookmarkedResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// ThemeResponse is the current theme.
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// ShareResponse is what the browser copies or opens.
type ShareResponse struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// CategoriesResponse lists the category labels in display order.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Default    string   `json:"default"`
}
