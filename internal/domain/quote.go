// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Quote is one inspirational statement instance.
// Quotes are immutable once created; every fetch yields a new value.
// Bookmark identity is Text equality, not ID.
type Quote struct {
	// ID is an opaque unique token generated at creation time.
	ID string

	// Text is the body of the quote.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Timestamp is the creation instant.
	Timestamp time.Time
}

// NewQuote synthesizes a Quote with a fresh ID stamped at now.
// Returns a ValidationError if text or author is blank.
func NewQuote(text, author string, now time.Time) (*Quote, error) {
	text = strings.TrimSpace(text)
	author = strings.TrimSpace(author)

	if text == "" {
		return nil, NewValidationError("text", "is required")
	}

	if author == "" {
		return nil, NewValidationError("author", "is required")
	}

	return &Quote{
		ID:        uuid.NewString(),
		Text:      text,
		Author:    author,
		Timestamp: now,
	}, nil
}

// SameText reports whether two quotes are the same bookmark-able entity.
// Comparison is exact; whitespace and punctuation are not normalized.
func (q *Quote) SameText(other *Quote) bool {
	if q == nil || other == nil {
		return false
	}

	return q.Text == other.Text
}

// FormatQuote renders the quote the way it is copied and shared:
// the text in double quotes, an em dash, then the author.
func FormatQuote(q *Quote) string {
	if q == nil {
		return ""
	}

	return "\"" + q.Text + "\" — " + q.Author
}
