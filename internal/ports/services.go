// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that may block
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

// QuoteGenerator produces a quote for a category from a remote generative service.
// Implementations request structured output with required string fields
// "text" and "author".
//
// Errors:
//   - domain.ErrUnavailable for network, timeout and non-2xx failures
//   - domain.ErrInvalidResponse for unparsable bodies or missing fields
//
// Callers treat every error the same way; the distinction exists for logs.
type QuoteGenerator interface {
	Generate(ctx context.Context, category domain.Category) (*domain.Quote, error)
}

// KeyValueStore is durable string-keyed storage holding opaque values.
// It stands in for the browser's local storage.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key. The write is complete
	// when Set returns.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// URLOpener opens a URL with the platform's default handler.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}
