package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor means the cursor could not be decoded or names a
// bookmark that is gone.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the ?cursor&limit query shared by list endpoints.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// PageSize returns Limit clamped to [1, MaxLimit], or DefaultLimit when unset.
func (p *PaginationRequest) PageSize() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// After returns the id the page starts after, or "" for the first page.
func (p *PaginationRequest) After() (string, error) {
	if p.Cursor == "" {
		return "", nil
	}

	return DecodeCursor(p.Cursor)
}

// Page is one page of a list response.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

type cursor struct {
	After string `json:"after"`
}

// EncodeCursor makes an opaque cursor pointing past id.
func EncodeCursor(id string) string {
	b, _ := json.Marshal(cursor{After: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor returns the id encoded by EncodeCursor.
func DecodeCursor(s string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", ErrInvalidCursor
	}

	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.After == "" {
		return "", ErrInvalidCursor
	}

	return c.After, nil
}

// Paginate returns up to limit items following the item whose id is after,
// keeping the order of items. An empty after starts at the beginning. An
// after that matches nothing yields ErrInvalidCursor.
func Paginate[T any](items []T, after string, limit int, id func(T) string) (*Page[T], error) {
	start := 0

	if after != "" {
		start = -1
		for i := range items {
			if id(items[i]) == after {
				start = i + 1
				break
			}
		}

		if start < 0 {
			return nil, ErrInvalidCursor
		}
	}

	end := min(start+limit, len(items))
	page := &Page[T]{
		Items:   append([]T{}, items[start:end]...),
		HasMore: end < len(items),
	}

	if page.HasMore && end > start {
		page.NextCursor = EncodeCursor(id(items[end-1]))
	}

	return page, nil
}
