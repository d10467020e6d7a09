package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

// DefaultBookmarksKey is the storage slot holding the bookmark list.
const DefaultBookmarksKey = "zenquote_bookmarks"

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// BookmarkStoreConfig contains configuration for the bookmark store.
type BookmarkStoreConfig struct {
	Store  ports.KeyValueStore
	Key    string
	Logger *slog.Logger
}

// BookmarkStore is the ordered bookmark list, most recently added first and
// unique by quote text. Every mutation writes the whole list to the store
// before returning. A failed write is logged and returned, but the in-memory
// list keeps the change.
type BookmarkStore struct {
	mu     sync.RWMutex
	kv     ports.KeyValueStore
	key    string
	items  []domain.Quote
	logger *slog.Logger
}

// NewBookmarkStore creates an empty store. Call Load to read persisted bookmarks.
func NewBookmarkStore(cfg BookmarkStoreConfig) *BookmarkStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	key := cfg.Key
	if key == "" {
		key = DefaultBookmarksKey
	}

	return &BookmarkStore{
		kv:     cfg.Store,
		key:    key,
		logger: logger.With(slog.String("component", "app.BookmarkStore")),
	}
}

// bookmarkRecord is the persisted form of one bookmark.
type bookmarkRecord struct {
	ID        string    `json:"id"        yaml:"id"`
	Text      string    `json:"text"      yaml:"text"`
	Author    string    `json:"author"    yaml:"author"`
	Timestamp timestamp `json:"timestamp" yaml:"timestamp"`
}

// timestamp encodes as RFC 3339 and also decodes epoch milliseconds. A null
// timestamp decodes to the zero time.
type timestamp time.Time

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = timestamp{}
		return nil
	}

	if len(b) > 0 && b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		*t = timestamp(time.UnixMilli(ms).UTC())
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	*t = timestamp(parsed)

	return nil
}

func (t timestamp) MarshalYAML() (any, error) {
	return time.Time(t).UTC().Format(time.RFC3339Nano), nil
}

func toRecord(q domain.Quote) bookmarkRecord {
	return bookmarkRecord{ID: q.ID, Text: q.Text, Author: q.Author, Timestamp: timestamp(q.Timestamp)}
}

func (r bookmarkRecord) quote() domain.Quote {
	return domain.Quote{ID: r.ID, Text: r.Text, Author: r.Author, Timestamp: time.Time(r.Timestamp)}
}

// Load replaces the in-memory list with the persisted one. An absent key,
// read failure or malformed content leaves the store empty. Records without
// id, text or author are dropped, as are repeats of a text or id already seen.
func (s *BookmarkStore) Load(ctx context.Context) {
	logger := logging.FromContextOr(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if domain.IsNotFound(err) {
			logger.DebugContext(ctx, "no persisted bookmarks", slog.String("key", s.key))
		} else {
			logger.WarnContext(ctx, "reading bookmarks failed, starting empty", slog.Any("error", err))
		}
		return
	}

	var records []bookmarkRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.WarnContext(ctx, "persisted bookmarks are malformed, starting empty", slog.Any("error", err))
		return
	}

	texts := make(map[string]struct{}, len(records))
	ids := make(map[string]struct{}, len(records))
	items := make([]domain.Quote, 0, len(records))
	dropped := 0

	for _, r := range records {
		if r.ID == "" || r.Text == "" || r.Author == "" {
			dropped++
			continue
		}
		_, dupText := texts[r.Text]
		_, dupID := ids[r.ID]
		if dupText || dupID {
			dropped++
			continue
		}
		texts[r.Text] = struct{}{}
		ids[r.ID] = struct{}{}
		items = append(items, r.quote())
	}

	if dropped > 0 {
		logger.WarnContext(ctx, "dropped invalid bookmark records", slog.Int("dropped", dropped))
	}

	s.items = items
	logger.DebugContext(ctx, "bookmarks loaded", slog.Int("count", len(items)))
}

// Add prepends q unless a bookmark with the same text exists. A different
// quote reusing a bookmarked id is rejected. Reports whether the list changed.
func (s *BookmarkStore) Add(ctx context.Context, q *domain.Quote) (bool, error) {
	if err := validateBookmark(q); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfText(q.Text) >= 0 {
		return false, nil
	}

	if err := s.checkIDFree(q.ID); err != nil {
		return false, err
	}

	s.prepend(*q)

	return true, s.persist(ctx)
}

// Remove deletes the bookmark with id. Reports whether the list changed.
func (s *BookmarkStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfID(id)
	if i < 0 {
		return false, nil
	}

	s.items = append(s.items[:i], s.items[i+1:]...)

	return true, s.persist(ctx)
}

// Toggle removes the bookmark whose text matches q, or adds q when there is
// none. Reports whether q is bookmarked afterwards.
func (s *BookmarkStore) Toggle(ctx context.Context, q *domain.Quote) (bool, error) {
	if err := validateBookmark(q); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOfText(q.Text); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return false, s.persist(ctx)
	}

	if err := s.checkIDFree(q.ID); err != nil {
		return false, err
	}

	s.prepend(*q)

	return true, s.persist(ctx)
}

// Contains reports whether a bookmark has exactly this text.
func (s *BookmarkStore) Contains(text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexOfText(text) >= 0
}

// All returns a copy of the list, most recently added first.
func (s *BookmarkStore) All() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quote, len(s.items))
	copy(out, s.items)

	return out
}

// Get returns the bookmark with id or a NotFoundError.
func (s *BookmarkStore) Get(id string) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOfID(id)
	if i < 0 {
		return nil, domain.NewNotFoundError("bookmark", id)
	}

	q := s.items[i]

	return &q, nil
}

// Len returns the number of bookmarks.
func (s *BookmarkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Export writes the list to w as JSON or YAML.
func (s *BookmarkStore) Export(w io.Writer, format string) error {
	items := s.All()

	records := make([]bookmarkRecord, 0, len(items))
	for _, q := range items {
		records = append(records, toRecord(q))
	}

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()

	default:
		return domain.NewValidationErrorWithValue("format", "must be json or yaml", format)
	}
}

// persist writes the whole list. Must be called with the lock held.
func (s *BookmarkStore) persist(ctx context.Context) error {
	records := make([]bookmarkRecord, 0, len(s.items))
	for _, q := range s.items {
		records = append(records, toRecord(q))
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(records); err != nil {
		return fmt.Errorf("encoding bookmarks: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, bytes.TrimSpace(buf.Bytes())); err != nil {
		logging.FromContextOr(ctx, s.logger).ErrorContext(ctx, "persisting bookmarks failed",
			slog.String("key", s.key),
			slog.Int("count", len(s.items)),
			slog.Any("error", err),
		)
		return fmt.Errorf("persisting bookmarks: %w", err)
	}

	return nil
}

func (s *BookmarkStore) prepend(q domain.Quote) {
	s.items = append([]domain.Quote{q}, s.items...)
}

func (s *BookmarkStore) indexOfText(text string) int {
	for i := range s.items {
		if s.items[i].Text == text {
			return i
		}
	}

	return -1
}

func (s *BookmarkStore) indexOfID(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}

	return -1
}

// checkIDFree keeps ids unique so Remove and Get reach exactly one bookmark.
// Must be called with the lock held.
func (s *BookmarkStore) checkIDFree(id string) error {
	if s.indexOfID(id) >= 0 {
		return domain.NewValidationErrorWithValue("id", "is already used by another bookmark", id)
	}

	return nil
}

func validateBookmark(q *domain.Quote) error {
	switch {
	case q == nil:
		return domain.NewValidationError("quote", "is required")
	case q.ID == "":
		return domain.NewValidationError("id", "is required")
	case q.Text == "":
		return domain.NewValidationError("text", "is required")
	case q.Author == "":
		return domain.NewValidationError("author", "is required")
	}

	return nil
}
