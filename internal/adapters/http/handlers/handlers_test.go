package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/zenquote/internal/adapters/storage/memory"
	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/mocks"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	engine    *gin.Engine
	bookmarks *app.BookmarkStore
	widget    *app.Widget
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAPI wires every API handler over an in-memory store and a generator
// that answers "<category> quote" by "Oracle".
func newAPI(t *testing.T) *apiFixture {
	t.Helper()

	gen := mocks.NewMockQuoteGenerator(t)
	gen.EXPECT().Generate(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, c domain.Category) (*domain.Quote, error) {
			return domain.NewQuote(c.String()+" quote", "Oracle", time.Now())
		}).Maybe()

	return newAPIWith(t, gen, memory.New())
}

func newAPIWith(t *testing.T, gen *mocks.MockQuoteGenerator, store ports.KeyValueStore) *apiFixture {
	t.Helper()

	logger := discardLogger()
	provider := app.NewQuoteProvider(app.QuoteProviderConfig{Generator: gen, Logger: logger})
	bookmarks := app.NewBookmarkStore(app.BookmarkStoreConfig{Store: store, Logger: logger})
	prefs := app.NewPreferences(app.PreferencesConfig{Store: store, Logger: logger})
	widget := app.NewWidget(app.WidgetConfig{Provider: provider, Bookmarks: bookmarks, Logger: logger})
	sharer := app.NewSharer(app.SharerConfig{Logger: logger})

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewQuoteHandler(provider).RegisterRoutes(api)
	NewWidgetHandler(widget).RegisterRoutes(api)
	NewBookmarkHandler(bookmarks).RegisterRoutes(api)
	NewPreferencesHandler(prefs).RegisterRoutes(api)
	NewShareHandler(sharer).RegisterRoutes(api)

	return &apiFixture{engine: engine, bookmarks: bookmarks, widget: widget}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func quoteBody(id, text, author string) map[string]any {
	return map[string]any{"id": id, "text": text, "author": author}
}

func TestListCategories(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodGet, "/api/v1/categories", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.CategoriesResponse](t, w)
	assert.Equal(t, []string{
		"General", "Motivation", "Happiness", "Love", "Success",
		"Wisdom", "Life", "Friendship", "Hope", "Courage",
	}, resp.Categories)
	assert.Equal(t, "General", resp.Default)
}

func TestFetchQuote(t *testing.T) {
	f := newAPI(t)

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantText string
	}{
		{"category", map[string]string{"category": "love"}, http.StatusOK, "Love quote"},
		{"empty is general", map[string]string{}, http.StatusOK, "General quote"},
		{"unknown category", map[string]string{"category": "Rage"}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/v1/quotes", tt.body)

			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantText == "" {
				assert.Equal(t, dto.ErrorCodeValidation, decode[dto.ErrorResponse](t, w).Error.Code)
				return
			}

			q := decode[dto.QuoteResponse](t, w)
			assert.Equal(t, tt.wantText, q.Text)
			assert.Equal(t, "Oracle", q.Author)
			assert.NotEmpty(t, q.ID)
			assert.Equal(t, "\""+tt.wantText+"\" — Oracle", q.Formatted)
		})
	}

	assert.Nil(t, f.widget.Snapshot().Quote, "stateless fetch must not touch the widget")
}

func TestFetchQuote_FallbackOnGeneratorFailure(t *testing.T) {
	gen := mocks.NewMockQuoteGenerator(t)
	gen.EXPECT().Generate(mock.Anything, domain.CategoryHappiness).
		Return(nil, domain.NewUnavailableError("gemini", "503"))

	f := newAPIWith(t, gen, memory.New())

	w := f.do(t, http.MethodPost, "/api/v1/quotes", map[string]string{"category": "Happiness"})

	require.Equal(t, http.StatusOK, w.Code)

	q := decode[dto.QuoteResponse](t, w)
	found := false
	for _, fb := range app.FallbackQuotes() {
		if fb.Text == q.Text && fb.Author == q.Author {
			found = true
		}
	}
	assert.True(t, found, "%q is not a fallback quote", q.Text)
}

func TestWidgetRoutes(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodGet, "/api/v1/widget", nil)
	require.Equal(t, http.StatusOK, w.Code)
	initial := decode[dto.WidgetResponse](t, w)
	assert.Equal(t, "General", initial.Category)
	assert.Nil(t, initial.Quote)

	w = f.do(t, http.MethodPost, "/api/v1/widget/bookmark", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "no quote loaded yet")

	w = f.do(t, http.MethodPut, "/api/v1/widget/category", map[string]string{"category": "Wisdom"})
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[dto.WidgetResponse](t, w)
	assert.Equal(t, "Wisdom", snap.Category)
	require.NotNil(t, snap.Quote)
	assert.Equal(t, "Wisdom quote", snap.Quote.Text)
	assert.False(t, snap.Loading)
	assert.False(t, snap.Bookmarked)

	w = f.do(t, http.MethodPost, "/api/v1/widget/bookmark", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.WidgetResponse](t, w).Bookmarked)
	assert.Equal(t, 1, f.bookmarks.Len())

	w = f.do(t, http.MethodPost, "/api/v1/widget/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wisdom", decode[dto.WidgetResponse](t, w).Category)

	w = f.do(t, http.MethodPut, "/api/v1/widget/category", map[string]string{"category": "Nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarkRoutes(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookmarks", quoteBody("a", "First words", "A"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/bookmarks", quoteBody("b", "First words", "B"))
	assert.Equal(t, http.StatusOK, w.Code, "same text is not added twice")

	w = f.do(t, http.MethodPost, "/api/v1/bookmarks/toggle", quoteBody("c", "Second words", "C"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.BookmarkedResponse](t, w).Bookmarked)

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks/contains?text="+url.QueryEscape("Second words"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.BookmarkedResponse](t, w).Bookmarked)

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks/contains", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[dto.Page[dto.QuoteResponse]](t, w)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Second words", page.Items[0].Text)
	assert.Equal(t, "First words", page.Items[1].Text)

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks/a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "First words", decode[dto.QuoteResponse](t, w).Text)

	w = f.do(t, http.MethodDelete, "/api/v1/bookmarks/a", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/bookmarks/a", nil)
	assert.Equal(t, http.StatusNoContent, w.Code, "removing twice is not an error")

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks/a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/bookmarks/toggle", quoteBody("d", "Second words", "C"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[dto.BookmarkedResponse](t, w).Bookmarked)
	assert.Zero(t, f.bookmarks.Len())
}

func TestBookmarkRoutes_Validation(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookmarks", quoteBody("a", "", "A"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "text")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decode[dto.ErrorResponse](t, rec).Error.Code)
}

func TestBookmarkRoutes_ReusedID(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookmarks", quoteBody("same", "alpha", "A"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, path := range []string{"/api/v1/bookmarks", "/api/v1/bookmarks/toggle"} {
		w = f.do(t, http.MethodPost, path, quoteBody("same", "beta", "B"))
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, decode[dto.ErrorResponse](t, w).Error.Details, "id")
	}

	assert.Equal(t, 1, f.bookmarks.Len())
}

func TestBookmarkList_Pagination(t *testing.T) {
	f := newAPI(t)

	for _, id := range []string{"1", "2", "3", "4", "5"} {
		w := f.do(t, http.MethodPost, "/api/v1/bookmarks", quoteBody(id, "Quote "+id, "A"))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var seen []string
	path := "/api/v1/bookmarks?limit=2"

	for range 5 {
		w := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		page := decode[dto.Page[dto.QuoteResponse]](t, w)
		for _, q := range page.Items {
			seen = append(seen, q.ID)
		}

		if !page.HasMore {
			break
		}

		path = "/api/v1/bookmarks?limit=2&cursor=" + page.NextCursor
	}

	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, seen)

	w := f.do(t, http.MethodGet, "/api/v1/bookmarks?cursor=garbage!", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks?limit=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarkExport(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookmarks", quoteBody("a", "Exported", "A"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks/export?format=yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "yaml")
	assert.Contains(t, w.Body.String(), "text: Exported")

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"text": "Exported"`)

	w = f.do(t, http.MethodGet, "/api/v1/bookmarks/export?format=csv", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarkRoutes_PersistFailureStillSucceeds(t *testing.T) {
	gen := mocks.NewMockQuoteGenerator(t)
	kv := mocks.NewMockKeyValueStore(t)
	kv.EXPECT().Set(mock.Anything, app.DefaultBookmarksKey, mock.Anything).Return(errors.New("read-only filesystem"))

	f := newAPIWith(t, gen, kv)

	w := f.do(t, http.MethodPost, "/api/v1/bookmarks/toggle", quoteBody("a", "Kept", "A"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.BookmarkedResponse](t, w).Bookmarked)
	assert.True(t, f.bookmarks.Contains("Kept"))
}

func TestThemeRoutes(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodGet, "/api/v1/preferences/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "light", decode[dto.ThemeResponse](t, w).Theme)

	w = f.do(t, http.MethodPut, "/api/v1/preferences/theme", map[string]string{"theme": "DARK"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decode[dto.ThemeResponse](t, w).Theme)

	w = f.do(t, http.MethodPost, "/api/v1/preferences/theme/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "light", decode[dto.ThemeResponse](t, w).Theme)

	w = f.do(t, http.MethodPut, "/api/v1/preferences/theme", map[string]string{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareRoute(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/share", quoteBody("a", "Be brave & kind", "Anon"))

	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.ShareResponse](t, w)
	assert.Equal(t, "\"Be brave & kind\" — Anon", resp.Text)

	u, err := url.Parse(resp.URL)
	require.NoError(t, err)
	assert.Equal(t, "twitter.com", u.Host)
	assert.Equal(t, resp.Text, u.Query().Get("text"))
}
