package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

// BookmarkHandler serves the bookmark list.
type BookmarkHandler struct {
	bookmarks *app.BookmarkStore
	now       func() time.Time
}

// NewBookmarkHandler creates a bookmark handler.
func NewBookmarkHandler(bookmarks *app.BookmarkStore) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks, now: time.Now}
}

// List handles GET /api/v1/bookmarks?limit&cursor, most recent first.
func (h *BookmarkHandler) List(c *gin.Context) {
	var req dto.ListBookmarksRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	after, err := req.After()
	if err != nil {
		dto.HandleError(c, domain.NewValidationError("cursor", "is invalid"))
		return
	}

	all := h.bookmarks.All()
	items := make([]*dto.QuoteResponse, 0, len(all))
	for i := range all {
		items = append(items, dto.NewQuoteResponse(&all[i]))
	}

	page, err := dto.Paginate(items, after, req.PageSize(), func(q *dto.QuoteResponse) string { return q.ID })
	if err != nil {
		dto.HandleError(c, domain.NewValidationError("cursor", "points at a removed bookmark"))
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/v1/bookmarks/:id.
func (h *BookmarkHandler) Get(c *gin.Context) {
	q, err := h.bookmarks.Get(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(q))
}

// Add handles POST /api/v1/bookmarks. Answers 201 when the quote was added
// and 200 when a bookmark with the same text already existed.
func (h *BookmarkHandler) Add(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	q := req.ToDomain(h.now())

	added, err := h.bookmarks.Add(c.Request.Context(), q)
	if err != nil {
		if domain.IsValidation(err) {
			dto.HandleError(c, err)
			return
		}

		warnPersistence(c, err)
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}

	c.JSON(status, dto.NewQuoteResponse(q))
}

// Toggle handles POST /api/v1/bookmarks/toggle.
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	bookmarked, err := h.bookmarks.Toggle(c.Request.Context(), req.ToDomain(h.now()))
	if err != nil {
		if domain.IsValidation(err) {
			dto.HandleError(c, err)
			return
		}

		warnPersistence(c, err)
	}

	c.JSON(http.StatusOK, dto.BookmarkedResponse{Bookmarked: bookmarked})
}

// Contains handles GET /api/v1/bookmarks/contains?text=.
func (h *BookmarkHandler) Contains(c *gin.Context) {
	var req dto.ContainsRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BookmarkedResponse{Bookmarked: h.bookmarks.Contains(req.Text)})
}

// Remove handles DELETE /api/v1/bookmarks/:id. Removing an unknown id is not an error.
func (h *BookmarkHandler) Remove(c *gin.Context) {
	if _, err := h.bookmarks.Remove(c.Request.Context(), c.Param("id")); err != nil {
		warnPersistence(c, err)
	}

	c.Status(http.StatusNoContent)
}

// Export handles GET /api/v1/bookmarks/export?format=json|yaml.
func (h *BookmarkHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", app.FormatJSON)

	contentType := "application/json; charset=utf-8"
	if format == app.FormatYAML {
		contentType = "application/yaml; charset=utf-8"
	} else if format != app.FormatJSON {
		dto.HandleError(c, domain.NewValidationErrorWithValue("format", "must be json or yaml", format))
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="bookmarks.`+format+`"`)
	c.Status(http.StatusOK)

	if err := h.bookmarks.Export(c.Writer, format); err != nil {
		_ = c.Error(err)
	}
}

// RegisterRoutes registers bookmark routes on rg.
func (h *BookmarkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookmarks := rg.Group("/bookmarks")
	bookmarks.GET("", h.List)
	bookmarks.POST("", h.Add)
	bookmarks.POST("/toggle", h.Toggle)
	bookmarks.GET("/contains", h.Contains)
	bookmarks.GET("/export", h.Export)
	bookmarks.GET("/:id", h.Get)
	bookmarks.DELETE("/:id", h.Remove)
}
