package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
)

// WidgetHandler exposes the single widget session.
type WidgetHandler struct {
	widget *app.Widget
}

// NewWidgetHandler creates a widget handler.
func NewWidgetHandler(widget *app.Widget) *WidgetHandler {
	return &WidgetHandler{widget: widget}
}

// Get handles GET /api/v1/widget. Clients poll it while loading is true.
func (h *WidgetHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewWidgetResponse(h.widget.Snapshot()))
}

// SetCategory handles PUT /api/v1/widget/category and waits for the new quote.
func (h *WidgetHandler) SetCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWidgetResponse(h.widget.SetCategory(c.Request.Context(), category)))
}

// Refresh handles POST /api/v1/widget/refresh.
func (h *WidgetHandler) Refresh(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewWidgetResponse(h.widget.Refresh(c.Request.Context())))
}

// ToggleBookmark handles POST /api/v1/widget/bookmark. A failed write is
// logged and the new state is still returned.
func (h *WidgetHandler) ToggleBookmark(c *gin.Context) {
	snapshot, err := h.widget.ToggleBookmark(c.Request.Context())
	if err != nil {
		if domain.IsValidation(err) {
			dto.HandleError(c, err)
			return
		}

		warnPersistence(c, err)
	}

	c.JSON(http.StatusOK, dto.NewWidgetResponse(snapshot))
}

// RegisterRoutes registers widget routes on rg.
func (h *WidgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	widget := rg.Group("/widget")
	widget.GET("", h.Get)
	widget.PUT("/category", h.SetCategory)
	widget.POST("/refresh", h.Refresh)
	widget.POST("/bookmark", h.ToggleBookmark)
}

// warnPersistence records a best-effort write failure without failing the request.
func warnPersistence(c *gin.Context, err error) {
	ctx := c.Request.Context()
	logging.FromContext(ctx).WarnContext(ctx, "change kept in memory but not persisted",
		slog.String("route", c.FullPath()),
		slog.Any("error", err),
	)

	_ = c.Error(err)
}
