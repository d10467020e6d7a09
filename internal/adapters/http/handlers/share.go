package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/zenquote/internal/app"
)

// ShareHandler builds copy text and share links. The server never touches
// its own clipboard or browser; the client acts on the response.
type ShareHandler struct {
	sharer *app.Sharer
}

// NewShareHandler creates a share handler.
func NewShareHandler(sharer *app.Sharer) *ShareHandler {
	return &ShareHandler{sharer: sharer}
}

// Share handles POST /api/v1/share.
func (h *ShareHandler) Share(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	q := req.ToDomain(time.Now())

	c.JSON(http.StatusOK, dto.ShareResponse{
		Text: h.sharer.ShareText(q),
		URL:  h.sharer.ShareURL(q),
	})
}

// RegisterRoutes registers share routes on rg.
func (h *ShareHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/share", h.Share)
}
