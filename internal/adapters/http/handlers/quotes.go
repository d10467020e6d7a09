package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

// QuoteHandler serves categories and stateless quote fetches.
type QuoteHandler struct {
	provider app.QuoteSource
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(provider app.QuoteSource) *QuoteHandler {
	return &QuoteHandler{provider: provider}
}

// ListCategories handles GET /api/v1/categories.
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	categories := domain.Categories()

	labels := make([]string, 0, len(categories))
	for _, cat := range categories {
		labels = append(labels, cat.String())
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Categories: labels,
		Default:    domain.CategoryGeneral.String(),
	})
}

// FetchQuote handles POST /api/v1/quotes. It does not touch the widget.
// The provider never fails, so the only errors are malformed requests.
func (h *QuoteHandler) FetchQuote(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.NewQuoteResponse(h.provider.Fetch(c.Request.Context(), category)))
}

// RegisterRoutes registers quote routes on rg.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.POST("/quotes", h.FetchQuote)
}
