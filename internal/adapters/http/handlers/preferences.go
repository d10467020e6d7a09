package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

// PreferencesHandler serves the theme preference.
type PreferencesHandler struct {
	prefs *app.Preferences
}

// NewPreferencesHandler creates a preferences handler.
func NewPreferencesHandler(prefs *app.Preferences) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// GetTheme handles GET /api/v1/preferences/theme.
func (h *PreferencesHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: string(h.prefs.Theme(c.Request.Context()))})
}

// SetTheme handles PUT /api/v1/preferences/theme.
func (h *PreferencesHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	theme, err := domain.ParseTheme(req.Theme)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.prefs.SetTheme(c.Request.Context(), theme); err != nil {
		warnPersistence(c, err)
	}

	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: string(theme)})
}

// ToggleTheme handles POST /api/v1/preferences/theme/toggle.
func (h *PreferencesHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.prefs.ToggleTheme(c.Request.Context())
	if err != nil {
		warnPersistence(c, err)
	}

	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: string(theme)})
}

// RegisterRoutes registers preference routes on rg.
func (h *PreferencesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	theme := rg.Group("/preferences/theme")
	theme.GET("", h.GetTheme)
	theme.PUT("", h.SetTheme)
	theme.POST("/toggle", h.ToggleTheme)
}
