package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
)

const (
	msgThemeNotFound     = "Theme not found"
	msgThemeNotOwned     = "Theme not found or not authorized"
	msgThemeUserRequired = "userId required for private themes"
)

type createThemeRequest struct {
	UserID   *int64           `json:"userId"`
	Name     *string          `json:"name"`
	Styles   models.StyleBlob `json:"styles"`
	IsPublic *bool            `json:"isPublic"`
}

// ListThemes returns public themes with ?public=true, otherwise the themes
// owned by ?userId=.
func (h *Handler) ListThemes(c *gin.Context) {
	var (
		themes []models.CustomTheme
		err    error
	)
	if c.Query("public") == "true" {
		themes, err = h.store.ListPublicCustomThemes(c.Request.Context())
	} else if userID, ok := queryUserID(c); ok {
		themes, err = h.store.ListUserCustomThemes(c.Request.Context(), userID)
	} else {
		abortWithError(c, http.StatusBadRequest, msgThemeUserRequired)
		return
	}
	if err != nil {
		h.internalError(c, "list themes", err)
		return
	}
	c.JSON(http.StatusOK, themes)
}

// GetTheme returns one theme.
func (h *Handler) GetTheme(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		abortWithError(c, http.StatusNotFound, msgThemeNotFound)
		return
	}
	theme, err := h.store.GetCustomTheme(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, msgThemeNotFound)
		return
	}
	if err != nil {
		h.internalError(c, "get theme", err)
		return
	}
	c.JSON(http.StatusOK, theme)
}

// CreateTheme stores a new theme. Themes cannot be updated.
func (h *Handler) CreateTheme(c *gin.Context) {
	var req createThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || !req.Styles.IsObject() {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	theme := &models.CustomTheme{UserID: req.UserID, Name: *req.Name, Styles: req.Styles}
	if req.IsPublic != nil {
		theme.IsPublic = *req.IsPublic
	}

	created, err := h.store.CreateCustomTheme(c.Request.Context(), theme)
	if err != nil {
		h.internalError(c, "create theme", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteTheme removes a theme when the caller owns it.
func (h *Handler) DeleteTheme(c *gin.Context) {
	userID, ok := deleteUserID(c)
	if !ok {
		abortWithError(c, http.StatusBadRequest, msgUserID)
		return
	}
	id, ok := idParam(c)
	if !ok {
		abortWithError(c, http.StatusNotFound, msgThemeNotOwned)
		return
	}

	err := h.store.DeleteCustomTheme(c.Request.Context(), id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, msgThemeNotOwned)
		return
	}
	if err != nil {
		h.internalError(c, "delete theme", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
