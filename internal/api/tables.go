package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
)

const (
	msgTableNotFound     = "Table not found"
	msgTableNotOwned     = "Table not found or not authorized"
	msgTableUserRequired = "userId required for private tables"
)

type createTableRequest struct {
	UserID          *int64           `json:"userId"`
	Name            *string          `json:"name"`
	MarkdownContent *string          `json:"markdownContent"`
	Styles          models.StyleBlob `json:"styles"`
	IsPublic        *bool            `json:"isPublic"`
}

func (r createTableRequest) toModel() (*models.SavedTable, bool) {
	if r.Name == nil || r.MarkdownContent == nil || !r.Styles.IsObject() {
		return nil, false
	}
	t := &models.SavedTable{
		UserID:          r.UserID,
		Name:            *r.Name,
		MarkdownContent: *r.MarkdownContent,
		Styles:          r.Styles,
	}
	if r.IsPublic != nil {
		t.IsPublic = *r.IsPublic
	}
	return t, true
}

type updateTableRequest struct {
	UserID          *int64            `json:"userId"`
	Name            *string           `json:"name"`
	MarkdownContent *string           `json:"markdownContent"`
	Styles          *models.StyleBlob `json:"styles"`
	IsPublic        *bool             `json:"isPublic"`
}

func (r updateTableRequest) patch() (models.SavedTablePatch, bool) {
	if r.Styles != nil && !r.Styles.IsObject() {
		return models.SavedTablePatch{}, false
	}
	return models.SavedTablePatch{
		Name:            r.Name,
		MarkdownContent: r.MarkdownContent,
		Styles:          r.Styles,
		IsPublic:        r.IsPublic,
	}, true
}

// ListTables returns public tables with ?public=true, otherwise the tables
// owned by ?userId=.
func (h *Handler) ListTables(c *gin.Context) {
	var (
		tables []models.SavedTable
		err    error
	)
	if c.Query("public") == "true" {
		tables, err = h.store.ListPublicSavedTables(c.Request.Context())
	} else if userID, ok := queryUserID(c); ok {
		tables, err = h.store.ListUserSavedTables(c.Request.Context(), userID)
	} else {
		abortWithError(c, http.StatusBadRequest, msgTableUserRequired)
		return
	}
	if err != nil {
		h.internalError(c, "list tables", err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// GetTable returns one table regardless of owner or visibility.
func (h *Handler) GetTable(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		abortWithError(c, http.StatusNotFound, msgTableNotFound)
		return
	}
	table, err := h.store.GetSavedTable(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, msgTableNotFound)
		return
	}
	if err != nil {
		h.internalError(c, "get table", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// CreateTable stores a new table.
func (h *Handler) CreateTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	table, ok := req.toModel()
	if !ok {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	created, err := h.store.CreateSavedTable(c.Request.Context(), table)
	if err != nil {
		h.internalError(c, "create table", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateTable applies a partial update when the caller owns the table.
func (h *Handler) UpdateTable(c *gin.Context) {
	var req updateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	if req.UserID == nil || *req.UserID == 0 {
		abortWithError(c, http.StatusBadRequest, msgUserID)
		return
	}
	patch, ok := req.patch()
	if !ok {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	id, ok := idParam(c)
	if !ok {
		abortWithError(c, http.StatusNotFound, msgTableNotOwned)
		return
	}

	updated, err := h.store.UpdateSavedTable(c.Request.Context(), id, *req.UserID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, msgTableNotOwned)
		return
	}
	if err != nil {
		h.internalError(c, "update table", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTable removes a table when the caller owns it.
func (h *Handler) DeleteTable(c *gin.Context) {
	userID, ok := deleteUserID(c)
	if !ok {
		abortWithError(c, http.StatusBadRequest, msgUserID)
		return
	}
	id, ok := idParam(c)
	if !ok {
		abortWithError(c, http.StatusNotFound, msgTableNotOwned)
		return
	}

	err := h.store.DeleteSavedTable(c.Request.Context(), id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, msgTableNotOwned)
		return
	}
	if err != nil {
		h.internalError(c, "delete table", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
