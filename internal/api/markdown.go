package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/editor"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/markdown"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/styles"
)

type parseRequest struct {
	Markdown string `json:"markdown"`
}

type reorderRequest struct {
	TableData *models.TableData `json:"tableData"`
	Axis      string            `json:"axis"`
	From      *int              `json:"from"`
	To        *int              `json:"to"`
	Pointer   *dragPointer      `json:"pointer"`
}

// dragPointer is the pointer position over the drop target while dragging.
// When present the move is only applied once the pointer has crossed the
// target's midpoint.
type dragPointer struct {
	Y            float64 `json:"y"`
	TargetTop    float64 `json:"targetTop"`
	TargetBottom float64 `json:"targetBottom"`
}

// ParseMarkdown reports whether the text looks like a table and returns
// the parsed table, or null.
func (h *Handler) ParseMarkdown(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":     markdown.IsValidMarkdownTable(req.Markdown),
		"tableData": markdown.ParseTable(req.Markdown),
	})
}

// ReorderTable moves one row or column and returns the new table with its
// markdown.
func (h *Handler) ReorderTable(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.From == nil || req.To == nil || !validTable(req.TableData) {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	axis, err := editor.ParseAxis(req.Axis)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}

	data, md, err := editor.Reorder(req.TableData, axis, *req.From, *req.To)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	if p := req.Pointer; p != nil && !editor.ShouldCommit(*req.From, *req.To, p.Y, p.TargetTop, p.TargetBottom) {
		c.JSON(http.StatusOK, gin.H{
			"tableData": req.TableData,
			"markdown":  markdown.Serialize(req.TableData),
			"moved":     false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tableData": data, "markdown": md, "moved": true})
}

// SampleTable returns the starter table with its parsed form.
func (h *Handler) SampleTable(c *gin.Context) {
	md := markdown.SampleMarkdown()
	c.JSON(http.StatusOK, gin.H{"markdown": md, "tableData": markdown.ParseTable(md)})
}

// ListPresets returns the preset catalog.
func (h *Handler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, styles.Presets())
}

// GetPreset returns one preset by key.
func (h *Handler) GetPreset(c *gin.Context) {
	preset, ok := styles.Preset(c.Param("key"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "Preset not found")
		return
	}
	c.JSON(http.StatusOK, preset)
}
