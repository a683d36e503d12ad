package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

const msgTableDataRequired = "Table data is required"

type suggestionsRequest struct {
	TableData       *models.TableData `json:"tableData"`
	MarkdownContent string            `json:"markdownContent"`
}

type analyzeRequest struct {
	TableData *models.TableData `json:"tableData"`
}

func validTable(data *models.TableData) bool {
	return data != nil && len(data.Headers) > 0 && data.Validate() == nil
}

// StyleSuggestions proposes styles for the posted table.
func (h *Handler) StyleSuggestions(c *gin.Context) {
	var req suggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	if !validTable(req.TableData) {
		abortWithError(c, http.StatusBadRequest, msgTableDataRequired)
		return
	}

	suggestions, err := h.ai.SuggestStyles(c.Request.Context(), req.TableData, req.MarkdownContent)
	if err != nil {
		h.upstreamFailure(c, "style suggestions", "Failed to generate suggestions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// AnalyzeTable describes the posted table.
func (h *Handler) AnalyzeTable(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	if !validTable(req.TableData) {
		abortWithError(c, http.StatusBadRequest, msgTableDataRequired)
		return
	}

	analysis, err := h.ai.AnalyzeTable(c.Request.Context(), req.TableData)
	if err != nil {
		h.upstreamFailure(c, "table analysis", "Failed to analyze table", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
