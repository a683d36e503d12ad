package api

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/export"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/markdown"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/styles"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// tableRequest names a table and the styles to render it with. The table
// comes from tableData or, failing that, from parsing markdown. Styles
// start from the preset (or the defaults) and the partial overrides win.
type tableRequest struct {
	TableData *models.TableData     `json:"tableData"`
	Markdown  string                `json:"markdown"`
	Preset    string                `json:"preset"`
	Styles    *models.PartialStyles `json:"styles"`
}

func (r tableRequest) resolveTable() (*models.TableData, error) {
	data := r.TableData
	if data == nil && r.Markdown != "" {
		data = markdown.ParseTable(r.Markdown)
	}
	if data.IsEmpty() {
		return nil, export.ErrNoTable
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func (r tableRequest) resolveStyles() (models.TableStyles, error) {
	base := models.DefaultStyles()
	if r.Preset != "" {
		var err error
		if base, err = styles.ApplyPreset(r.Preset); err != nil {
			return base, err
		}
	}
	if r.Styles != nil {
		base = r.Styles.Apply(base)
	}
	return base, base.Validate()
}

type exportRequest struct {
	tableRequest
	// TableHTML is client-captured table markup used for html, embed and
	// png instead of the server rendering.
	TableHTML string                 `json:"tableHtml"`
	Settings  *models.ExportSettings `json:"settings"`
	Filename  string                 `json:"filename"`
}

// Render returns the styled HTML fragment for a table.
func (h *Handler) Render(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	data, err := req.resolveTable()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	s, err := req.resolveStyles()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"html":     styles.RenderTable(data, s),
		"hoverCss": styles.HoverCSS(s),
		"styles":   s,
	})
}

// Export produces a downloadable artifact in the :format of the path.
func (h *Handler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Unknown export format")
		return
	}
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	s, err := req.resolveStyles()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	settings := models.DefaultExportSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := export.ValidateSettings(settings); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	if format == export.FormatPNG && h.rasterizer == nil {
		abortWithError(c, http.StatusServiceUnavailable, "PNG export is not available")
		return
	}

	body, err := h.buildExport(c, format, req, s, settings)
	h.metrics.ObserveExport(string(format), err)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrNoTable), errors.Is(err, models.ErrRaggedRow):
			abortWithError(c, http.StatusBadRequest, export.ErrNoTable.Error())
		case errors.Is(err, export.ErrRasterize):
			h.upstreamFailure(c, "png export", export.ErrRasterize.Error(), err)
		default:
			h.internalError(c, "export "+string(format), err)
		}
		return
	}

	name := "table"
	if filenamePattern.MatchString(req.Filename) {
		name = req.Filename
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(name)))
	c.Data(http.StatusOK, format.ContentType(), body)
}

func (h *Handler) buildExport(c *gin.Context, format export.Format, req exportRequest, s models.TableStyles, settings models.ExportSettings) ([]byte, error) {
	data, err := req.resolveTable()
	if err != nil && (req.TableHTML == "" || format.NeedsData()) {
		return nil, err
	}
	job := export.Job{
		Format:   format,
		Data:     data,
		Markup:   req.TableHTML,
		Styles:   s,
		Settings: settings,
	}
	return export.Build(c.Request.Context(), job, h.rasterizer)
}
