package export

import (
	"context"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/styles"
)

// Job describes one export.
type Job struct {
	Format Format
	Data   *models.TableData
	// Markup, when set, replaces the rendering of Data for html, embed and
	// png. It is sanitized before use.
	Markup   string
	Styles   models.TableStyles
	Settings models.ExportSettings
}

// NeedsData reports whether the format is built from cells rather than markup.
func (f Format) NeedsData() bool {
	return f == FormatCSV || f == FormatXLSX
}

// Build produces the artifact for job. r is only used for png and may be
// nil otherwise.
func Build(ctx context.Context, job Job, r Rasterizer) ([]byte, error) {
	if job.Format.NeedsData() || job.Markup == "" {
		if job.Data.IsEmpty() {
			return nil, ErrNoTable
		}
		if err := job.Data.Validate(); err != nil {
			return nil, err
		}
	}
	markup := job.Markup
	if markup == "" {
		markup = styles.RenderTable(job.Data, job.Styles)
	}
	hoverRule := styles.HoverRule(job.Styles)

	switch job.Format {
	case FormatCSV:
		out, err := CSV(job.Data)
		return []byte(out), err
	case FormatXLSX:
		return XLSX(job.Data, job.Styles)
	case FormatHTML:
		out, err := HTMLDocument(markup, hoverRule)
		return []byte(out), err
	case FormatEmbed:
		out, err := EmbedCode(markup, hoverRule)
		return []byte(out), err
	case FormatPNG:
		if r == nil {
			return nil, ErrRasterize
		}
		return r.Rasterize(ctx, markup, hoverRule, job.Settings)
	}
	return nil, ErrUnknownFormat
}
