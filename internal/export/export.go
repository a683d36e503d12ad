// Package export turns a table into downloadable artifacts.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

var (
	// ErrNoTable is returned when there is no table to export.
	ErrNoTable = errors.New("no table to export")
	// ErrRasterize is returned when the table could not be rendered to an image.
	ErrRasterize = errors.New("failed to export table as PNG")
	// ErrClipboardUnsupported is returned when the clipboard cannot take the content.
	ErrClipboardUnsupported = errors.New("clipboard not supported")
	// ErrUnknownFormat is returned for an unsupported export format.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format is an export target.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatHTML  Format = "html"
	FormatEmbed Format = "embed"
	FormatXLSX  Format = "xlsx"
	FormatPNG   Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatHTML, FormatEmbed, FormatXLSX, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the artifact.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML, FormatEmbed:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Filename returns the download name for base.
func (f Format) Filename(base string) string {
	if base == "" {
		base = "table"
	}
	switch f {
	case FormatEmbed:
		return base + "-embed.html"
	default:
		return base + "." + string(f)
	}
}

// CSV joins headers and rows with commas, one line per row.
// Cells are not quoted or escaped, so a cell containing a comma or a
// newline produces a malformed line.
func CSV(data *models.TableData) (string, error) {
	if data.IsEmpty() {
		return "", ErrNoTable
	}
	lines := make([]string, 0, len(data.Rows)+1)
	lines = append(lines, strings.Join(data.Headers, ","))
	for _, row := range data.Rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n"), nil
}
