package styles

import (
	"html"
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

// RenderTable renders data as an HTML table with inline style attributes.
// Preview and every export path use this function, so the markup for a
// given data/style pair is always identical.
func RenderTable(data *models.TableData, s models.TableStyles) string {
	if data == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString("<table")
	if s.HoverEffects {
		b.WriteString(` class="` + HoverClass + `"`)
	}
	writeStyle(&b, TableAttrs(s))
	b.WriteString(">\n  <thead>\n    <tr>")
	for i, header := range data.Headers {
		b.WriteString("\n      <th")
		writeStyle(&b, CellAttrs(s, Position(-1, len(data.Rows), i, len(data.Headers))))
		b.WriteString(">")
		b.WriteString(html.EscapeString(header))
		b.WriteString("</th>")
	}
	b.WriteString("\n    </tr>\n  </thead>\n  <tbody>")
	for r, row := range data.Rows {
		b.WriteString("\n    <tr")
		if attrs := RowAttrs(s, r); len(attrs) > 0 {
			writeStyle(&b, attrs)
		}
		b.WriteString(">")
		for c, cell := range row {
			b.WriteString("\n      <td")
			writeStyle(&b, CellAttrs(s, Position(r, len(data.Rows), c, len(row))))
			b.WriteString(">")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("\n    </tr>")
	}
	b.WriteString("\n  </tbody>\n</table>")
	return b.String()
}

// RenderPreview returns the table markup preceded by the hover style block, if any.
func RenderPreview(data *models.TableData, s models.TableStyles) string {
	table := RenderTable(data, s)
	if css := HoverCSS(s); css != "" {
		return css + "\n" + table
	}
	return table
}

func writeStyle(b *strings.Builder, d Declarations) {
	b.WriteString(` style="`)
	b.WriteString(html.EscapeString(d.String()))
	b.WriteString(`"`)
}
