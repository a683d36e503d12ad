package markdown

import (
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

// Serialize writes data back as a pipe table. Alignment markers and cell
// padding from the original source are not preserved.
func Serialize(data *models.TableData) string {
	if data == nil || len(data.Headers) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow(&b, data.Headers)

	b.WriteString("\n|")
	for range data.Headers {
		b.WriteString(" --- |")
	}

	for _, row := range data.Rows {
		b.WriteString("\n")
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(cell))
		b.WriteString(" |")
	}
}

func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\r\n", " ")
	cell = strings.ReplaceAll(cell, "\n", " ")
	return strings.ReplaceAll(cell, "|", `\|`)
}
