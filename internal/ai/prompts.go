package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

const (
	suggestionSampleRows = 5
	analysisSampleRows   = 3

	suggestionSystemPrompt = "You are a UI designer specialising in data presentation. " +
		"Propose practical, readable table styles that fit the table's content. Answer with JSON only."
	analysisSystemPrompt = "You are a data analyst. Describe the structure and purpose of a table " +
		"and how it should be formatted. Answer with JSON only."
)

func sampleRows(data *models.TableData, n int) [][]string {
	if len(data.Rows) <= n {
		return data.Rows
	}
	return data.Rows[:n]
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func suggestionPrompt(data *models.TableData, markdown string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest 3 or 4 styles for this table.\n\nHeaders: %s\nRows: %s",
		mustJSON(data.Headers), mustJSON(sampleRows(data, suggestionSampleRows)))
	if len(data.Rows) > suggestionSampleRows {
		b.WriteString(" (truncated)")
	}
	if markdown != "" {
		fmt.Fprintf(&b, "\n\nMarkdown:\n%s", markdown)
	}
	b.WriteString(`

Reply as {"suggestions": [{"name", "description", "reasoning", ` +
		`"category": "professional|casual|technical|creative", "styles": {` +
		`"fontFamily", "fontSize", "textColor", "backgroundColor", "headerColor", "borderColor", ` +
		`"borderStyle": "solid|dashed|dotted|none", "borderWidth", "cellPadding", ` +
		`"textAlignment": "left|center|right", "stripedRows", "hoverEffects", "headerStyling", "roundedCorners"}}]}`)
	return b.String()
}

func analysisPrompt(data *models.TableData) string {
	return fmt.Sprintf("Analyse this table.\n\nHeaders: %s\nSample rows: %s\n\n"+
		`Reply as {"dataTypes": ["text", "numeric", "date", "percentage"], "purpose": "...", "recommendations": ["..."]}`,
		mustJSON(data.Headers), mustJSON(sampleRows(data, analysisSampleRows)))
}
