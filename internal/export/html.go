package export

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

// inlineProperties are the table-level properties copied into the
// exported stylesheet.
var inlineProperties = []string{
	"font-family", "font-size", "color", "background-color",
	"border", "border-collapse", "padding", "text-align",
}

var tableElements = []string{"table", "caption", "thead", "tbody", "tfoot", "tr", "th", "td"}

var tablePolicy = newTablePolicy()

var (
	documentTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ title }}</title>
    <style>
        body { font-family: Inter, sans-serif; margin: 20px; }
        table { {{ table_css|safe }} width: 100%; }
        table th, table td { padding: inherit; border: inherit; text-align: inherit; }
        table th { background-color: inherit; font-weight: 600; }
{% if hover_rule %}        {{ hover_rule|safe }}
{% endif %}    </style>
</head>
<body>
    {{ table|safe }}
</body>
</html>
`))

	embedTemplate = pongo2.Must(pongo2.FromString(`<div class="markdown-table-embed" style="overflow-x: auto; max-width: 100%;">
<style>
.markdown-table-embed table { {{ table_css|safe }} }
{% if hover_rule %}.markdown-table-embed {{ hover_rule|safe }}
{% endif %}</style>
{{ table|safe }}
</div>
`))
)

func newTablePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(tableElements...)
	p.AllowElements("b", "strong", "i", "em", "code", "br", "span")
	p.AllowAttrs("style").OnElements(append(tableElements, "span")...)
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements(tableElements...)
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")
	return p
}

// SanitizeTable strips everything but the first table element of markup
// and returns it. Scripts, handlers and foreign elements are removed.
func SanitizeTable(markup string) (string, error) {
	clean := tablePolicy.Sanitize(markup)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return "", fmt.Errorf("parse table markup: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return "", ErrNoTable
	}
	out, err := goquery.OuterHtml(table)
	if err != nil {
		return "", fmt.Errorf("render table markup: %w", err)
	}
	return out, nil
}

// TableCSS extracts the allow-listed properties from the inline style of
// the first table in markup. A "border" shorthand is synthesized from the
// longhand width, style and color when it is absent.
func TableCSS(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse table markup: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return "", ErrNoTable
	}
	style, _ := table.Attr("style")
	props := parseInlineStyle(style)
	if _, ok := props["border"]; !ok {
		var parts []string
		for _, key := range []string{"border-width", "border-style", "border-color"} {
			if v := props[key]; v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) > 0 {
			props["border"] = strings.Join(parts, " ")
		}
	}

	var b strings.Builder
	for _, key := range inlineProperties {
		if v, ok := props[key]; ok {
			b.WriteString(key + ": " + v + "; ")
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func parseInlineStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" || !safeCSSValue(value) {
			continue
		}
		props[key] = value
	}
	return props
}

// safeCSSValue rejects values that could close the surrounding rule or element.
func safeCSSValue(v string) bool {
	return !strings.ContainsAny(v, "<>{}\\")
}

// safeHoverRule drops a hover rule that could close the style element it is
// embedded in.
func safeHoverRule(rule string) string {
	if strings.ContainsAny(rule, "<>") {
		return ""
	}
	return rule
}

func renderTable(tmpl *pongo2.Template, markup, hoverRule, title string) (string, error) {
	table, err := SanitizeTable(markup)
	if err != nil {
		return "", err
	}
	css, err := TableCSS(table)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(pongo2.Context{
		"title":      title,
		"table":      table,
		"table_css":  css,
		"hover_rule": safeHoverRule(hoverRule),
	})
	if err != nil {
		return "", fmt.Errorf("render export template: %w", err)
	}
	return out, nil
}

// HTMLDocument wraps table markup in a standalone HTML page.
// hoverRule may be empty.
func HTMLDocument(markup, hoverRule string) (string, error) {
	return renderTable(documentTemplate, markup, hoverRule, "Exported Table")
}

// EmbedCode wraps table markup in a scrollable container with a scoped
// style block, suitable for pasting into another page.
func EmbedCode(markup, hoverRule string) (string, error) {
	return renderTable(embedTemplate, markup, hoverRule, "")
}
