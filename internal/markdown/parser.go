// Package markdown converts between markdown text and the table model.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.Table))

	separatorPattern = regexp.MustCompile(`^\s*\|?[\s\-|:]+\|?\s*$`)
)

// ParseTable extracts the first table in text. It returns nil when there is
// no table, when the table is empty, or when a body row has a different cell
// count than the header. It never panics.
func ParseTable(markdown string) (table *models.TableData) {
	defer func() {
		if r := recover(); r != nil {
			table = nil
		}
	}()

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var node *extast.Table
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*extast.Table); ok && entering {
			node = t
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if node == nil {
		return nil
	}

	result := &models.TableData{Headers: []string{}, Rows: [][]string{}}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			result.Headers = append(result.Headers, rowCells(row, source)...)
		case *extast.TableRow:
			cells := rowCells(row, source)
			if len(cells) == 0 {
				continue
			}
			// goldmark pads short rows and drops extra cells; check the source line instead.
			if n, ok := sourceCellCount(row, source); ok && n != len(result.Headers) {
				return nil
			}
			result.Rows = append(result.Rows, cells)
		}
	}

	if result.IsEmpty() {
		return nil
	}
	return result
}

// IsValidMarkdownTable is a cheap check: at least two lines, the second of
// which looks like a separator row. It does not guarantee ParseTable succeeds.
func IsValidMarkdownTable(markdown string) bool {
	lines := strings.Split(strings.TrimSpace(markdown), "\n")
	if len(lines) < 2 {
		return false
	}
	return separatorPattern.MatchString(lines[1])
}

// SampleMarkdown returns the table shown to first-time users.
func SampleMarkdown() string {
	return `| Name | Age | City | Occupation |
|------|-----|------|------------|
| John Doe | 25 | New York | Designer |
| Jane Smith | 30 | Los Angeles | Developer |
| Bob Johnson | 35 | Chicago | Manager |
| Alice Brown | 28 | Seattle | Analyst |`
}

func rowCells(row ast.Node, source []byte) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cell, ok := c.(*extast.TableCell)
		if !ok {
			continue
		}
		cells = append(cells, cellContent(cell, source))
	}
	return cells
}

// cellContent returns the raw inline source of a cell.
func cellContent(cell *extast.TableCell, source []byte) string {
	var buf bytes.Buffer
	lines := cell.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.ReplaceAll(strings.TrimSpace(buf.String()), `\|`, "|")
}

// sourceCellCount counts the cells written on the source line of row.
func sourceCellCount(row *extast.TableRow, source []byte) (int, bool) {
	first, ok := row.FirstChild().(*extast.TableCell)
	if !ok || first.Lines().Len() == 0 {
		return 0, false
	}
	offset := first.Lines().At(0).Start
	start := bytes.LastIndexByte(source[:offset], '\n') + 1
	end := bytes.IndexByte(source[offset:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += offset
	}
	return countCells(string(source[start:end])), true
}

func countCells(line string) int {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}
	if line == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(line); i++ {
		if line[i] == '|' && (i == 0 || line[i-1] != '\\') {
			n++
		}
	}
	return n
}
