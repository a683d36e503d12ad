package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

const sheetName = "Sheet1"

var excelBorderStyle = map[models.BorderStyle]int{
	models.BorderSolid:  1,
	models.BorderDashed: 3,
	models.BorderDotted: 4,
}

func excelColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return strings.ToUpper(c)
}

func excelBorders(s models.TableStyles) []excelize.Border {
	style, ok := excelBorderStyle[s.BorderStyle]
	if !ok || s.BorderWidth == 0 {
		return nil
	}
	color := excelColor(s.BorderColor)
	borders := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		borders = append(borders, excelize.Border{Type: side, Color: color, Style: style})
	}
	return borders
}

func cellStyle(s models.TableStyles, fill string, header bool) *excelize.Style {
	st := &excelize.Style{
		Font: &excelize.Font{
			Family: s.FontFamily,
			Size:   float64(s.FontSize),
			Color:  excelColor(s.TextColor),
		},
		Border:    excelBorders(s),
		Alignment: &excelize.Alignment{Horizontal: string(s.TextAlignment), Vertical: "center"},
	}
	if fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{excelColor(fill)}}
	}
	if header && s.HeaderStyling {
		st.Font.Bold = true
	}
	return st
}

func numericCell(v string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// XLSX builds a single-sheet workbook. Header and body cells carry fonts,
// fills and borders derived from the style configuration; numeric cells
// are written as numbers.
func XLSX(data *models.TableData, s models.TableStyles) ([]byte, error) {
	if data.IsEmpty() {
		return nil, ErrNoTable
	}
	f := excelize.NewFile()
	defer f.Close()

	headerFill := s.BackgroundColor
	if s.HeaderStyling {
		headerFill = s.HeaderColor
	}
	headerStyle, err := f.NewStyle(cellStyle(s, headerFill, true))
	if err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(cellStyle(s, s.BackgroundColor, false))
	if err != nil {
		return nil, fmt.Errorf("xlsx body style: %w", err)
	}
	stripeStyle := bodyStyle
	if s.StripedRows {
		// spreadsheet fills have no alpha, approximate the overlay with the header tint
		stripeStyle, err = f.NewStyle(cellStyle(s, s.HeaderColor, false))
		if err != nil {
			return nil, fmt.Errorf("xlsx stripe style: %w", err)
		}
	}

	for c, header := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(sheetName, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for r, row := range data.Rows {
		style := bodyStyle
		if r%2 == 1 {
			style = stripeStyle
		}
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if n, ok := numericCell(value); ok {
				err = f.SetCellFloat(sheetName, cell, n, -1, 64)
			} else {
				err = f.SetCellStr(sheetName, cell, value)
			}
			if err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				return nil, err
			}
		}
	}

	if cols := len(data.Headers); cols > 0 {
		last, err := excelize.ColumnNumberToName(cols)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, "A", last, 18); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
