// Package styles maps a TableStyles configuration to per-element CSS.
package styles

import (
	"fmt"
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

const (
	cornerRadius = "8px"
	stripeAlpha  = "dd"
	hoverAlpha   = "bb"

	// HoverClass is set on tables whose rows react to hover.
	HoverClass = "hover-enabled"
)

// Declaration is a single CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Declarations is an ordered CSS declaration list.
type Declarations []Declaration

func (d Declarations) add(property, value string) Declarations {
	return append(d, Declaration{Property: property, Value: value})
}

// Get returns the value of property and whether it is present.
func (d Declarations) Get(property string) (string, bool) {
	for _, decl := range d {
		if decl.Property == property {
			return decl.Value, true
		}
	}
	return "", false
}

// String renders the list as the body of a style attribute.
func (d Declarations) String() string {
	parts := make([]string, len(d))
	for i, decl := range d {
		parts[i] = decl.Property + ": " + decl.Value
	}
	return strings.Join(parts, "; ")
}

// CellPosition locates a cell inside the rendered table. The header row is
// the first row; the last body row (or the header when there is no body)
// is the last row.
type CellPosition struct {
	Header    bool
	FirstRow  bool
	LastRow   bool
	FirstCell bool
	LastCell  bool
}

// Position computes the CellPosition of a cell. rowIndex is -1 for the header row.
func Position(rowIndex, rowCount, colIndex, colCount int) CellPosition {
	header := rowIndex < 0
	return CellPosition{
		Header:    header,
		FirstRow:  header,
		LastRow:   (header && rowCount == 0) || (!header && rowIndex == rowCount-1),
		FirstCell: colIndex == 0,
		LastCell:  colIndex == colCount-1,
	}
}

func borderWidth(s models.TableStyles) string {
	if s.BorderStyle == models.BorderNone {
		return "0"
	}
	return px(s.BorderWidth)
}

func px(n int) string {
	return fmt.Sprintf("%dpx", n)
}

// TableAttrs returns the declarations of the table element.
func TableAttrs(s models.TableStyles) Declarations {
	var d Declarations
	d = d.add("font-family", s.FontFamily)
	d = d.add("font-size", px(s.FontSize))
	d = d.add("color", s.TextColor)
	d = d.add("background-color", s.BackgroundColor)
	d = d.add("border-color", s.BorderColor)
	d = d.add("border-style", string(s.BorderStyle))
	d = d.add("border-width", borderWidth(s))
	if s.RoundedCorners {
		// collapsed borders cannot be rounded per cell
		d = d.add("border-collapse", "separate")
		d = d.add("border-spacing", "0")
		d = d.add("border-radius", cornerRadius)
		d = d.add("overflow", "hidden")
	} else {
		d = d.add("border-collapse", "collapse")
	}
	d = d.add("width", "100%")
	return d
}

// CellAttrs returns the declarations of a th or td element.
func CellAttrs(s models.TableStyles, pos CellPosition) Declarations {
	var d Declarations
	d = d.add("padding", px(s.CellPadding))
	d = d.add("text-align", string(s.TextAlignment))
	d = d.add("border-color", s.BorderColor)
	d = d.add("border-style", string(s.BorderStyle))
	d = d.add("border-width", borderWidth(s))

	if pos.Header && s.HeaderStyling {
		d = d.add("background-color", s.HeaderColor)
		d = d.add("font-weight", "600")
		d = d.add("text-transform", "uppercase")
		d = d.add("font-size", "0.75rem")
		d = d.add("letter-spacing", "0.05em")
	}

	if s.RoundedCorners {
		if pos.FirstRow && pos.FirstCell {
			d = d.add("border-top-left-radius", cornerRadius)
		}
		if pos.FirstRow && pos.LastCell {
			d = d.add("border-top-right-radius", cornerRadius)
		}
		if pos.LastRow && pos.FirstCell {
			d = d.add("border-bottom-left-radius", cornerRadius)
		}
		if pos.LastRow && pos.LastCell {
			d = d.add("border-bottom-right-radius", cornerRadius)
		}
	}
	return d
}

// RowAttrs returns the declarations of a body row. rowIndex is 0-based.
func RowAttrs(s models.TableStyles, rowIndex int) Declarations {
	var d Declarations
	if s.StripedRows && rowIndex%2 == 1 {
		d = d.add("background-color", WithAlpha(s.BackgroundColor, stripeAlpha))
	}
	if s.HoverEffects {
		d = d.add("transition", "background-color 0.15s ease-in-out")
	}
	return d
}

// HoverRule returns the CSS rule for row hover, or "" when hover is off.
// :hover cannot be expressed in an inline style attribute.
func HoverRule(s models.TableStyles) string {
	if !s.HoverEffects {
		return ""
	}
	return fmt.Sprintf(".%s tbody tr:hover { background-color: %s !important; }",
		HoverClass, WithAlpha(s.BackgroundColor, hoverAlpha))
}

// HoverCSS wraps HoverRule in a style element.
func HoverCSS(s models.TableStyles) string {
	rule := HoverRule(s)
	if rule == "" {
		return ""
	}
	return "<style>\n" + rule + "\n</style>"
}

// WithAlpha appends a two-digit hex alpha to a #rgb or #rrggbb colour.
// Other colour syntaxes are returned unchanged.
func WithAlpha(color, alpha string) string {
	if !strings.HasPrefix(color, "#") {
		return color
	}
	hex := color[1:]
	if !isHex(hex) {
		return color
	}
	switch len(hex) {
	case 3:
		return "#" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + alpha
	case 6:
		return color + alpha
	}
	return color
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
