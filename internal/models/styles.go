package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// BorderStyle is the CSS border style applied to the table and its cells.
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
	BorderNone   BorderStyle = "none"
)

// TextAlignment is the horizontal alignment of cell text.
type TextAlignment string

const (
	AlignLeft   TextAlignment = "left"
	AlignCenter TextAlignment = "center"
	AlignRight  TextAlignment = "right"
)

// ErrInvalidStyles is returned when a style configuration fails validation.
var ErrInvalidStyles = errors.New("invalid table styles")

// colorPattern accepts hex colours, rgb()/hsl() functions and named colours.
var colorPattern = regexp.MustCompile(`^(#[0-9A-Fa-f]{3,8}|[A-Za-z]+|(rgb|rgba|hsl|hsla)\([0-9.,%/ ]+\))$`)

// ValidColor reports whether c is a CSS colour that is safe to embed in a
// style attribute or rule.
func ValidColor(c string) bool {
	return colorPattern.MatchString(strings.TrimSpace(c))
}

// TableStyles is the flat style configuration applied to a rendered table.
type TableStyles struct {
	FontFamily      string        `json:"fontFamily" yaml:"fontFamily"`
	FontSize        int           `json:"fontSize" yaml:"fontSize"`
	TextColor       string        `json:"textColor" yaml:"textColor"`
	BackgroundColor string        `json:"backgroundColor" yaml:"backgroundColor"`
	HeaderColor     string        `json:"headerColor" yaml:"headerColor"`
	BorderColor     string        `json:"borderColor" yaml:"borderColor"`
	BorderStyle     BorderStyle   `json:"borderStyle" yaml:"borderStyle"`
	BorderWidth     int           `json:"borderWidth" yaml:"borderWidth"`
	CellPadding     int           `json:"cellPadding" yaml:"cellPadding"`
	TextAlignment   TextAlignment `json:"textAlignment" yaml:"textAlignment"`
	StripedRows     bool          `json:"stripedRows" yaml:"stripedRows"`
	HoverEffects    bool          `json:"hoverEffects" yaml:"hoverEffects"`
	HeaderStyling   bool          `json:"headerStyling" yaml:"headerStyling"`
	RoundedCorners  bool          `json:"roundedCorners" yaml:"roundedCorners"`
}

// DefaultStyles returns the style configuration a new session starts with.
func DefaultStyles() TableStyles {
	return TableStyles{
		FontFamily:      "Inter",
		FontSize:        14,
		TextColor:       "#1F2937",
		BackgroundColor: "#FFFFFF",
		HeaderColor:     "#F9FAFB",
		BorderColor:     "#E5E7EB",
		BorderStyle:     BorderSolid,
		BorderWidth:     1,
		CellPadding:     12,
		TextAlignment:   AlignLeft,
		StripedRows:     true,
		HoverEffects:    false,
		HeaderStyling:   true,
		RoundedCorners:  false,
	}
}

// Validate checks enum membership and size bounds.
func (s TableStyles) Validate() error {
	switch s.BorderStyle {
	case BorderSolid, BorderDashed, BorderDotted, BorderNone:
	default:
		return fmt.Errorf("%w: border style %q", ErrInvalidStyles, s.BorderStyle)
	}
	switch s.TextAlignment {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return fmt.Errorf("%w: text alignment %q", ErrInvalidStyles, s.TextAlignment)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidStyles)
	}
	if s.BorderWidth < 0 || s.CellPadding < 0 {
		return fmt.Errorf("%w: border width and cell padding must not be negative", ErrInvalidStyles)
	}
	colors := []struct{ name, value string }{
		{"text color", s.TextColor},
		{"background color", s.BackgroundColor},
		{"header color", s.HeaderColor},
		{"border color", s.BorderColor},
	}
	for _, c := range colors {
		if !ValidColor(c.value) {
			return fmt.Errorf("%w: %s %q", ErrInvalidStyles, c.name, c.value)
		}
	}
	if strings.ContainsAny(s.FontFamily, "<>{};\\") {
		return fmt.Errorf("%w: font family %q", ErrInvalidStyles, s.FontFamily)
	}
	return nil
}

// PartialStyles carries only the fields a suggestion wants to override.
type PartialStyles struct {
	FontFamily      *string        `json:"fontFamily,omitempty"`
	FontSize        *int           `json:"fontSize,omitempty"`
	TextColor       *string        `json:"textColor,omitempty"`
	BackgroundColor *string        `json:"backgroundColor,omitempty"`
	HeaderColor     *string        `json:"headerColor,omitempty"`
	BorderColor     *string        `json:"borderColor,omitempty"`
	BorderStyle     *BorderStyle   `json:"borderStyle,omitempty"`
	BorderWidth     *int           `json:"borderWidth,omitempty"`
	CellPadding     *int           `json:"cellPadding,omitempty"`
	TextAlignment   *TextAlignment `json:"textAlignment,omitempty"`
	StripedRows     *bool          `json:"stripedRows,omitempty"`
	HoverEffects    *bool          `json:"hoverEffects,omitempty"`
	HeaderStyling   *bool          `json:"headerStyling,omitempty"`
	RoundedCorners  *bool          `json:"roundedCorners,omitempty"`
}

// Apply shallow-merges the present fields over base.
func (p PartialStyles) Apply(base TableStyles) TableStyles {
	out := base
	if p.FontFamily != nil {
		out.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.TextColor != nil {
		out.TextColor = *p.TextColor
	}
	if p.BackgroundColor != nil {
		out.BackgroundColor = *p.BackgroundColor
	}
	if p.HeaderColor != nil {
		out.HeaderColor = *p.HeaderColor
	}
	if p.BorderColor != nil {
		out.BorderColor = *p.BorderColor
	}
	if p.BorderStyle != nil {
		out.BorderStyle = *p.BorderStyle
	}
	if p.BorderWidth != nil {
		out.BorderWidth = *p.BorderWidth
	}
	if p.CellPadding != nil {
		out.CellPadding = *p.CellPadding
	}
	if p.TextAlignment != nil {
		out.TextAlignment = *p.TextAlignment
	}
	if p.StripedRows != nil {
		out.StripedRows = *p.StripedRows
	}
	if p.HoverEffects != nil {
		out.HoverEffects = *p.HoverEffects
	}
	if p.HeaderStyling != nil {
		out.HeaderStyling = *p.HeaderStyling
	}
	if p.RoundedCorners != nil {
		out.RoundedCorners = *p.RoundedCorners
	}
	return out
}

// Full returns a PartialStyles that sets every field from s.
func (s TableStyles) Full() PartialStyles {
	return PartialStyles{
		FontFamily:      &s.FontFamily,
		FontSize:        &s.FontSize,
		TextColor:       &s.TextColor,
		BackgroundColor: &s.BackgroundColor,
		HeaderColor:     &s.HeaderColor,
		BorderColor:     &s.BorderColor,
		BorderStyle:     &s.BorderStyle,
		BorderWidth:     &s.BorderWidth,
		CellPadding:     &s.CellPadding,
		TextAlignment:   &s.TextAlignment,
		StripedRows:     &s.StripedRows,
		HoverEffects:    &s.HoverEffects,
		HeaderStyling:   &s.HeaderStyling,
		RoundedCorners:  &s.RoundedCorners,
	}
}

// StyleBlob is a style configuration persisted verbatim as a JSON object.
// The storage layer never interprets it.
type StyleBlob json.RawMessage

// NewStyleBlob encodes s as a blob.
func NewStyleBlob(s TableStyles) StyleBlob {
	b, _ := json.Marshal(s)
	return StyleBlob(b)
}

// Decode overlays the blob on the default styles.
func (b StyleBlob) Decode() (TableStyles, error) {
	out := DefaultStyles()
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode style blob: %w", err)
	}
	return out, nil
}

// IsObject reports whether the blob holds a JSON object.
func (b StyleBlob) IsObject() bool {
	var m map[string]json.RawMessage
	return len(b) > 0 && json.Unmarshal(b, &m) == nil && m != nil
}

// MarshalJSON emits the blob as-is.
func (b StyleBlob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return []byte(b), nil
}

// UnmarshalJSON stores a copy of the raw value.
func (b *StyleBlob) UnmarshalJSON(data []byte) error {
	if b == nil {
		return errors.New("models.StyleBlob: UnmarshalJSON on nil pointer")
	}
	*b = append((*b)[0:0], data...)
	return nil
}

// Value stores the blob as JSON text so every supported driver accepts it.
func (b StyleBlob) Value() (driver.Value, error) {
	if len(b) == 0 {
		return "{}", nil
	}
	return string(b), nil
}

// Scan reads JSON text or bytes.
func (b *StyleBlob) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = nil
	case []byte:
		*b = append(StyleBlob(nil), v...)
	case string:
		*b = StyleBlob(v)
	default:
		return fmt.Errorf("cannot scan %T into StyleBlob", src)
	}
	return nil
}
