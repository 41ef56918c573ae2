// Package style defines the resolved style record consumed by the box tree
// builder. Cascade computation is an external collaborator; this package
// only represents its output, plus a default user-agent resolver.
package style

import (
	"strconv"
	"strings"
)

// Style is a resolved per-node style: a flat property map with typed
// getters. Values use the usual CSS textual forms ("10px", "#ff0000",
// "block").
type Style struct {
	properties map[string]string
}

func New() *Style {
	return &Style{properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.properties[property] = value
}

// Merge copies every property of other into s, overwriting existing values.
func (s *Style) Merge(other *Style) {
	for k, v := range other.properties {
		s.properties[k] = v
	}
}

// Clone returns an independent copy.
func (s *Style) Clone() *Style {
	c := New()
	c.Merge(s)
	return c
}

// DisplayType is the subset of display values the box model understands.
type DisplayType string

const (
	DisplayBlock  DisplayType = "block"
	DisplayInline DisplayType = "inline"
	DisplayNone   DisplayType = "none"
)

func (s *Style) GetDisplay() DisplayType {
	switch s.properties["display"] {
	case "none":
		return DisplayNone
	case "inline":
		return DisplayInline
	default:
		return DisplayBlock
	}
}

// BoxEdge holds per-side lengths for margin, padding, or border.
type BoxEdge struct {
	Top, Right, Bottom, Left float64
}

func (s *Style) GetMargin() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("margin-top"),
		Right:  s.getLengthOrZero("margin-right"),
		Bottom: s.getLengthOrZero("margin-bottom"),
		Left:   s.getLengthOrZero("margin-left"),
	}
}

func (s *Style) GetPadding() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("padding-top"),
		Right:  s.getLengthOrZero("padding-right"),
		Bottom: s.getLengthOrZero("padding-bottom"),
		Left:   s.getLengthOrZero("padding-left"),
	}
}

func (s *Style) getLengthOrZero(property string) float64 {
	if val, ok := s.properties[property]; ok {
		if length, ok := ParseLength(val); ok {
			return length
		}
	}
	return 0
}

// GetLength returns a parsed length property and whether it was present.
func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.properties[property]
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses "12px", "12", or "12.5px" into a float. Percentages
// and other units are not part of this simplified model.
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

const defaultFontSize = 16.0

func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok && size > 0 {
		return size
	}
	return defaultFontSize
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

func (s *Style) GetFontWeight() FontWeight {
	if w, ok := s.properties["font-weight"]; ok {
		if w == "bold" || w == "700" || w == "800" || w == "900" {
			return FontWeightBold
		}
	}
	return FontWeightNormal
}

func (s *Style) GetFontStyle() string {
	if v, ok := s.properties["font-style"]; ok {
		return v
	}
	return "normal"
}

func (s *Style) GetColor() Color {
	if val, ok := s.properties["color"]; ok {
		if c, ok := ParseColor(val); ok {
			return c
		}
	}
	return Color{R: 0, G: 0, B: 0, A: 255} // black
}

// GetBackgroundColor returns the background color, if any. No background
// is distinct from a transparent one.
func (s *Style) GetBackgroundColor() (Color, bool) {
	val, ok := s.properties["background-color"]
	if !ok {
		return Color{}, false
	}
	c, ok := ParseColor(val)
	if !ok || c.A == 0 {
		return Color{}, false
	}
	return c, true
}
