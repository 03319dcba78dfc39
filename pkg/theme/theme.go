// Package theme holds the default style record applied by built-in widgets
// when their payload leaves a style field unset.
package theme

import (
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/text"
)

// Theme contains the Ui-wide style defaults. It is a plain value: two themes
// are equal when every field is equal, which the primitive cache relies on.
type Theme struct {
	// Name identifies the theme in logs and config files.
	Name string

	// Background is the color a renderer should clear to.
	Background geometry.Color
	// ShapeColor fills shapes that do not set a color.
	ShapeColor geometry.Color
	// BorderColor strokes borders that do not set a color.
	BorderColor geometry.Color
	// BorderWidth is the default border thickness in points.
	BorderWidth float64
	// LabelColor colors text that does not set a color.
	LabelColor geometry.Color

	// Font is used by text that does not set a font.
	Font text.FontID
	// FontSize is the default text size in points.
	FontSize float64

	// LineThickness is the default line thickness in points.
	LineThickness float64
	// CircleResolution is the number of segments used to approximate ovals.
	CircleResolution int
}

// Default returns the default theme.
func Default() *Theme {
	return &Theme{
		Name:             "default",
		Background:       geometry.RGB(0x1e, 0x1e, 0x1e),
		ShapeColor:       geometry.RGB(0xd8, 0xd8, 0xd8),
		BorderColor:      geometry.RGB(0x30, 0x30, 0x30),
		BorderWidth:      1,
		LabelColor:       geometry.RGB(0x10, 0x10, 0x10),
		Font:             0,
		FontSize:         14,
		LineThickness:    1,
		CircleResolution: 32,
	}
}

// Copy returns a copy of t.
func (t *Theme) Copy() *Theme {
	c := *t
	return &c
}
