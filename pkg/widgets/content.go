package widgets

import (
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/images"
	"github.com/go-drift/retain/pkg/render"
	"github.com/go-drift/retain/pkg/text"
)

// Image draws a texture registered in the Ui's image map.
//
// An id the renderer cannot resolve drops this widget from the frame and is
// reported as a resource error; the rest of the frame still draws.
type Image struct {
	ID   images.ID
	Rect geometry.Rect
	// Source selects a region of the texture in pixels. Zero draws the
	// whole texture.
	Source geometry.Rect
	// Color tints the texture. Zero draws it untinted.
	Color geometry.Color
}

// VisualSignature implements graph.Payload.
func (i Image) VisualSignature() any { return i }

// Bounds implements graph.Bounded.
func (i Image) Bounds() geometry.Rect { return i.Rect }

// Emit implements render.Drawable.
func (i Image) Emit(e *render.Emitter) {
	e.Image(render.ImageData{ID: i.ID, Rect: i.Rect, Source: i.Source, Color: i.Color})
}

// Text draws a single-style run of text. Newlines start a new line.
//
// Text has no layout box of its own: Origin is the pen position on the first
// baseline. Set Rect to give the widget a hit-test area.
type Text struct {
	Text   string
	Origin geometry.Point
	// Rect is the hit-test area. It does not clip.
	Rect geometry.Rect
	// Font selects the face. Zero uses Theme.Font unless FontSet is true.
	Font text.FontID
	// FontSet selects Font even when it is zero.
	FontSet bool
	// Size is the font size in points. Zero uses Theme.FontSize.
	Size float64
	// Color is the text color. Zero uses Theme.LabelColor.
	Color geometry.Color
}

// VisualSignature implements graph.Payload.
func (t Text) VisualSignature() any { return t }

// Bounds implements graph.Bounded.
func (t Text) Bounds() geometry.Rect { return t.Rect }

// Emit implements render.Drawable.
func (t Text) Emit(e *render.Emitter) {
	th := e.Theme()
	font := t.Font
	if font == 0 && !t.FontSet {
		font = th.Font
	}
	size := t.Size
	if size <= 0 {
		size = th.FontSize
	}
	e.Text(render.TextData{
		Text:   t.Text,
		Font:   font,
		Size:   size,
		Origin: t.Origin,
		Color:  t.Color.Or(th.LabelColor),
	})
}

// Clip restricts its descendants to Rect. It draws nothing itself.
type Clip struct {
	Rect geometry.Rect
}

// VisualSignature implements graph.Payload.
func (c Clip) VisualSignature() any { return c }

// ClipRect implements graph.Clipper.
func (c Clip) ClipRect() geometry.Rect { return c.Rect }

// Canvas is a bordered background that clips itself and its descendants
// to Rect.
//
//	cell.Set(ids.At(0), widgets.Canvas{Rect: r})
//	cell.SetIn(ids.At(1), ids.At(0), widgets.Text{Text: "inside", Origin: p})
type Canvas struct {
	Rect geometry.Rect
	// Color fills the background. Zero uses Theme.Background.
	Color geometry.Color
	// BorderColor strokes the border. Zero uses Theme.BorderColor.
	BorderColor geometry.Color
	// BorderWidth is the border thickness. Zero uses Theme.BorderWidth.
	BorderWidth float64
}

// VisualSignature implements graph.Payload.
func (c Canvas) VisualSignature() any { return c }

// Bounds implements graph.Bounded.
func (c Canvas) Bounds() geometry.Rect { return c.Rect }

// ClipRect implements graph.Clipper.
func (c Canvas) ClipRect() geometry.Rect { return c.Rect }

// Emit implements render.Drawable.
func (c Canvas) Emit(e *render.Emitter) {
	BorderedRectangle{
		Rect:        c.Rect,
		Color:       c.Color.Or(e.Theme().Background),
		BorderColor: c.BorderColor,
		BorderWidth: c.BorderWidth,
	}.Emit(e)
}
