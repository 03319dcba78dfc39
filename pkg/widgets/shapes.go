package widgets

import (
	"math"

	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/render"
)

// Rectangle fills or outlines an axis-aligned rect.
//
//	widgets.Rectangle{Rect: r}                                  // filled, theme color
//	widgets.Rectangle{Rect: r, Outline: true, Thickness: 2}     // 2pt outline
type Rectangle struct {
	Rect geometry.Rect
	// Color is the fill or stroke color. Zero uses Theme.ShapeColor.
	Color geometry.Color
	// Outline strokes the rect's edges instead of filling it.
	Outline bool
	// Thickness is the outline width. Zero uses Theme.LineThickness.
	Thickness float64
}

// VisualSignature implements graph.Payload.
func (r Rectangle) VisualSignature() any { return r }

// Bounds implements graph.Bounded.
func (r Rectangle) Bounds() geometry.Rect { return r.Rect }

// Emit implements render.Drawable.
func (r Rectangle) Emit(e *render.Emitter) {
	th := e.Theme()
	color := r.Color.Or(th.ShapeColor)
	if !r.Outline {
		e.Rect(r.Rect, color)
		return
	}
	thickness := r.Thickness
	if thickness <= 0 {
		thickness = th.LineThickness
	}
	strokeRect(e, r.Rect, thickness, color)
}

// strokeRect draws the inside border of rect as four bands.
func strokeRect(e *render.Emitter, rect geometry.Rect, w float64, color geometry.Color) {
	w = min(w, rect.Width()/2, rect.Height()/2)
	if w <= 0 {
		return
	}
	e.Rect(geometry.Rect{Left: rect.Left, Top: rect.Top, Right: rect.Right, Bottom: rect.Top + w}, color)
	e.Rect(geometry.Rect{Left: rect.Left, Top: rect.Bottom - w, Right: rect.Right, Bottom: rect.Bottom}, color)
	e.Rect(geometry.Rect{Left: rect.Left, Top: rect.Top + w, Right: rect.Left + w, Bottom: rect.Bottom - w}, color)
	e.Rect(geometry.Rect{Left: rect.Right - w, Top: rect.Top + w, Right: rect.Right, Bottom: rect.Bottom - w}, color)
}

// BorderedRectangle is a filled rect with a border drawn inside its edges.
type BorderedRectangle struct {
	Rect geometry.Rect
	// Color fills the interior. Zero uses Theme.ShapeColor.
	Color geometry.Color
	// BorderColor strokes the border. Zero uses Theme.BorderColor.
	BorderColor geometry.Color
	// BorderWidth is the border thickness. Zero uses Theme.BorderWidth.
	BorderWidth float64
}

// VisualSignature implements graph.Payload.
func (b BorderedRectangle) VisualSignature() any { return b }

// Bounds implements graph.Bounded.
func (b BorderedRectangle) Bounds() geometry.Rect { return b.Rect }

// Emit implements render.Drawable.
func (b BorderedRectangle) Emit(e *render.Emitter) {
	th := e.Theme()
	width := b.BorderWidth
	if width <= 0 {
		width = th.BorderWidth
	}
	strokeRect(e, b.Rect, width, b.BorderColor.Or(th.BorderColor))
	e.Rect(b.Rect.Inset(width), b.Color.Or(th.ShapeColor))
}

// Oval fills or outlines the ellipse inscribed in Rect.
type Oval struct {
	Rect geometry.Rect
	// Color is the fill or stroke color. Zero uses Theme.ShapeColor.
	Color geometry.Color
	// Outline strokes the ellipse instead of filling it.
	Outline bool
	// Thickness is the outline width. Zero uses Theme.LineThickness.
	Thickness float64
	// Resolution is the number of segments. Zero uses
	// Theme.CircleResolution; values below 3 are raised to 3.
	Resolution int
}

// VisualSignature implements graph.Payload.
func (o Oval) VisualSignature() any { return o }

// Bounds implements graph.Bounded.
func (o Oval) Bounds() geometry.Rect { return o.Rect }

// Emit implements render.Drawable.
func (o Oval) Emit(e *render.Emitter) {
	th := e.Theme()
	res := o.Resolution
	if res == 0 {
		res = th.CircleResolution
	}
	points := ellipse(o.Rect, max(res, 3))
	color := o.Color.Or(th.ShapeColor)
	if !o.Outline {
		e.Polygon(points, color)
		return
	}
	e.Polyline(append(points, points[0]), o.Thickness, color)
}

func ellipse(r geometry.Rect, segments int) []geometry.Point {
	c := r.Center()
	rx, ry := r.Width()/2, r.Height()/2
	points := make([]geometry.Point, segments)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = geometry.Pt(c.X+rx*math.Cos(a), c.Y+ry*math.Sin(a))
	}
	return points
}

// Polygon fills a convex polygon.
type Polygon struct {
	Points []geometry.Point
	// Color is the fill color. Zero uses Theme.ShapeColor.
	Color geometry.Color
}

// VisualSignature implements graph.Payload.
func (p Polygon) VisualSignature() any { return p }

// Bounds implements graph.Bounded.
func (p Polygon) Bounds() geometry.Rect { return boundsOf(p.Points) }

// Emit implements render.Drawable.
func (p Polygon) Emit(e *render.Emitter) {
	e.Polygon(p.Points, p.Color.Or(e.Theme().ShapeColor))
}

// Line strokes a single segment.
type Line struct {
	Start, End geometry.Point
	// Thickness is the stroke width. Zero uses Theme.LineThickness.
	Thickness float64
	// Color is the stroke color. Zero uses Theme.ShapeColor.
	Color geometry.Color
}

// VisualSignature implements graph.Payload.
func (l Line) VisualSignature() any { return l }

// Bounds implements graph.Bounded.
func (l Line) Bounds() geometry.Rect {
	return strokeBounds([]geometry.Point{l.Start, l.End}, l.Thickness)
}

// Emit implements render.Drawable.
func (l Line) Emit(e *render.Emitter) {
	e.Line(l.Start, l.End, l.Thickness, l.Color.Or(e.Theme().ShapeColor))
}

// Polyline strokes connected segments through Points.
type Polyline struct {
	Points []geometry.Point
	// Thickness is the stroke width. Zero uses Theme.LineThickness.
	Thickness float64
	// Color is the stroke color. Zero uses Theme.ShapeColor.
	Color geometry.Color
}

// VisualSignature implements graph.Payload.
func (p Polyline) VisualSignature() any { return p }

// Bounds implements graph.Bounded.
func (p Polyline) Bounds() geometry.Rect { return strokeBounds(p.Points, p.Thickness) }

// Emit implements render.Drawable.
func (p Polyline) Emit(e *render.Emitter) {
	e.Polyline(p.Points, p.Thickness, p.Color.Or(e.Theme().ShapeColor))
}

func boundsOf(points []geometry.Point) geometry.Rect {
	if len(points) == 0 {
		return geometry.Rect{}
	}
	r := geometry.Rect{Left: points[0].X, Top: points[0].Y, Right: points[0].X, Bottom: points[0].Y}
	for _, p := range points[1:] {
		r.Left = min(r.Left, p.X)
		r.Top = min(r.Top, p.Y)
		r.Right = max(r.Right, p.X)
		r.Bottom = max(r.Bottom, p.Y)
	}
	return r
}

// strokeBounds grows the points' bounds by half the stroke width, treating
// an unset width as 1.
func strokeBounds(points []geometry.Point, thickness float64) geometry.Rect {
	if thickness <= 0 {
		thickness = 1
	}
	return boundsOf(points).Inset(-thickness / 2)
}
