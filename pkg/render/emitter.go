package render

import (
	"math"

	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/theme"
)

// Emitter records the primitives of a single node. Every primitive it
// records carries the node's id and effective clip.
type Emitter struct {
	id    graph.ID
	clip  geometry.Rect
	theme *theme.Theme
	prims []Primitive
}

// NewEmitter returns an emitter for node id drawing under clip. It is
// exported for payload tests; the stream creates its own.
func NewEmitter(id graph.ID, clip geometry.Rect, th *theme.Theme) *Emitter {
	if th == nil {
		th = theme.Default()
	}
	return &Emitter{id: id, clip: clip, theme: th}
}

// ID returns the node being drawn.
func (e *Emitter) ID() graph.ID { return e.id }

// Clip returns the node's effective clip.
func (e *Emitter) Clip() geometry.Rect { return e.clip }

// Theme returns the Ui theme. It must not be modified.
func (e *Emitter) Theme() *theme.Theme { return e.theme }

// Primitives returns what has been recorded so far.
func (e *Emitter) Primitives() []Primitive { return e.prims }

// Triangles records a shape. Consecutive shape calls from one node are
// merged into a single primitive.
func (e *Emitter) Triangles(tris ...Triangle) {
	if len(tris) == 0 {
		return
	}
	if n := len(e.prims); n > 0 && e.prims[n-1].Kind == KindShape {
		e.prims[n-1].Triangles = append(e.prims[n-1].Triangles, tris...)
		return
	}
	e.prims = append(e.prims, Primitive{
		ID:        e.id,
		Kind:      KindShape,
		Clip:      e.clip,
		Triangles: append([]Triangle(nil), tris...),
	})
}

// Rect fills r with c.
func (e *Emitter) Rect(r geometry.Rect, c geometry.Color) {
	if r.IsEmpty() {
		return
	}
	tl := ColoredPoint{Pos: geometry.Pt(r.Left, r.Top), Color: c}
	tr := ColoredPoint{Pos: geometry.Pt(r.Right, r.Top), Color: c}
	br := ColoredPoint{Pos: geometry.Pt(r.Right, r.Bottom), Color: c}
	bl := ColoredPoint{Pos: geometry.Pt(r.Left, r.Bottom), Color: c}
	e.Triangles(Triangle{tl, tr, br}, Triangle{tl, br, bl})
}

// Polygon fills a convex polygon as a triangle fan. Fewer than three points
// draw nothing.
func (e *Emitter) Polygon(points []geometry.Point, c geometry.Color) {
	if len(points) < 3 {
		return
	}
	tris := make([]Triangle, 0, len(points)-2)
	first := ColoredPoint{Pos: points[0], Color: c}
	for i := 1; i+1 < len(points); i++ {
		tris = append(tris, Triangle{
			first,
			{Pos: points[i], Color: c},
			{Pos: points[i+1], Color: c},
		})
	}
	e.Triangles(tris...)
}

// Line strokes the segment a→b as a quad of the given thickness.
// A non-positive thickness uses the theme's line thickness.
func (e *Emitter) Line(a, b geometry.Point, thickness float64, c geometry.Color) {
	if thickness <= 0 {
		thickness = e.theme.LineThickness
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 || thickness <= 0 {
		return
	}
	half := thickness / 2
	nx, ny := -dy/length*half, dx/length*half
	n := geometry.Pt(nx, ny)
	e.Polygon([]geometry.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, c)
}

// Polyline strokes consecutive segments through points.
func (e *Emitter) Polyline(points []geometry.Point, thickness float64, c geometry.Color) {
	for i := 1; i < len(points); i++ {
		e.Line(points[i-1], points[i], thickness, c)
	}
}

// Image records a textured quad.
func (e *Emitter) Image(data ImageData) {
	if data.Rect.IsEmpty() {
		return
	}
	e.prims = append(e.prims, Primitive{ID: e.id, Kind: KindImage, Clip: e.clip, Image: data})
}

// Text records a run of text. Empty strings draw nothing.
func (e *Emitter) Text(data TextData) {
	if data.Text == "" {
		return
	}
	e.prims = append(e.prims, Primitive{ID: e.id, Kind: KindText, Clip: e.clip, Text: data})
}
