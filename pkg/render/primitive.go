// Package render turns the widget graph into a lazy stream of clipped
// primitives.
//
// Payloads that implement Drawable record their output through an Emitter.
// The stream walks the graph in draw order, intersects each node's declared
// clip with its ancestors' and prunes subtrees whose effective clip is empty.
// A Cache carried between frames lets clean nodes replay the primitives they
// recorded last time instead of being asked to emit again.
package render

import (
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/images"
	"github.com/go-drift/retain/pkg/text"
)

// Kind identifies the content of a Primitive.
type Kind uint8

const (
	// KindShape is a list of colored triangles.
	KindShape Kind = iota
	// KindImage is a textured quad.
	KindImage
	// KindText is a run of glyphs.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// ColoredPoint is a triangle corner.
type ColoredPoint struct {
	Pos   geometry.Point
	Color geometry.Color
}

// Triangle is three colored corners.
type Triangle [3]ColoredPoint

// ImageData draws a texture into Rect.
type ImageData struct {
	ID   images.ID
	Rect geometry.Rect
	// Source selects a region of the texture in pixels. The zero rect
	// selects the whole texture.
	Source geometry.Rect
	// Color tints the texture. Zero means no tint.
	Color geometry.Color
}

// TextData draws a single-style run of text.
type TextData struct {
	Text string
	Font text.FontID
	Size float64
	// Origin is the pen position on the first line's baseline.
	Origin geometry.Point
	Color  geometry.Color
}

// Primitive is one drawable unit tagged with the node that produced it and
// the effective clip it must be drawn under. Only the field matching Kind is
// meaningful.
type Primitive struct {
	ID        graph.ID
	Kind      Kind
	Clip      geometry.Rect
	Triangles []Triangle
	Image     ImageData
	Text      TextData
}

// Drawable is implemented by payloads that produce primitives.
type Drawable interface {
	Emit(e *Emitter)
}
