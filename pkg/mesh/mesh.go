// Package mesh converts a primitive stream into a vertex buffer and a list
// of batched draw commands that a GPU backend can submit directly.
//
// Positions are in physical pixels with a top-left origin: logical
// coordinates are multiplied by Options.DPIFactor. Consecutive primitives
// that share a kind, clip and image are merged into one command.
package mesh

import (
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/images"
	"github.com/go-drift/retain/pkg/render"
	"github.com/go-drift/retain/pkg/text"
)

// Mode tells the fragment stage how to treat a vertex.
type Mode uint32

const (
	// ModeText samples the glyph atlas alpha and multiplies it with the
	// vertex color.
	ModeText Mode = iota
	// ModeImage samples the command's texture and multiplies it with the
	// vertex color.
	ModeImage
	// ModeGeometry uses the vertex color only.
	ModeGeometry
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeImage:
		return "image"
	case ModeGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// Vertex is one corner of a triangle.
type Vertex struct {
	Position [2]float32
	UV       [2]float32
	Color    [4]float32
	Mode     Mode
}

// Scissor is a clip rect in physical pixels with a top-left origin.
type Scissor struct {
	X, Y, W, H int32
}

// Command draws the vertices [Start, End) under one scissor.
type Command struct {
	Kind    render.Kind
	Start   int
	End     int
	Clip    geometry.Rect
	Scissor Scissor
	// Image is the image id for image commands.
	Image images.ID
	// Texture is the texture to bind: the resolved image for image
	// commands, the glyph cache for text commands, nil for shapes.
	Texture images.Texture
}

// Len returns the number of vertices drawn by the command.
func (c Command) Len() int {
	return c.End - c.Start
}

// Statistics captures the counts generated by one Fill.
type Statistics struct {
	Primitives int
	Dropped    int
	Commands   int
	Vertices   int
}

// Frame is the output of Fill. Its slices are owned by the Renderer and
// stay valid until the next Fill.
type Frame struct {
	Vertices []Vertex
	Commands []Command
	// Uploads are atlas regions written while filling. They must be copied
	// to the glyph texture before the commands are drawn.
	Uploads []text.Upload
	Stats   Statistics
}
