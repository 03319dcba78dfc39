package graph

import "math"

// ID identifies a widget for the lifetime of its Ui. IDs are never reused.
type ID uint64

const (
	// Root is the id of the permanent window node every top-level widget
	// hangs from.
	Root ID = 0
	// NoID means "no parent declared"; Upsert attaches such nodes to Root.
	NoID ID = math.MaxUint64
)

// Generator issues strictly increasing widget ids.
type Generator struct {
	next ID
}

// NewGenerator returns a generator whose first id is 1.
func NewGenerator() *Generator {
	return &Generator{next: 1}
}

// Next returns a fresh id.
func (g *Generator) Next() ID {
	if g.next == Root {
		g.next = 1
	}
	id := g.next
	g.next++
	return id
}

// Assign fills each pointer with a fresh id.
//
//	var ids struct{ canvas, title, button graph.ID }
//	gen.Assign(&ids.canvas, &ids.title, &ids.button)
func (g *Generator) Assign(ids ...*ID) {
	for _, p := range ids {
		*p = g.Next()
	}
}

// IDList is a pre-generated table of ids, typically created once before the
// frame loop for widgets declared in a repeated layout (list rows, grids).
type IDList struct {
	ids []ID
}

// NewIDs generates n ids from gen.
func NewIDs(gen *Generator, n int) IDList {
	var l IDList
	l.Resize(n, gen)
	return l
}

// Resize grows the list to n ids, generating only the missing ones. Shrinking
// keeps the existing prefix so ids stay stable if the list grows back.
func (l *IDList) Resize(n int, gen *Generator) {
	for len(l.ids) < n {
		l.ids = append(l.ids, gen.Next())
	}
	if n < len(l.ids) {
		l.ids = l.ids[:n:n]
	}
}

// At returns the i'th id.
func (l IDList) At(i int) ID {
	return l.ids[i]
}

// Len returns the number of ids.
func (l IDList) Len() int {
	return len(l.ids)
}

// All returns the ids in order. The slice must not be modified.
func (l IDList) All() []ID {
	return l.ids
}
