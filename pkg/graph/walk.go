package graph

import (
	"iter"

	"github.com/go-drift/retain/pkg/geometry"
)

// Cursor walks the graph depth-first in draw order: parents before children,
// children in declaration order. It produces nodes on demand and can skip a
// subtree. A cursor is invalidated by any mutation of the graph.
type Cursor struct {
	g     *Graph
	stack []cursorFrame
	last  *Node
	skip  bool
}

type cursorFrame struct {
	ids []ID
	i   int
}

// Cursor returns a cursor positioned before the first top-level widget.
func (g *Graph) Cursor() *Cursor {
	return g.CursorFrom(Root)
}

// CursorFrom returns a cursor over the descendants of id, excluding id.
func (g *Graph) CursorFrom(id ID) *Cursor {
	c := &Cursor{g: g}
	if n, ok := g.nodes[id]; ok && len(n.children) > 0 {
		c.stack = append(c.stack, cursorFrame{ids: n.children})
	}
	return c
}

// Next advances to the next node in draw order.
func (c *Cursor) Next() (*Node, bool) {
	if c.last != nil && !c.skip && len(c.last.children) > 0 {
		c.stack = append(c.stack, cursorFrame{ids: c.last.children})
	}
	c.last, c.skip = nil, false
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.i >= len(top.ids) {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		id := top.ids[top.i]
		top.i++
		if n, ok := c.g.nodes[id]; ok {
			c.last = n
			return n, true
		}
	}
	return nil, false
}

// SkipChildren prevents the descendants of the node most recently returned
// by Next from being visited.
func (c *Cursor) SkipChildren() {
	c.skip = true
}

// Walk yields every node except the root in draw order. The sequence is lazy
// and may be ranged over any number of times; it yields the same order as
// long as the graph is not mutated in between.
func (g *Graph) Walk() iter.Seq[*Node] {
	return g.WalkFrom(Root)
}

// WalkFrom yields the descendants of id in draw order.
func (g *Graph) WalkFrom(id ID) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		c := g.CursorFrom(id)
		for n, ok := c.Next(); ok; n, ok = c.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

// EffectiveClip returns the intersection of the declared clips of id and all
// of its ancestors, and whether it is non-empty.
func (g *Graph) EffectiveClip(id ID) (geometry.Rect, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return geometry.Rect{}, false
	}
	clip := g.Bounds()
	for ; n != nil && n.id != Root; n = g.nodes[n.parent] {
		if c, ok := n.payload.(Clipper); ok {
			clip = clip.Intersect(c.ClipRect())
		}
	}
	return clip, !clip.IsEmpty()
}

// HitTest returns the topmost node whose Bounded payload contains p within
// its effective clip. Nodes pending removal are ignored.
func (g *Graph) HitTest(p geometry.Point) (ID, bool) {
	type entry struct {
		n    *Node
		clip geometry.Rect
	}
	var hits []entry
	clips := []geometry.Rect{g.Bounds()}
	c := g.Cursor()
	for n, ok := c.Next(); ok; n, ok = c.Next() {
		clips = clips[:n.depth]
		clip := clips[n.depth-1]
		if cl, ok := n.payload.(Clipper); ok {
			clip = clip.Intersect(cl.ClipRect())
		}
		clips = append(clips, clip)
		if clip.IsEmpty() {
			c.SkipChildren()
			continue
		}
		if _, ok := n.payload.(Bounded); ok && !n.PendingRemoval() {
			hits = append(hits, entry{n: n, clip: clip})
		}
	}
	for i := len(hits) - 1; i >= 0; i-- {
		h := hits[i]
		if h.n.payload.(Bounded).Bounds().Intersect(h.clip).Contains(p) {
			return h.n.id, true
		}
	}
	return NoID, false
}
