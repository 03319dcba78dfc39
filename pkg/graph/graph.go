package graph

import (
	"slices"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
)

// DefaultRemovalGrace is the number of frames an undeclared node survives
// before it is removed.
const DefaultRemovalGrace = 1

// rootPayload clips everything to the window.
type rootPayload struct {
	rect geometry.Rect
}

func (p rootPayload) VisualSignature() any    { return p.rect }
func (p rootPayload) ClipRect() geometry.Rect { return p.rect }
func (p rootPayload) Bounds() geometry.Rect   { return p.rect }

// Graph is the retained widget graph. It is not safe for concurrent use.
type Graph struct {
	nodes   map[ID]*Node
	root    *Node
	grace   int
	seq     uint64
	version uint64

	// changed records creations, reparents and dirty marks since the last
	// EndFrame.
	changed bool

	// reorder holds parents whose children were declared this frame.
	reorder map[ID]struct{}

	dirty    []ID
	dirtySet map[ID]bool
}

// New creates a graph whose root clips to bounds.
func New(bounds geometry.Rect) *Graph {
	root := &Node{
		id:      Root,
		parent:  NoID,
		payload: rootPayload{rect: bounds},
	}
	root.signature = root.payload.VisualSignature()
	return &Graph{
		nodes:    map[ID]*Node{Root: root},
		root:     root,
		grace:    DefaultRemovalGrace,
		reorder:  make(map[ID]struct{}),
		dirtySet: make(map[ID]bool),
	}
}

// SetRemovalGrace sets how many frames an undeclared node is kept. Zero
// removes nodes as soon as a frame omits them. Negative values are treated
// as zero.
func (g *Graph) SetRemovalGrace(frames int) {
	g.grace = max(frames, 0)
}

// RemovalGrace returns the removal grace in frames.
func (g *Graph) RemovalGrace() int {
	return g.grace
}

// SetBounds resizes the root clip. It reports whether the bounds changed.
func (g *Graph) SetBounds(bounds geometry.Rect) bool {
	if g.root.payload.(rootPayload).rect == bounds {
		return false
	}
	g.root.payload = rootPayload{rect: bounds}
	g.root.signature = g.root.payload.VisualSignature()
	g.version++
	return true
}

// Bounds returns the root clip.
func (g *Graph) Bounds() geometry.Rect {
	return g.root.payload.(rootPayload).rect
}

// Len returns the number of nodes, excluding the root.
func (g *Graph) Len() int {
	return len(g.nodes) - 1
}

// Get returns the node for id.
func (g *Graph) Get(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Contains reports whether id is in the graph.
func (g *Graph) Contains(id ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// RootNode returns the permanent root.
func (g *Graph) RootNode() *Node {
	return g.root
}

// Version increases on every mutation. Streams derived from the graph use it
// to detect that they went stale.
func (g *Graph) Version() uint64 {
	return g.version
}

// Upsert declares a widget for the current frame.
//
// A parent of NoID attaches the node to Root. If the node exists its payload
// is replaced and it is marked dirty when the visual signature, parent or
// depth changed; new nodes are always dirty. A parent that is the node itself
// or one of its descendants is rejected with ErrCycleDetected, and an unknown
// parent with ErrUnknownParent. In both cases an existing node keeps its
// previous parent and payload and still counts as declared this frame.
func (g *Graph) Upsert(id, parent ID, payload Payload) (*Node, error) {
	const op = "graph.Upsert"
	if id == Root || id == NoID {
		return nil, errors.New(op, errors.KindGraph, uint64(id), errors.ErrReservedID)
	}
	if parent == NoID {
		parent = Root
	}
	p, ok := g.nodes[parent]
	if !ok {
		g.keep(id)
		return nil, errors.New(op, errors.KindGraph, uint64(id), errors.ErrUnknownParent)
	}

	g.version++
	g.seq++
	n, exists := g.nodes[id]
	if !exists {
		n = &Node{
			id:      id,
			parent:  parent,
			depth:   p.depth + 1,
			payload: payload,
		}
		n.signature = signatureOf(payload)
		n.touched = true
		n.seq = g.seq
		g.nodes[id] = n
		p.children = append(p.children, id)
		g.reorder[parent] = struct{}{}
		g.markDirty(n)
		return n, nil
	}

	if n.parent != parent {
		if g.isAncestorOrSelf(id, parent) {
			g.keep(id)
			return n, errors.New(op, errors.KindGraph, uint64(id), errors.ErrCycleDetected)
		}
		g.reparent(n, p)
	}

	n.payload = payload
	n.touched = true
	n.seq = g.seq
	g.reorder[n.parent] = struct{}{}
	if sig := signatureOf(payload); !SignaturesEqual(sig, n.signature) {
		n.signature = sig
		g.markDirty(n)
	}
	return n, nil
}

// keep marks an existing node declared without changing it, so a rejected
// re-declaration does not start its removal grace.
func (g *Graph) keep(id ID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	g.version++
	g.seq++
	n.touched = true
	n.seq = g.seq
	g.reorder[n.parent] = struct{}{}
}

// isAncestorOrSelf reports whether anc is candidate or one of its ancestors.
func (g *Graph) isAncestorOrSelf(anc, candidate ID) bool {
	for id := candidate; id != NoID; {
		if id == anc {
			return true
		}
		n, ok := g.nodes[id]
		if !ok {
			return false
		}
		id = n.parent
	}
	return false
}

func (g *Graph) reparent(n, p *Node) {
	if old, ok := g.nodes[n.parent]; ok {
		old.children = slices.DeleteFunc(old.children, func(c ID) bool { return c == n.id })
	}
	n.parent = p.id
	p.children = append(p.children, n.id)
	g.markDirty(n)
	g.setDepth(n, p.depth+1)
}

// setDepth updates depth for n and its descendants, marking changed nodes.
func (g *Graph) setDepth(n *Node, depth int) {
	if n.depth == depth {
		return
	}
	n.depth = depth
	g.markDirty(n)
	for _, c := range n.children {
		if child, ok := g.nodes[c]; ok {
			g.setDepth(child, depth+1)
		}
	}
}

func (g *Graph) markDirty(n *Node) {
	g.changed = true
	if n.dirty {
		return
	}
	n.dirty = true
	if !g.dirtySet[n.id] {
		g.dirtySet[n.id] = true
		g.dirty = append(g.dirty, n.id)
	}
}

// EndFrame closes the declaration pass.
//
// Nodes not declared this frame become pending-removal; nodes undeclared for
// more than the removal grace are removed along with their undeclared
// descendants. Declared descendants of a removed node are re-attached to
// Root. Children are put in this frame's declaration order. EndFrame reports
// whether any node was created, removed, reordered or marked dirty.
func (g *Graph) EndFrame() bool {
	changed := g.changed

	for pid := range g.reorder {
		if p, ok := g.nodes[pid]; ok && g.reorderChildren(p) {
			changed = true
		}
	}
	clear(g.reorder)

	var remove []ID
	for id, n := range g.nodes {
		if id == Root || n.touched {
			continue
		}
		n.missed++
		if n.missed > g.grace {
			remove = append(remove, id)
		}
	}
	slices.Sort(remove)
	for _, id := range remove {
		if n, ok := g.nodes[id]; ok {
			g.remove(n)
			changed = true
		}
	}

	for _, n := range g.nodes {
		if n.touched {
			n.touched = false
			n.missed = 0
		}
	}

	g.changed = false
	g.version++
	return changed
}

// reorderChildren sorts the declared children of p by declaration sequence.
// Undeclared children keep their slots. It reports whether the order changed.
func (g *Graph) reorderChildren(p *Node) bool {
	var slots []int
	var declared []ID
	for i, c := range p.children {
		if n, ok := g.nodes[c]; ok && n.touched {
			slots = append(slots, i)
			declared = append(declared, c)
		}
	}
	if len(declared) < 2 {
		return false
	}
	sorted := slices.Clone(declared)
	slices.SortStableFunc(sorted, func(a, b ID) int {
		sa, sb := g.nodes[a].seq, g.nodes[b].seq
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	if slices.Equal(sorted, declared) {
		return false
	}
	for i, slot := range slots {
		p.children[slot] = sorted[i]
	}
	return true
}

// remove deletes n, severing its child edges.
func (g *Graph) remove(n *Node) {
	if p, ok := g.nodes[n.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(c ID) bool { return c == n.id })
	}
	children := n.children
	n.children = nil
	delete(g.nodes, n.id)
	g.unmarkDirty(n.id)
	g.changed = true

	for _, c := range children {
		child, ok := g.nodes[c]
		if !ok {
			continue
		}
		if child.touched {
			child.parent = Root
			g.root.children = append(g.root.children, c)
			g.markDirty(child)
			g.setDepth(child, 1)
			continue
		}
		child.parent = NoID
		g.remove(child)
	}
}

func (g *Graph) unmarkDirty(id ID) {
	if !g.dirtySet[id] {
		return
	}
	delete(g.dirtySet, id)
	g.dirty = slices.DeleteFunc(g.dirty, func(d ID) bool { return d == id })
}

// DirtyIDs returns the ids marked dirty since the last ClearDirty, in the
// order they were marked.
func (g *Graph) DirtyIDs() []ID {
	return slices.Clone(g.dirty)
}

// ClearDirty resets all dirty marks. Cost is proportional to the number of
// dirty nodes.
func (g *Graph) ClearDirty() {
	for _, id := range g.dirty {
		if n, ok := g.nodes[id]; ok {
			n.dirty = false
		}
	}
	g.dirty = g.dirty[:0]
	clear(g.dirtySet)
}
