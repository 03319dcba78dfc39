package render

import (
	"iter"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/theme"
)

// Stats counts the work done by one stream.
type Stats struct {
	// Visited is the number of nodes whose effective clip was non-empty.
	Visited int
	// Emitted is the number of Emit calls.
	Emitted int
	// Reused is the number of nodes replayed from the cache.
	Reused int
	// Pruned is the number of subtrees skipped because their clip was empty.
	Pruned int
	// Primitives is the number of primitives yielded.
	Primitives int
}

type cacheEntry struct {
	signature any
	clip      geometry.Rect
	prims     []Primitive
	pass      uint64
}

// Cache keeps the primitives each node recorded in the previous pass. A
// node is replayed when its visual signature, effective clip and the theme
// are unchanged.
type Cache struct {
	entries map[graph.ID]*cacheEntry
	theme   theme.Theme
	pass    uint64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[graph.ID]*cacheEntry)}
}

// Len returns the number of cached nodes.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Reset drops every entry.
func (c *Cache) Reset() {
	clear(c.entries)
}

// begin starts a pass under th, dropping everything if the theme changed.
func (c *Cache) begin(th *theme.Theme) uint64 {
	if c.theme != *th {
		c.theme = *th
		c.Reset()
	}
	c.pass++
	return c.pass
}

// sweep drops entries for nodes that were not drawn in pass.
func (c *Cache) sweep(pass uint64) {
	for id, e := range c.entries {
		if e.pass != pass {
			delete(c.entries, id)
		}
	}
}

// Primitives is a lazy, single-use stream of primitives in draw order.
//
// The stream reads the graph as it goes, so the graph must not be mutated
// until the stream is exhausted or abandoned. Pulling from a stream after
// the graph changed panics with ErrStalePrimitives, as does ranging over a
// stream a second time.
type Primitives struct {
	g       *graph.Graph
	theme   *theme.Theme
	cache   *Cache
	version uint64
	pass    uint64

	cursor *graph.Cursor
	clips  []geometry.Rect

	pending []Primitive
	next    int

	started bool
	done    bool
	stats   Stats
}

// New returns a stream over g. A nil theme uses theme.Default; a nil cache
// disables reuse.
func New(g *graph.Graph, th *theme.Theme, cache *Cache) *Primitives {
	if th == nil {
		th = theme.Default()
	}
	p := &Primitives{
		g:       g,
		theme:   th,
		cache:   cache,
		version: g.Version(),
		cursor:  g.Cursor(),
		clips:   []geometry.Rect{g.Bounds()},
	}
	if cache != nil {
		p.pass = cache.begin(th)
	}
	return p
}

// Next returns the next primitive. The second result is false once the
// stream is exhausted.
func (p *Primitives) Next() (Primitive, bool) {
	if p.g.Version() != p.version {
		panic(errors.Misuse("render.Primitives.Next", errors.ErrStalePrimitives))
	}
	p.started = true
	for {
		if p.next < len(p.pending) {
			prim := p.pending[p.next]
			p.next++
			p.stats.Primitives++
			return prim, true
		}
		if p.done {
			return Primitive{}, false
		}
		n, ok := p.cursor.Next()
		if !ok {
			p.finish()
			return Primitive{}, false
		}
		p.visit(n)
	}
}

// All returns the stream as a sequence. It may be ranged over once.
func (p *Primitives) All() iter.Seq[Primitive] {
	if p.started {
		panic(errors.Misuse("render.Primitives.All", errors.ErrStalePrimitives))
	}
	return func(yield func(Primitive) bool) {
		if p.started {
			panic(errors.Misuse("render.Primitives.All", errors.ErrStalePrimitives))
		}
		for prim, ok := p.Next(); ok; prim, ok = p.Next() {
			if !yield(prim) {
				return
			}
		}
	}
}

// Collect drains the rest of the stream into a slice.
func (p *Primitives) Collect() []Primitive {
	var out []Primitive
	for prim, ok := p.Next(); ok; prim, ok = p.Next() {
		out = append(out, prim)
	}
	return out
}

// Started reports whether any primitive has been pulled.
func (p *Primitives) Started() bool { return p.started }

// Done reports whether the stream is exhausted.
func (p *Primitives) Done() bool { return p.done && p.next >= len(p.pending) }

// Stats returns the counters accumulated so far.
func (p *Primitives) Stats() Stats { return p.stats }

// Theme returns the theme primitives are produced under.
func (p *Primitives) Theme() *theme.Theme { return p.theme }

func (p *Primitives) visit(n *graph.Node) {
	depth := n.Depth()
	p.clips = p.clips[:depth]
	clip := p.clips[depth-1]
	if c, ok := n.Payload().(graph.Clipper); ok {
		clip = clip.Intersect(c.ClipRect())
	}
	p.clips = append(p.clips, clip)
	p.pending, p.next = nil, 0

	if clip.IsEmpty() {
		p.cursor.SkipChildren()
		p.stats.Pruned++
		return
	}
	p.stats.Visited++

	d, ok := n.Payload().(Drawable)
	if !ok {
		return
	}
	if p.cache != nil {
		if e, ok := p.cache.entries[n.ID()]; ok && e.clip == clip && graph.SignaturesEqual(e.signature, n.Signature()) {
			e.pass = p.pass
			p.pending = e.prims
			p.stats.Reused++
			return
		}
	}

	prims, ok := p.emit(n, d, clip)
	p.pending = prims
	if ok && p.cache != nil {
		p.cache.entries[n.ID()] = &cacheEntry{
			signature: n.Signature(),
			clip:      clip,
			prims:     prims,
			pass:      p.pass,
		}
	}
}

// emit runs the payload's Emit. A panicking payload is reported and draws
// nothing this frame.
func (p *Primitives) emit(n *graph.Node, d Drawable, clip geometry.Rect) (prims []Primitive, ok bool) {
	p.stats.Emitted++
	e := &Emitter{id: n.ID(), clip: clip, theme: p.theme}
	defer errors.RecoverWithCallback("render.Emit", func(any) { prims, ok = nil, false })
	d.Emit(e)
	return e.prims, true
}

func (p *Primitives) finish() {
	p.done = true
	if p.cache != nil {
		p.cache.sweep(p.pass)
	}
}
