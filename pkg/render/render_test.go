package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/theme"
)

type fill struct {
	rect  geometry.Rect
	color geometry.Color
}

func (f fill) VisualSignature() any { return f }
func (f fill) Emit(e *Emitter)      { e.Rect(f.rect, f.color.Or(e.Theme().ShapeColor)) }

type clipper struct {
	rect geometry.Rect
}

func (c clipper) VisualSignature() any    { return c }
func (c clipper) ClipRect() geometry.Rect { return c.rect }
func (c clipper) Emit(e *Emitter)         { e.Rect(c.rect, geometry.RGB(1, 2, 3)) }

type boom struct{}

func (boom) VisualSignature() any { return "boom" }
func (boom) Emit(*Emitter)        { panic("boom") }

type recordingHandler struct {
	errs   []*errors.UiError
	panics []*errors.PanicError
}

func (h *recordingHandler) HandleError(err *errors.UiError)    { h.errs = append(h.errs, err) }
func (h *recordingHandler) HandlePanic(err *errors.PanicError) { h.panics = append(h.panics, err) }

func newGraph() *graph.Graph {
	return graph.New(geometry.RectFromLTWH(0, 0, 800, 600))
}

func upsert(t *testing.T, g *graph.Graph, id, parent graph.ID, p graph.Payload) {
	t.Helper()
	_, err := g.Upsert(id, parent, p)
	require.NoError(t, err)
}

func requireMisuse(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(*errors.UiError)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, errors.KindMisuse, err.Kind)
		assert.ErrorIs(t, err, sentinel)
	}()
	fn()
}

func TestEffectiveClipIsIntersection(t *testing.T) {
	g := newGraph()
	upsert(t, g, 1, graph.NoID, clipper{geometry.RectFromLTWH(0, 0, 100, 100)})
	upsert(t, g, 2, 1, clipper{geometry.RectFromLTWH(50, 50, 200, 200)})
	upsert(t, g, 3, 2, fill{rect: geometry.RectFromLTWH(60, 60, 10, 10)})
	g.EndFrame()

	prims := New(g, nil, nil).Collect()
	require.Len(t, prims, 3)
	assert.Equal(t, geometry.RectFromLTWH(0, 0, 100, 100), prims[0].Clip)
	assert.Equal(t, geometry.Rect{Left: 50, Top: 50, Right: 100, Bottom: 100}, prims[1].Clip)
	assert.Equal(t, graph.ID(3), prims[2].ID)
	assert.Equal(t, geometry.Rect{Left: 50, Top: 50, Right: 100, Bottom: 100}, prims[2].Clip)
}

func TestDisjointClipPrunesSubtree(t *testing.T) {
	g := newGraph()
	upsert(t, g, 1, graph.NoID, clipper{geometry.RectFromLTWH(0, 0, 10, 10)})
	upsert(t, g, 2, 1, clipper{geometry.RectFromLTWH(20, 20, 10, 10)})
	upsert(t, g, 3, 2, fill{rect: geometry.RectFromLTWH(20, 20, 5, 5)})
	upsert(t, g, 4, 3, fill{rect: geometry.RectFromLTWH(20, 20, 5, 5)})
	g.EndFrame()

	p := New(g, nil, nil)
	prims := p.Collect()
	require.Len(t, prims, 1)
	assert.Equal(t, graph.ID(1), prims[0].ID)

	stats := p.Stats()
	assert.Equal(t, 1, stats.Visited)
	assert.Equal(t, 1, stats.Pruned)
	assert.Equal(t, 1, stats.Emitted)
}

func TestClipOutsideWindowEmitsNothing(t *testing.T) {
	g := newGraph()
	upsert(t, g, 1, graph.NoID, clipper{geometry.RectFromLTWH(900, 900, 10, 10)})
	g.EndFrame()

	assert.Empty(t, New(g, nil, nil).Collect())
}

func TestDrawOrderParentsBeforeChildren(t *testing.T) {
	g := newGraph()
	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 10, 10)})
	upsert(t, g, 2, 1, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	upsert(t, g, 3, graph.NoID, fill{rect: geometry.RectFromLTWH(10, 10, 5, 5)})
	upsert(t, g, 4, 1, fill{rect: geometry.RectFromLTWH(5, 5, 5, 5)})
	g.EndFrame()

	var got []graph.ID
	for prim := range New(g, nil, nil).All() {
		got = append(got, prim.ID)
	}
	assert.Equal(t, []graph.ID{1, 2, 4, 3}, got)
}

func TestCacheReplaysCleanNodes(t *testing.T) {
	g := newGraph()
	cache := NewCache()
	for i := graph.ID(1); i <= 3; i++ {
		upsert(t, g, i, graph.NoID, fill{rect: geometry.RectFromLTWH(float64(i)*10, 0, 5, 5)})
	}
	g.EndFrame()

	first := New(g, nil, cache)
	firstPrims := first.Collect()
	assert.Equal(t, 3, first.Stats().Emitted)
	assert.Equal(t, 3, cache.Len())

	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(10, 0, 5, 5)})
	upsert(t, g, 2, graph.NoID, fill{rect: geometry.RectFromLTWH(20, 0, 5, 5), color: geometry.RGB(255, 0, 0)})
	upsert(t, g, 3, graph.NoID, fill{rect: geometry.RectFromLTWH(30, 0, 5, 5)})
	g.EndFrame()

	second := New(g, nil, cache)
	secondPrims := second.Collect()
	stats := second.Stats()
	assert.Equal(t, 1, stats.Emitted)
	assert.Equal(t, 2, stats.Reused)
	require.Len(t, secondPrims, 3)
	assert.Equal(t, firstPrims[0], secondPrims[0])
	assert.NotEqual(t, firstPrims[1], secondPrims[1])
	assert.Equal(t, firstPrims[2], secondPrims[2])
}

func TestCacheInvalidatedByThemeAndClip(t *testing.T) {
	g := newGraph()
	cache := NewCache()
	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	g.EndFrame()
	New(g, nil, cache).Collect()

	dark := theme.Default()
	dark.ShapeColor = geometry.RGB(0, 0, 0)
	p := New(g, dark, cache)
	prims := p.Collect()
	assert.Equal(t, 1, p.Stats().Emitted)
	assert.Equal(t, geometry.RGB(0, 0, 0), prims[0].Triangles[0][0].Color)

	g.SetBounds(geometry.RectFromLTWH(0, 0, 400, 300))
	p = New(g, dark, cache)
	p.Collect()
	assert.Equal(t, 1, p.Stats().Emitted)
}

func TestCacheSweepsRemovedNodes(t *testing.T) {
	g := newGraph()
	g.SetRemovalGrace(0)
	cache := NewCache()
	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	upsert(t, g, 2, graph.NoID, fill{rect: geometry.RectFromLTWH(5, 0, 5, 5)})
	g.EndFrame()
	New(g, nil, cache).Collect()
	require.Equal(t, 2, cache.Len())

	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	g.EndFrame()
	New(g, nil, cache).Collect()
	assert.Equal(t, 1, cache.Len())
}

func TestPendingRemovalNodesStillDraw(t *testing.T) {
	g := newGraph()
	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	g.EndFrame()
	g.EndFrame()

	n, ok := g.Get(1)
	require.True(t, ok)
	require.True(t, n.PendingRemoval())
	assert.Len(t, New(g, nil, nil).Collect(), 1)
}

func TestStaleStreamPanics(t *testing.T) {
	g := newGraph()
	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	g.EndFrame()

	p := New(g, nil, nil)
	upsert(t, g, 2, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	requireMisuse(t, errors.ErrStalePrimitives, func() { p.Next() })
}

func TestStreamIsSingleUse(t *testing.T) {
	g := newGraph()
	upsert(t, g, 1, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	g.EndFrame()

	p := New(g, nil, nil)
	seq := p.All()
	for range seq {
	}
	assert.True(t, p.Done())
	requireMisuse(t, errors.ErrStalePrimitives, func() {
		for range seq {
		}
	})
	requireMisuse(t, errors.ErrStalePrimitives, func() { p.All() })

	_, ok := p.Next()
	assert.False(t, ok)
}

func TestPanickingPayloadIsReported(t *testing.T) {
	h := &recordingHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })

	g := newGraph()
	cache := NewCache()
	upsert(t, g, 1, graph.NoID, boom{})
	upsert(t, g, 2, graph.NoID, fill{rect: geometry.RectFromLTWH(0, 0, 5, 5)})
	g.EndFrame()

	prims := New(g, nil, cache).Collect()
	require.Len(t, prims, 1)
	assert.Equal(t, graph.ID(2), prims[0].ID)
	require.Len(t, h.panics, 1)
	assert.Equal(t, "render.Emit", h.panics[0].Op)
	assert.NotEmpty(t, h.panics[0].StackTrace)
	assert.Equal(t, 1, cache.Len())
}

func TestEmitterShapes(t *testing.T) {
	e := NewEmitter(7, geometry.RectFromLTWH(0, 0, 100, 100), nil)
	red := geometry.RGB(255, 0, 0)

	e.Rect(geometry.Rect{}, red)
	assert.Empty(t, e.Primitives())

	e.Rect(geometry.RectFromLTWH(0, 0, 10, 10), red)
	e.Polygon([]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 5, Y: 15}, {X: 0, Y: 10}}, red)
	prims := e.Primitives()
	require.Len(t, prims, 1, "consecutive shapes merge")
	assert.Len(t, prims[0].Triangles, 2+3)
	assert.Equal(t, graph.ID(7), prims[0].ID)

	e.Text(TextData{Text: "hi"})
	e.Polygon([]geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, red)
	e.Line(geometry.Pt(0, 0), geometry.Pt(10, 0), 0, red)
	prims = e.Primitives()
	require.Len(t, prims, 3)
	assert.Equal(t, KindText, prims[1].Kind)
	assert.Equal(t, KindShape, prims[2].Kind)
	require.Len(t, prims[2].Triangles, 2)

	// Default thickness of 1 spans y in [-0.5, 0.5].
	for _, tri := range prims[2].Triangles {
		for _, v := range tri {
			assert.InDelta(t, 0.5, abs(v.Pos.Y), 1e-9)
		}
	}
}

func TestEmitterSkipsDegenerateInput(t *testing.T) {
	e := NewEmitter(1, geometry.RectFromLTWH(0, 0, 10, 10), nil)
	e.Line(geometry.Pt(3, 3), geometry.Pt(3, 3), 2, 0)
	e.Text(TextData{})
	e.Image(ImageData{ID: 1})
	assert.Empty(t, e.Primitives())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
