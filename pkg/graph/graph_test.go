package graph

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
)

type box struct {
	rect  geometry.Rect
	color geometry.Color
}

func (b box) VisualSignature() any  { return b }
func (b box) Bounds() geometry.Rect { return b.rect }

type clipBox struct {
	box
}

func (c clipBox) ClipRect() geometry.Rect { return c.rect }

type listPayload struct {
	points []geometry.Point
}

func (l listPayload) VisualSignature() any { return l.points }

func newTestGraph() *Graph {
	return New(geometry.RectFromLTWH(0, 0, 800, 600))
}

func ids(seq func(func(*Node) bool)) []ID {
	var out []ID
	for n := range seq {
		out = append(out, n.ID())
	}
	return out
}

func TestGeneratorIsStrictlyIncreasing(t *testing.T) {
	gen := NewGenerator()
	prev := gen.Next()
	assert.Equal(t, ID(1), prev)
	for range 100 {
		next := gen.Next()
		require.Greater(t, next, prev)
		prev = next
	}

	var a, b, c ID
	gen.Assign(&a, &b, &c)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestIDListResizeKeepsIDs(t *testing.T) {
	gen := NewGenerator()
	list := NewIDs(gen, 3)
	first := slices.Clone(list.All())

	list.Resize(5, gen)
	assert.Equal(t, 5, list.Len())
	assert.Equal(t, first, list.All()[:3])

	list.Resize(2, gen)
	assert.Equal(t, first[:2], list.All())
	list.Resize(3, gen)
	assert.NotEqual(t, first[2], list.At(2), "shrunk ids are not resurrected")
}

func TestUpsertNewNodeIsDirty(t *testing.T) {
	g := newTestGraph()
	n, err := g.Upsert(1, NoID, box{rect: geometry.RectFromLTWH(0, 0, 10, 10)})
	require.NoError(t, err)

	assert.True(t, n.Dirty())
	assert.True(t, n.Touched())
	assert.Equal(t, Root, n.Parent())
	assert.Equal(t, 1, n.Depth())
	assert.True(t, g.EndFrame())
	assert.False(t, n.Touched())
}

func TestStableIdentityAcrossFrames(t *testing.T) {
	g := newTestGraph()
	payload := box{rect: geometry.RectFromLTWH(0, 0, 10, 10), color: geometry.ColorRed}

	first, err := g.Upsert(7, NoID, payload)
	require.NoError(t, err)
	g.EndFrame()
	g.ClearDirty()

	for frame := range 10 {
		n, err := g.Upsert(7, NoID, payload)
		require.NoError(t, err)
		assert.Same(t, first, n, "frame %d", frame)
		assert.False(t, g.EndFrame(), "frame %d reported a change", frame)
	}
	assert.Equal(t, 1, g.Len())
}

func TestPayloadChangeMarksDirty(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{color: geometry.ColorRed})
	g.EndFrame()
	g.ClearDirty()

	n, err := g.Upsert(1, NoID, box{color: geometry.ColorBlue})
	require.NoError(t, err)
	assert.True(t, n.Dirty())
	assert.Equal(t, []ID{1}, g.DirtyIDs())
	assert.True(t, g.EndFrame())

	g.ClearDirty()
	assert.False(t, n.Dirty())
	assert.Empty(t, g.DirtyIDs())
}

func TestNonComparableSignature(t *testing.T) {
	g := newTestGraph()
	pts := []geometry.Point{{X: 1}, {X: 2}}
	_, _ = g.Upsert(1, NoID, listPayload{points: pts})
	g.EndFrame()
	g.ClearDirty()

	_, _ = g.Upsert(1, NoID, listPayload{points: slices.Clone(pts)})
	assert.False(t, g.EndFrame())

	_, _ = g.Upsert(1, NoID, listPayload{points: []geometry.Point{{X: 1}}})
	assert.True(t, g.EndFrame())
}

func TestSignaturesEqual(t *testing.T) {
	assert.True(t, SignaturesEqual(nil, nil))
	assert.False(t, SignaturesEqual(nil, 1))
	assert.True(t, SignaturesEqual(3, 3))
	assert.False(t, SignaturesEqual(3, int64(3)))
	assert.True(t, SignaturesEqual([]int{1, 2}, []int{1, 2}))

	type holder struct{ v any }
	assert.True(t, SignaturesEqual(holder{v: []int{1}}, holder{v: []int{1}}))
}

func TestRemovalGrace(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, NoID, box{})
	g.EndFrame() // frame K

	_, _ = g.Upsert(1, NoID, box{})
	g.EndFrame() // frame K+1 omits 2

	n, ok := g.Get(2)
	require.True(t, ok, "node omitted once must survive the grace frame")
	assert.True(t, n.PendingRemoval())
	assert.Equal(t, 1, n.Missed())

	_, _ = g.Upsert(1, NoID, box{})
	assert.True(t, g.EndFrame())
	assert.False(t, g.Contains(2))
	assert.Equal(t, []ID{1}, ids(g.Walk()))
}

func TestRedeclaredPendingNodeIsRestored(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	g.EndFrame()
	g.EndFrame()

	n, _ := g.Get(1)
	require.True(t, n.PendingRemoval())

	_, _ = g.Upsert(1, NoID, box{})
	g.EndFrame()
	assert.False(t, n.PendingRemoval())
	g.EndFrame()
	assert.True(t, g.Contains(1))
}

func TestZeroGraceRemovesImmediately(t *testing.T) {
	g := newTestGraph()
	g.SetRemovalGrace(-3)
	assert.Equal(t, 0, g.RemovalGrace())

	_, _ = g.Upsert(1, NoID, box{})
	g.EndFrame()
	assert.True(t, g.EndFrame())
	assert.False(t, g.Contains(1))
}

func TestLongerGrace(t *testing.T) {
	g := newTestGraph()
	g.SetRemovalGrace(3)
	_, _ = g.Upsert(1, NoID, box{})
	g.EndFrame()
	for range 3 {
		g.EndFrame()
		require.True(t, g.Contains(1))
	}
	g.EndFrame()
	assert.False(t, g.Contains(1))
}

func TestCycleRejected(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, 1, box{})
	_, _ = g.Upsert(3, 2, box{})
	g.EndFrame()

	n, err := g.Upsert(1, 3, box{color: geometry.ColorRed})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCycleDetected))
	assert.Equal(t, errors.KindGraph, errors.KindOf(err))
	assert.Equal(t, Root, n.Parent())
	assert.Equal(t, geometry.Color(0), n.Payload().(box).color, "rejected payload must not be applied")

	_, err = g.Upsert(2, 2, box{})
	assert.True(t, errors.Is(err, errors.ErrCycleDetected))
	n2, _ := g.Get(2)
	assert.Equal(t, ID(1), n2.Parent())
}

func TestRejectedRedeclarationKeepsNode(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, 1, box{})
	_, _ = g.Upsert(3, 2, box{})
	g.EndFrame()

	for frame := range 3 {
		_, err := g.Upsert(1, 3, box{color: geometry.ColorRed})
		require.True(t, errors.Is(err, errors.ErrCycleDetected))
		_, err = g.Upsert(2, 1, box{})
		require.NoError(t, err)
		_, err = g.Upsert(3, 2, box{})
		require.NoError(t, err)
		g.EndFrame()

		n1, ok := g.Get(1)
		require.True(t, ok, "frame %d", frame)
		assert.False(t, n1.PendingRemoval(), "frame %d", frame)
		assert.Equal(t, Root, n1.Parent())
		assert.Equal(t, geometry.Color(0), n1.Payload().(box).color)
		n2, _ := g.Get(2)
		assert.Equal(t, ID(1), n2.Parent(), "frame %d", frame)
	}
	assert.Equal(t, []ID{1, 2, 3}, ids(g.Walk()))
}

func TestUnknownParentKeepsExistingNode(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, 1, box{})
	g.EndFrame()

	for range 3 {
		_, _ = g.Upsert(1, NoID, box{})
		_, err := g.Upsert(2, 99, box{color: geometry.ColorRed})
		require.True(t, errors.Is(err, errors.ErrUnknownParent))
		g.EndFrame()
	}
	n2, ok := g.Get(2)
	require.True(t, ok)
	assert.False(t, n2.PendingRemoval())
	assert.Equal(t, ID(1), n2.Parent())
	assert.Equal(t, geometry.Color(0), n2.Payload().(box).color)
}

func TestUpsertRejectsUnknownParentAndReservedIDs(t *testing.T) {
	g := newTestGraph()
	_, err := g.Upsert(1, 99, box{})
	assert.True(t, errors.Is(err, errors.ErrUnknownParent))
	assert.False(t, g.Contains(1))

	_, err = g.Upsert(Root, NoID, box{})
	assert.True(t, errors.Is(err, errors.ErrReservedID))
	_, err = g.Upsert(NoID, NoID, box{})
	assert.True(t, errors.Is(err, errors.ErrReservedID))
}

func TestWalkDrawOrder(t *testing.T) {
	g := newTestGraph()
	// 1
	// ├── 2
	// │   └── 4
	// └── 3
	// 5
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, 1, box{})
	_, _ = g.Upsert(4, 2, box{})
	_, _ = g.Upsert(3, 1, box{})
	_, _ = g.Upsert(5, NoID, box{})
	g.EndFrame()

	want := []ID{1, 2, 4, 3, 5}
	assert.Equal(t, want, ids(g.Walk()))
	assert.Equal(t, want, ids(g.Walk()), "walk must be restartable")
	assert.Equal(t, []ID{2, 4, 3}, ids(g.WalkFrom(1)))

	for n := range g.Walk() {
		if n.ID() == 4 {
			assert.Equal(t, 3, n.Depth())
		}
		if n.ID() == 2 {
			break
		}
	}
}

func TestCursorSkipChildren(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, 1, box{})
	_, _ = g.Upsert(3, NoID, box{})
	g.EndFrame()

	var got []ID
	c := g.Cursor()
	for n, ok := c.Next(); ok; n, ok = c.Next() {
		got = append(got, n.ID())
		if n.ID() == 1 {
			c.SkipChildren()
		}
	}
	assert.Equal(t, []ID{1, 3}, got)
}

func TestDeclarationOrderReordersChildren(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, NoID, box{})
	g.EndFrame()
	g.ClearDirty()

	_, _ = g.Upsert(2, NoID, box{})
	_, _ = g.Upsert(1, NoID, box{})
	assert.True(t, g.EndFrame())
	assert.Equal(t, []ID{2, 1}, ids(g.Walk()))

	_, _ = g.Upsert(2, NoID, box{})
	_, _ = g.Upsert(1, NoID, box{})
	assert.False(t, g.EndFrame())
}

func TestPendingChildKeepsItsSlot(t *testing.T) {
	g := newTestGraph()
	for _, id := range []ID{1, 2, 3} {
		_, _ = g.Upsert(id, NoID, box{})
	}
	g.EndFrame()

	_, _ = g.Upsert(3, NoID, box{})
	_, _ = g.Upsert(1, NoID, box{})
	g.EndFrame()
	assert.Equal(t, []ID{3, 2, 1}, ids(g.Walk()))
}

func TestReparentUpdatesDepths(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, NoID, box{})
	_, _ = g.Upsert(3, 2, box{})
	g.EndFrame()
	g.ClearDirty()

	_, _ = g.Upsert(1, NoID, box{})
	n2, err := g.Upsert(2, 1, box{})
	require.NoError(t, err)
	_, _ = g.Upsert(3, 2, box{})
	assert.True(t, g.EndFrame())

	n3, _ := g.Get(3)
	assert.Equal(t, 2, n2.Depth())
	assert.Equal(t, 3, n3.Depth())
	assert.ElementsMatch(t, []ID{2, 3}, g.DirtyIDs())
	assert.Equal(t, []ID{1, 2, 3}, ids(g.Walk()))
}

func TestRemovingParentReattachesDeclaredChildren(t *testing.T) {
	g := newTestGraph()
	g.SetRemovalGrace(0)
	_, _ = g.Upsert(1, NoID, box{})
	_, _ = g.Upsert(2, 1, box{})
	_, _ = g.Upsert(3, 1, box{})
	g.EndFrame()

	_, _ = g.Upsert(2, 1, box{})
	assert.True(t, g.EndFrame())

	assert.False(t, g.Contains(1))
	assert.False(t, g.Contains(3), "undeclared children go with their parent")
	n2, ok := g.Get(2)
	require.True(t, ok)
	assert.Equal(t, Root, n2.Parent())
	assert.Equal(t, 1, n2.Depth())
	assert.Equal(t, []ID{2}, ids(g.Walk()))
}

func TestVersionChangesOnMutation(t *testing.T) {
	g := newTestGraph()
	v := g.Version()
	_, _ = g.Upsert(1, NoID, box{})
	assert.Greater(t, g.Version(), v)
	v = g.Version()
	g.EndFrame()
	assert.Greater(t, g.Version(), v)
}

func TestSetBounds(t *testing.T) {
	g := newTestGraph()
	assert.False(t, g.SetBounds(geometry.RectFromLTWH(0, 0, 800, 600)))
	assert.True(t, g.SetBounds(geometry.RectFromLTWH(0, 0, 400, 300)))
	assert.Equal(t, geometry.RectFromLTWH(0, 0, 400, 300), g.Bounds())
}

func TestEffectiveClipAndHitTest(t *testing.T) {
	g := newTestGraph()
	_, _ = g.Upsert(1, NoID, clipBox{box{rect: geometry.RectFromLTWH(0, 0, 100, 100)}})
	_, _ = g.Upsert(2, 1, box{rect: geometry.RectFromLTWH(50, 50, 100, 100)})
	_, _ = g.Upsert(3, NoID, box{rect: geometry.RectFromLTWH(90, 90, 20, 20)})
	g.EndFrame()

	clip, ok := g.EffectiveClip(2)
	require.True(t, ok)
	assert.Equal(t, geometry.RectFromLTWH(0, 0, 100, 100), clip)

	id, ok := g.HitTest(geometry.Pt(95, 95))
	require.True(t, ok)
	assert.Equal(t, ID(3), id, "later siblings are on top")

	id, ok = g.HitTest(geometry.Pt(60, 60))
	require.True(t, ok)
	assert.Equal(t, ID(2), id)

	_, ok = g.HitTest(geometry.Pt(140, 140))
	assert.False(t, ok, "child bounds outside the parent clip are not hittable")
}
