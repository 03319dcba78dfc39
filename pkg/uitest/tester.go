package uitest

import (
	"testing"

	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/images"
	"github.com/go-drift/retain/pkg/mesh"
	"github.com/go-drift/retain/pkg/render"
	"github.com/go-drift/retain/pkg/ui"
)

const (
	// DefaultTestWidth is the default logical width of the test window.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height of the test window.
	DefaultTestHeight = 600
)

// Tester runs frames against a Ui and keeps the last rendered frame.
type Tester struct {
	ui       *ui.Ui
	renderer *mesh.Renderer
	images   *images.Map[images.Dims]
	frame    *mesh.Frame
	err      error
	pumps    int
	redraws  int
}

// NewTester creates a tester for a width×height window. Non-positive sizes
// use the defaults. Build failures fail the test immediately.
func NewTester(t testing.TB, width, height float64) *Tester {
	t.Helper()
	if width <= 0 {
		width = DefaultTestWidth
	}
	if height <= 0 {
		height = DefaultTestHeight
	}
	return NewTesterFrom(t, ui.NewBuilder(width, height))
}

// NewTesterFrom creates a tester from a configured builder.
func NewTesterFrom(t testing.TB, b *ui.Builder) *Tester {
	t.Helper()
	u, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build ui: %v", err)
	}
	return &Tester{
		ui:       u,
		renderer: u.NewRenderer(),
		images:   images.NewMap[images.Dims](),
	}
}

// Ui returns the Ui under test.
func (t *Tester) Ui() *ui.Ui { return t.ui }

// Renderer returns the mesh renderer frames are filled into.
func (t *Tester) Renderer() *mesh.Renderer { return t.renderer }

// InsertImage registers an image of the given pixel size and returns its id.
func (t *Tester) InsertImage(width, height int) images.ID {
	return t.images.Insert(images.Dims{Width: width, Height: height})
}

// Pump runs one declaration pass and renders when anything changed. It
// reports whether a new frame was produced. The fill error, if any, is
// available from Err.
func (t *Tester) Pump(declare func(c *ui.Cell)) bool {
	t.ui.Update(declare)
	return t.render()
}

// Redraw renders the current graph unconditionally.
func (t *Tester) Redraw() {
	t.ui.NeedsRedraw()
	t.render()
}

func (t *Tester) render() bool {
	t.pumps++
	frame, err := t.ui.Render(t.renderer, t.images)
	if frame == nil && err == nil {
		return false
	}
	t.redraws++
	t.frame, t.err = frame, err
	return true
}

// Frame returns the last rendered frame, or nil before the first one.
func (t *Tester) Frame() *mesh.Frame { return t.frame }

// Err returns the error of the last rendered frame.
func (t *Tester) Err() error { return t.err }

// Redraws returns how many pumps produced a frame.
func (t *Tester) Redraws() int { return t.redraws }

// Pumps returns how many frames were pumped.
func (t *Tester) Pumps() int { return t.pumps }

// Primitives draws the current graph and returns its primitives. The Ui is
// left clean, so the next Pump without changes produces no frame.
func (t *Tester) Primitives() []render.Primitive {
	return t.ui.Draw().Collect()
}

// WidgetAt returns the topmost widget under p.
func (t *Tester) WidgetAt(p geometry.Point) (graph.ID, bool) {
	return t.ui.WidgetAt(p)
}
