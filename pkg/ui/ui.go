// Package ui coordinates frames over the retained widget graph.
//
// Each frame the caller re-declares its widgets through the Cell returned by
// SetWidgets. The Ui merges the declarations into the graph, tracks whether
// anything visible changed, and produces a primitive stream from
// DrawIfChanged only when it did:
//
//	for running {
//	    u.Update(func(c *ui.Cell) { declare(c) })
//	    if prims, ok := u.DrawIfChanged(); ok {
//	        frame, err := renderer.Fill(prims, imageMap)
//	        ...
//	    }
//	}
//
// A Ui is not safe for concurrent use.
package ui

import (
	"log/slog"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/images"
	"github.com/go-drift/retain/pkg/input"
	"github.com/go-drift/retain/pkg/mesh"
	"github.com/go-drift/retain/pkg/render"
	"github.com/go-drift/retain/pkg/text"
	"github.com/go-drift/retain/pkg/theme"
)

// State is the frame state of a Ui.
type State int

const (
	// Idle means the last produced primitives reflect the graph.
	Idle State = iota
	// Building means a Cell is open.
	Building
	// Built means a declaration pass finished and has not been drawn yet.
	Built
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Building:
		return "building"
	case Built:
		return "built"
	default:
		return "unknown"
	}
}

// Ui owns one window's widget graph.
type Ui struct {
	graph  *graph.Graph
	ids    *graph.Generator
	theme  *theme.Theme
	fonts  *text.FontMap
	cache  *render.Cache
	input  *input.State
	logger *slog.Logger

	width, height  float64
	dpi            float64
	cacheW, cacheH int

	state State
	dirty bool
	frame uint64
	cell  *Cell
}

func newUi(b *Builder, th *theme.Theme, fonts *text.FontMap, logger *slog.Logger) *Ui {
	g := graph.New(geometry.RectFromLTWH(0, 0, b.width, b.height))
	g.SetRemovalGrace(b.grace)
	return &Ui{
		graph:  g,
		ids:    graph.NewGenerator(),
		theme:  th,
		fonts:  fonts,
		cache:  render.NewCache(),
		input:  input.NewState(),
		logger: logger,
		width:  b.width,
		height: b.height,
		dpi:    b.dpi,
		cacheW: b.cacheW,
		cacheH: b.cacheH,
	}
}

// SetWidgets opens the declaration pass for a new frame. Calling it while a
// previous Cell is still open panics.
func (u *Ui) SetWidgets() *Cell {
	if u.state == Building {
		panic(errors.Misuse("ui.SetWidgets", errors.ErrReentrantBuild))
	}
	u.state = Building
	u.cell = &Cell{ui: u}
	return u.cell
}

// Update runs fn inside a declaration pass.
func (u *Ui) Update(fn func(c *Cell)) {
	c := u.SetWidgets()
	defer c.Done()
	fn(c)
}

func (u *Ui) endFrame(declared int) {
	changed := u.graph.EndFrame()
	u.dirty = u.dirty || changed
	u.state = Built
	u.cell = nil
	u.frame++
	u.input.ResetFrame()
	u.logger.Debug("frame declared",
		slog.Uint64("frame", u.frame),
		slog.Int("declared", declared),
		slog.Int("nodes", u.graph.Len()),
		slog.Bool("changed", changed))
}

// NeedsRedraw forces the next DrawIfChanged to produce primitives.
func (u *Ui) NeedsRedraw() {
	u.dirty = true
}

// Dirty reports whether the next DrawIfChanged will produce primitives.
func (u *Ui) Dirty() bool {
	return u.dirty
}

// DrawIfChanged returns a primitive stream when anything changed since the
// last draw. When nothing did it returns nil and false without touching the
// graph. Calling it during a declaration pass panics.
func (u *Ui) DrawIfChanged() (*render.Primitives, bool) {
	if !u.dirty {
		if u.state == Building {
			panic(errors.Misuse("ui.DrawIfChanged", errors.ErrDrawWhileBuild))
		}
		return nil, false
	}
	return u.Draw(), true
}

// Draw returns a primitive stream unconditionally and clears the dirty flag.
func (u *Ui) Draw() *render.Primitives {
	if u.state == Building {
		panic(errors.Misuse("ui.Draw", errors.ErrDrawWhileBuild))
	}
	u.dirty = false
	u.state = Idle
	u.graph.ClearDirty()
	u.logger.Debug("frame drawn", slog.Uint64("frame", u.frame), slog.Int("nodes", u.graph.Len()))
	return render.New(u.graph, u.theme, u.cache)
}

// Render draws into r when anything changed. It returns a nil frame when
// nothing did.
func (u *Ui) Render(r *mesh.Renderer, imgs images.Resolver) (*mesh.Frame, error) {
	prims, ok := u.DrawIfChanged()
	if !ok {
		return nil, nil
	}
	return r.Fill(prims, imgs)
}

// NewRenderer creates a renderer for this Ui's fonts, DPI factor and glyph
// cache size.
func (u *Ui) NewRenderer() *mesh.Renderer {
	return mesh.NewRenderer(u.fonts, mesh.Options{
		DPIFactor:        u.dpi,
		GlyphCacheWidth:  u.cacheW,
		GlyphCacheHeight: u.cacheH,
	})
}

// HandleInput feeds a window event into the input state. A resize changes
// the root clip and forces a redraw; other events only change what the
// next declaration pass sees.
func (u *Ui) HandleInput(ev input.Event) {
	u.input.Apply(ev)
	if r, ok := ev.(input.Resize); ok {
		u.width, u.height = r.Width, r.Height
		if u.graph.SetBounds(geometry.RectFromLTWH(0, 0, r.Width, r.Height)) {
			u.dirty = true
		}
	}
}

// WidgetAt returns the topmost widget with bounds under p.
func (u *Ui) WidgetAt(p geometry.Point) (graph.ID, bool) {
	return u.graph.HitTest(p)
}

// SetTheme replaces the theme and forces a redraw.
func (u *Ui) SetTheme(t *theme.Theme) {
	if t == nil {
		t = theme.Default()
	}
	u.theme = t.Copy()
	u.dirty = true
}

// Theme returns the theme. It must not be modified; use SetTheme.
func (u *Ui) Theme() *theme.Theme { return u.theme }

// Fonts returns the font map.
func (u *Ui) Fonts() *text.FontMap { return u.fonts }

// IDGenerator returns the generator for widget ids.
func (u *Ui) IDGenerator() *graph.Generator { return u.ids }

// Graph returns the widget graph for inspection. Mutate it only through a
// Cell.
func (u *Ui) Graph() *graph.Graph { return u.graph }

// Input returns the current input state.
func (u *Ui) Input() *input.State { return u.input }

// State returns the frame state.
func (u *Ui) State() State { return u.state }

// Dims returns the window size in logical points.
func (u *Ui) Dims() (float64, float64) { return u.width, u.height }

// DPIFactor returns the window scale factor.
func (u *Ui) DPIFactor() float64 { return u.dpi }

// Frame returns the number of completed declaration passes.
func (u *Ui) Frame() uint64 { return u.frame }
