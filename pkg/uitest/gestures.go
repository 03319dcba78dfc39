package uitest

import (
	"fmt"

	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/input"
)

// MoveTo moves the pointer to p.
func (t *Tester) MoveTo(p geometry.Point) {
	t.ui.HandleInput(input.Motion{Pos: p})
}

// TapAt moves the pointer to p and clicks the left button. The events land
// in the input state seen by the next Pump.
func (t *Tester) TapAt(p geometry.Point) {
	t.MoveTo(p)
	t.ui.HandleInput(input.Press{Button: input.ButtonLeft})
	t.ui.HandleInput(input.Release{Button: input.ButtonLeft})
}

// Tap clicks the center of the hit area of widget id. It fails when the
// widget is missing or has no hit area, or when another widget covers its
// center.
func (t *Tester) Tap(id graph.ID) error {
	n, ok := t.ui.Graph().Get(id)
	if !ok {
		return fmt.Errorf("Tap: widget %d is not declared", id)
	}
	b, ok := n.Payload().(graph.Bounded)
	if !ok {
		return fmt.Errorf("Tap: widget %d has no bounds", id)
	}
	center := b.Bounds().Center()
	if hit, ok := t.WidgetAt(center); !ok || hit != id {
		return fmt.Errorf("Tap: widget %d is covered at %v", id, center)
	}
	t.TapAt(center)
	return nil
}

// Press holds the left button at p without releasing it.
func (t *Tester) Press(p geometry.Point) {
	t.MoveTo(p)
	t.ui.HandleInput(input.Press{Button: input.ButtonLeft})
}

// Release lets go of the left button.
func (t *Tester) Release() {
	t.ui.HandleInput(input.Release{Button: input.ButtonLeft})
}

// Type sends typed text.
func (t *Tester) Type(s string) {
	t.ui.HandleInput(input.Text{Text: s})
}

// Resize resizes the window.
func (t *Tester) Resize(width, height float64) {
	t.ui.HandleInput(input.Resize{Width: width, Height: height})
}
