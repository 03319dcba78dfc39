package ui

import (
	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/input"
	"github.com/go-drift/retain/pkg/theme"
)

// Cell is the declaration scope of one frame, returned by Ui.SetWidgets.
// Widgets declared through it are merged into the graph; Done ends the
// frame. A cell must not be used after Done.
type Cell struct {
	ui       *Ui
	released bool
	declared int
}

// Set declares a top-level widget.
func (c *Cell) Set(id graph.ID, payload graph.Payload) (*graph.Node, error) {
	return c.SetIn(id, graph.NoID, payload)
}

// SetIn declares a widget under parent. The parent must have been declared
// already, in this frame or an earlier one.
func (c *Cell) SetIn(id, parent graph.ID, payload graph.Payload) (*graph.Node, error) {
	c.check("ui.Cell.Set")
	c.declared++
	return c.ui.graph.Upsert(id, parent, payload)
}

// Input returns the input state for this frame.
func (c *Cell) Input() *input.State {
	c.check("ui.Cell.Input")
	return c.ui.input
}

// Theme returns the Ui theme.
func (c *Cell) Theme() *theme.Theme {
	return c.ui.theme
}

// Done ends the declaration pass. Widgets not declared since SetWidgets
// start their removal grace, and any change is folded into the Ui's dirty
// flag.
func (c *Cell) Done() {
	c.check("ui.Cell.Done")
	c.released = true
	c.ui.endFrame(c.declared)
}

func (c *Cell) check(op string) {
	if c.released {
		panic(errors.Misuse(op, errors.ErrCellReleased))
	}
}
