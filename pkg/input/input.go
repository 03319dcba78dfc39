// Package input defines the raw window events a Ui consumes and the input
// state it tracks between frames.
package input

import (
	"slices"

	"github.com/go-drift/retain/pkg/geometry"
)

// Button identifies a mouse button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Key identifies a keyboard key. Values are backend defined; the core only
// tracks which keys are held.
type Key uint32

// Event is a raw window event. The concrete types are listed below.
type Event interface {
	isEvent()
}

// Motion reports the pointer position in logical coordinates.
type Motion struct {
	Pos geometry.Point
}

// Press reports a mouse button or key going down. Exactly one of Button and
// Key is meaningful, selected by IsKey.
type Press struct {
	Button Button
	Key    Key
	IsKey  bool
}

// Release reports a mouse button or key going up.
type Release struct {
	Button Button
	Key    Key
	IsKey  bool
}

// Text reports typed text.
type Text struct {
	Text string
}

// Resize reports a new window size in logical coordinates.
type Resize struct {
	Width, Height float64
}

// Scroll reports a wheel or trackpad delta.
type Scroll struct {
	Delta geometry.Point
}

// Focus reports the window gaining or losing focus.
type Focus struct {
	Focused bool
}

func (Motion) isEvent()  {}
func (Press) isEvent()   {}
func (Release) isEvent() {}
func (Text) isEvent()    {}
func (Resize) isEvent()  {}
func (Scroll) isEvent()  {}
func (Focus) isEvent()   {}

// State is the input state accumulated from events. Per-frame fields
// (Scroll, Text) accumulate until ResetFrame.
type State struct {
	Pointer geometry.Point
	Buttons map[Button]bool
	Keys    []Key
	Focused bool

	// Scroll is the scroll delta received since the last ResetFrame.
	Scroll geometry.Point
	// Text is the text typed since the last ResetFrame.
	Text string
}

// NewState returns an empty state for a focused window.
func NewState() *State {
	return &State{Buttons: make(map[Button]bool), Focused: true}
}

// Apply folds ev into the state.
func (s *State) Apply(ev Event) {
	switch ev := ev.(type) {
	case Motion:
		s.Pointer = ev.Pos
	case Press:
		if ev.IsKey {
			if !slices.Contains(s.Keys, ev.Key) {
				s.Keys = append(s.Keys, ev.Key)
			}
			return
		}
		s.Buttons[ev.Button] = true
	case Release:
		if ev.IsKey {
			s.Keys = slices.DeleteFunc(s.Keys, func(k Key) bool { return k == ev.Key })
			return
		}
		delete(s.Buttons, ev.Button)
	case Text:
		s.Text += ev.Text
	case Scroll:
		s.Scroll = s.Scroll.Add(ev.Delta)
	case Focus:
		s.Focused = ev.Focused
		if !ev.Focused {
			clear(s.Buttons)
			s.Keys = s.Keys[:0]
		}
	}
}

// Pressed reports whether b is held.
func (s *State) Pressed(b Button) bool {
	return s.Buttons[b]
}

// KeyDown reports whether k is held.
func (s *State) KeyDown(k Key) bool {
	return slices.Contains(s.Keys, k)
}

// ResetFrame clears the per-frame accumulators.
func (s *State) ResetFrame() {
	s.Scroll = geometry.Point{}
	s.Text = ""
}
