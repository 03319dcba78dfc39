package graph

import (
	"reflect"

	"github.com/go-drift/retain/pkg/geometry"
)

// Payload is the caller-supplied style/state of a widget. The graph only
// compares visual signatures; everything else is opaque.
type Payload interface {
	// VisualSignature returns a value that changes whenever the payload's
	// visual output changes. It should be comparable with ==; values that
	// are not fall back to reflect.DeepEqual.
	VisualSignature() any
}

// Clipper is implemented by payloads that restrict their subtree to a rect.
type Clipper interface {
	ClipRect() geometry.Rect
}

// Bounded is implemented by payloads that occupy a rect for hit testing.
type Bounded interface {
	Bounds() geometry.Rect
}

// Node is one retained widget.
type Node struct {
	id        ID
	payload   Payload
	signature any
	parent    ID
	children  []ID
	depth     int
	touched   bool
	dirty     bool
	missed    int
	seq       uint64
}

// ID returns the node id.
func (n *Node) ID() ID { return n.id }

// Payload returns the payload declared most recently.
func (n *Node) Payload() Payload { return n.payload }

// Signature returns the visual signature captured at the last Upsert.
func (n *Node) Signature() any { return n.signature }

// Parent returns the parent id. The root node returns NoID.
func (n *Node) Parent() ID { return n.parent }

// Children returns child ids in draw order. The slice must not be modified.
func (n *Node) Children() []ID { return n.children }

// Depth returns the distance from Root. Top-level widgets have depth 1.
func (n *Node) Depth() int { return n.depth }

// Touched reports whether the node was declared in the current frame.
func (n *Node) Touched() bool { return n.touched }

// Dirty reports whether the node's visual output changed since the last
// ClearDirty.
func (n *Node) Dirty() bool { return n.dirty }

// PendingRemoval reports whether the node went undeclared and is waiting out
// its grace period.
func (n *Node) PendingRemoval() bool { return n.missed > 0 }

// Missed returns the number of consecutive frames the node went undeclared.
func (n *Node) Missed() int { return n.missed }

func signatureOf(p Payload) any {
	if p == nil {
		return nil
	}
	return p.VisualSignature()
}

// SignaturesEqual compares two visual signatures.
func SignaturesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// comparableEqual uses == but survives interface fields holding
// non-comparable dynamic values.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
