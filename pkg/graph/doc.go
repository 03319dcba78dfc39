// Package graph holds the retained widget graph.
//
// Callers re-declare every widget each frame. The graph reconciles those
// declarations against what it already holds: Upsert creates or updates a
// node keyed by its stable ID, and EndFrame retires nodes that were not
// declared. Nodes are stored in an arena keyed by ID; parent and child
// relations are IDs rather than pointers, so the structure never owns a
// cycle.
//
// A typical frame:
//
//	for _, d := range declarations {
//	    if _, err := g.Upsert(d.ID, d.Parent, d.Payload); err != nil {
//	        // rejected; the node keeps its previous state
//	    }
//	}
//	changed := g.EndFrame()
//
// Nodes that go undeclared are kept for a grace period (DefaultRemovalGrace
// frames, see SetRemovalGrace) before they are physically removed, so a
// widget omitted in frame K+1 still exists while frame K+1 is drawn and is
// gone by frame K+2.
package graph
