package engine

import "sync/atomic"

// Gate remembers whether the viewer has interacted. It is one-way: once set it never resets.
type Gate struct {
	interacted atomic.Bool
}

// SessionGate is shared by every engine in the process unless one is given its own.
var SessionGate = &Gate{}

// Interact records a viewer gesture.
func (g *Gate) Interact() {
	g.interacted.Store(true)
}

// HasInteracted reports whether a gesture has happened.
func (g *Gate) HasInteracted() bool {
	return g.interacted.Load()
}
