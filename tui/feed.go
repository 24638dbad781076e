package tui

import "github.com/quarrel-cli/quarrel/engine"

// Feed carries engine snapshots to the interface. Only the latest undelivered snapshot is kept,
// so a slow renderer never blocks the engine loop.
type Feed struct {
	ch chan engine.Snapshot
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan engine.Snapshot, 1)}
}

// Push replaces any pending snapshot with s. It never blocks.
func (f *Feed) Push(s engine.Snapshot) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}

		select {
		case <-f.ch:
		default:
		}
	}
}

// C returns the channel snapshots arrive on.
func (f *Feed) C() <-chan engine.Snapshot {
	return f.ch
}
