package media

import (
	"fmt"
	"sync"
)

// EventType enumerates what a resource can report.
type EventType int

const (
	// EventReady fires when the resource can play through.
	EventReady EventType = iota
	// EventDuration fires when the duration becomes known.
	EventDuration
	// EventEnded fires when playback reaches the end.
	EventEnded
	// EventError fires on a load or decode failure. The resource is unusable afterwards.
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventReady:
		return "ready"
	case EventDuration:
		return "duration"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is a notification from a resource.
type Event struct {
	Type     EventType
	Duration float64
	Err      error
}

// Observers is a listener set for resource implementations.
// The zero value is ready to use.
type Observers struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(Event)
}

// Add registers fn and returns its removal function.
func (o *Observers) Add(fn func(Event)) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.listeners == nil {
		o.listeners = make(map[int]func(Event))
	}
	id := o.next
	o.next++
	o.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.listeners, id)
			o.mu.Unlock()
		})
	}
}

// Emit delivers e to every listener registered at the time of the call.
func (o *Observers) Emit(e Event) {
	o.mu.Lock()
	fns := make([]func(Event), 0, len(o.listeners))
	for i := 0; i < o.next; i++ {
		if fn, ok := o.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of registered listeners.
func (o *Observers) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}

// Clear removes every listener.
func (o *Observers) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = nil
}
