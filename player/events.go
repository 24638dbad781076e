package player

import (
	"context"
	"fmt"
)

// observed lists the mpv properties a resource follows, keyed by observer id.
var observed = []struct {
	id   int
	name string
}{
	{1, "duration"},           // metadata
	{2, "demuxer-cache-idle"}, // buffered enough to play through
	{3, "eof-reached"},        // end of segment
	{4, "time-pos"},           // authoritative position
}

// observe subscribes to property changes on the resource's own persistent connection.
func (m *MPV) observe(ctx context.Context, client *ipcClient) error {
	for _, prop := range observed {
		if _, err := client.send(ctx, "observe_property", prop.id, prop.name); err != nil {
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}
	return nil
}

// handleEvent folds an mpv event into the resource state and forwards what the engine cares about.
func (m *MPV) handleEvent(msg ipcMessage) {
	switch msg.Event {
	case "property-change":
		m.handleProperty(msg.Name, msg.Data)
	case "file-loaded":
		m.mu.Lock()
		m.fileLoaded = true
		m.mu.Unlock()
		m.checkReady()
	case "end-file":
		if msg.Reason == "error" {
			reason := msg.FileError
			if reason == "" {
				reason = "unknown"
			}
			m.fail(fmt.Errorf("mpv could not play %s: %s", m.source, reason))
		}
	}
}

func (m *MPV) handleProperty(name string, data any) {
	switch name {
	case "duration":
		d, ok := data.(float64)
		if !ok || d <= 0 {
			return
		}
		m.setDuration(d)
	case "demuxer-cache-idle":
		idle, _ := data.(bool)
		m.mu.Lock()
		m.cacheIdle = idle
		m.mu.Unlock()
		m.checkReady()
	case "eof-reached":
		if eof, _ := data.(bool); eof {
			m.finish()
		}
	case "time-pos":
		if pos, ok := data.(float64); ok {
			m.mu.Lock()
			m.position = pos
			m.mu.Unlock()
		}
	}
}
