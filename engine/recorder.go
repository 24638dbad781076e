package engine

import "time"

// Recorder receives engine outcomes worth counting.
type Recorder interface {
	SegmentLoaded(segment string, took time.Duration)
	SegmentAdvanced(segment string)
	SegmentSkipped(segment string)
	PlayRetried(segment string)
	RetriesExhausted(segment string)
	AutoplayBlocked(segment string)
}

type nopRecorder struct{}

func (nopRecorder) SegmentLoaded(string, time.Duration) {}
func (nopRecorder) SegmentAdvanced(string)              {}
func (nopRecorder) SegmentSkipped(string)               {}
func (nopRecorder) PlayRetried(string)                  {}
func (nopRecorder) RetriesExhausted(string)             {}
func (nopRecorder) AutoplayBlocked(string)              {}
