package engine

import "errors"

var (
	// ErrClosed is returned by every call made after Close.
	ErrClosed = errors.New("engine closed")

	// ErrTimelineUnknown is returned by Seek while some segment duration is still unknown.
	ErrTimelineUnknown = errors.New("timeline not known yet")

	// ErrSegmentIndex is returned when skipping to a segment that does not exist.
	ErrSegmentIndex = errors.New("segment index out of range")

	// ErrRetriesExhausted is the error flag set after too many failed play attempts on one segment.
	ErrRetriesExhausted = errors.New("play retries exhausted")

	// ErrNotStarted is returned by commands issued before Start.
	ErrNotStarted = errors.New("engine not started")
)
