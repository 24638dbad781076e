package scene

import "errors"

var (
	// ErrSegmentCount is returned when a manifest does not describe exactly four slots.
	ErrSegmentCount = errors.New("a scene needs exactly four segments")

	// ErrUnknownSlot is returned for slot names other than A, B, C and D.
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrDuplicateSlot is returned when a slot appears more than once.
	ErrDuplicateSlot = errors.New("duplicate slot")

	// ErrMissingAsset is returned when a slot has no video or no audio reference.
	ErrMissingAsset = errors.New("missing asset reference")

	// ErrLineTooLong is returned for lines the speech synthesizer would refuse.
	ErrLineTooLong = errors.New("line too long")

	// ErrNotFound is returned when no saved scene matches a query.
	ErrNotFound = errors.New("scene not found")
)
