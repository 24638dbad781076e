package engine

// State is a node of the playback state machine.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Playing
	Paused
	Seeking
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Seeking:
		return "seeking"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// loaded reports whether the current segment's resources are ready in this state.
func (s State) loaded() bool {
	return s == Ready || s == Playing || s == Paused
}
