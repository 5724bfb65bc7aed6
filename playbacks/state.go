package playbacks

type State int

const (
	// no frames loaded
	Empty State = iota
	// frames loaded, cursor before the first frame
	Ready
	// paused inside the frames
	Scrubbing
	Playing
	// paused at the last frame
	Finished
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Ready:
		return "ready"
	case Scrubbing:
		return "scrubbing"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return "unknown"
}
