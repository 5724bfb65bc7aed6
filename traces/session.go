package traces

// Session is the frames of one run and a cursor into them. Cursor -1 means not
// started.
type Session struct {
	Frames []Frame
	Cursor int
}

func NewSession(frames []Frame) *Session {
	return &Session{
		Frames: frames,
		Cursor: -1,
	}
}

func (s *Session) Len() int {
	return len(s.Frames)
}

// Next advances the cursor, reporting whether it moved.
func (s *Session) Next() bool {
	if s.Cursor >= len(s.Frames)-1 {
		return false
	}
	s.Cursor++
	return true
}

// Prev moves the cursor back, reporting whether it moved.
func (s *Session) Prev() bool {
	if s.Cursor <= -1 {
		return false
	}
	s.Cursor--
	return true
}

// Seek clamps i into [-1, len-1].
func (s *Session) Seek(i int) {
	s.Cursor = max(-1, min(i, len(s.Frames)-1))
}

func (s *Session) Reset() {
	s.Cursor = -1
}

func (s *Session) AtEnd() bool {
	return len(s.Frames) > 0 && s.Cursor == len(s.Frames)-1
}

// Current returns the frame under the cursor.
func (s *Session) Current() (Frame, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Frames) {
		return Frame{}, false
	}
	return s.Frames[s.Cursor], true
}
