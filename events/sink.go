package events

import (
	"errors"
	"sync"
)

var ErrSinkFull = errors.New("event limit exceeded")

// Sink is the append-only event list of one run.
type Sink struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewSink returns a sink accepting at most limit events, zero means unbounded.
func NewSink(limit int) *Sink {
	return &Sink{
		limit: limit,
	}
}

func (s *Sink) Append(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.events) >= s.limit {
		return ErrSinkFull
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Events returns the recorded events in order. The sink must not be appended to
// afterwards.
func (s *Sink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}
