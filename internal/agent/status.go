package agent

import "sync"

// DefaultStatusLabel is shown while nothing more specific is known.
const DefaultStatusLabel = "Thinking..."

// Status is the per-request in-flight status label. One Status is created per
// pipeline invocation; PreparePrompt writes it while a delivery surface may
// read it from another goroutine (the terminal spinner), hence the lock.
type Status struct {
	mu    sync.Mutex
	label string
}

// NewStatus returns a Status carrying the default label.
func NewStatus() *Status {
	return &Status{label: DefaultStatusLabel}
}

// Set replaces the current label. Empty labels are ignored.
func (s *Status) Set(label string) {
	if label == "" {
		return
	}
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// Label returns the most recently set label.
func (s *Status) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}
