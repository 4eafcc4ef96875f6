// Package term renders the interactive terminal surface: a braille spinner
// for in-flight work and colored streaming output.
package term

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const (
	spinnerInterval = 100 * time.Millisecond
	spinnerJoinWait = 200 * time.Millisecond
)

// Spinner animates a label on one terminal line until stopped. Stop is
// idempotent; SetLabel may be called while the spinner runs.
type Spinner struct {
	out io.Writer

	mu    sync.Mutex
	label string

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewSpinner starts a spinner writing to out.
func NewSpinner(out io.Writer, label string) *Spinner {
	s := &Spinner{
		out:   out,
		label: label,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// SetLabel swaps the displayed label on the next frame.
func (s *Spinner) SetLabel(label string) {
	if label == "" {
		return
	}
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. Safe to call more than once;
// waits briefly for the animation goroutine to exit.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		select {
		case <-s.done:
		case <-time.After(spinnerJoinWait):
		}
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", 80))
	})
}

func (s *Spinner) run() {
	defer close(s.done)
	blue := color.New(color.FgHiBlue)

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			label := s.label
			s.mu.Unlock()
			fmt.Fprintf(s.out, "\r%s", blue.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], label))
			i++
		}
	}
}
