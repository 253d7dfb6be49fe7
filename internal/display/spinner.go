package display

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps the terminal spinner shown while a blocking backend call is
// in flight. The REPL stays single-threaded; the spinner only animates.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner with the given message
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	_ = s.Color("green")
	return &Spinner{s: s}
}

// Start begins the spinner animation
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner and clears the line
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// UpdateMessage changes the spinner message while running
func (sp *Spinner) UpdateMessage(message string) {
	sp.s.Suffix = " " + message
}
