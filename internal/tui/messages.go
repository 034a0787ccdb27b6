package tui

import "github.com/mmcdole/gitscout/internal/search"

// Message types for the TUI

// ErrMsg represents an error outside the search cycle (browser launch, etc.)
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// DebounceMsg fires when a typed query has been idle long enough to run
type DebounceMsg struct {
	Cycle search.Cycle
}

// CycleDoneMsg signals that a fetch cycle finished, committed or not
type CycleDoneMsg struct {
	Outcome search.Outcome
}

// ProfileOpenedMsg signals that a profile URL was handed to the browser
type ProfileOpenedMsg struct {
	URL string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
