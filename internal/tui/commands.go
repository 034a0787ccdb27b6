package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gitscout/internal/search"
)

// ProfileOpener opens a profile URL outside the terminal
type ProfileOpener interface {
	Open(url string) error
}

// RunCycleCmd runs the network half of cycle
func RunCycleCmd(ctrl *search.Controller, cycle search.Cycle) tea.Cmd {
	return func() tea.Msg {
		return CycleDoneMsg{Outcome: ctrl.Run(context.Background(), cycle)}
	}
}

// DebounceCmd delays cycle by delay. A cycle superseded in the meantime is
// skipped by the controller without touching the network.
func DebounceCmd(cycle search.Cycle, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return DebounceMsg{Cycle: cycle}
	})
}

// OpenProfileCmd opens url with opener
func OpenProfileCmd(opener ProfileOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening profile"}
		}
		return ProfileOpenedMsg{URL: url}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
