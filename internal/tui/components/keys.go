package components

import "github.com/charmbracelet/bubbles/key"

// ResultsTableKeyMap defines key bindings for moving through the results table
type ResultsTableKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding
}

// DefaultResultsTableKeyMap returns the default results table key bindings
func DefaultResultsTableKeyMap() ResultsTableKeyMap {
	return ResultsTableKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first row"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last row"),
		),
	}
}

// Package-level key map instances
var (
	ResultsTableKeys = DefaultResultsTableKeyMap()
)
