package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Search
	Submit      key.Binding
	ToggleFocus key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding

	// Table focus only
	TableNext key.Binding
	TablePrev key.Binding
	Open      key.Binding
	Help      key.Binding

	// Actions
	HelpAny     key.Binding
	ToggleTheme key.Binding
	Escape      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		ToggleFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "input/results"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "previous page"),
		),
		TableNext: key.NewBinding(
			key.WithKeys("right", "n", "l"),
			key.WithHelp("→/n", "next page (results)"),
		),
		TablePrev: key.NewBinding(
			key.WithKeys("left", "p", "h"),
			key.WithHelp("←/p", "previous page (results)"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open profile (results)"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help (results)"),
		),
		HelpAny: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "toggle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear/close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleFocus, k.NextPage, k.PrevPage, k.HelpAny}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.ToggleFocus, k.NextPage, k.PrevPage, k.Escape},
		{k.TableNext, k.TablePrev, k.Open, k.Help},
		{k.ToggleTheme, k.HelpAny, k.Quit},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
