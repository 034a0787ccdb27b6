package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gitscout/internal/tui/styles"
)

// SearchBar is the query input at the top of the screen
type SearchBar struct {
	input   textinput.Model
	focused bool
	width   int
}

// NewSearchBar creates a search bar labelled for provider
func NewSearchBar(provider string) SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search " + providerLabel(provider) + " users..."
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = "/ "
	ti.Focus()

	sb := SearchBar{input: ti, focused: true}
	sb.ApplyTheme()
	return sb
}

// ApplyTheme re-reads the current styles; call after a theme change
func (s *SearchBar) ApplyTheme() {
	s.input.PromptStyle = styles.AccentStyle
	s.input.TextStyle = lipgloss.NewStyle().Foreground(styles.Current().Text)
	s.input.PlaceholderStyle = styles.DimStyle
	s.input.Cursor.Style = styles.AccentStyle
}

// Focus focuses the input
func (s *SearchBar) Focus() tea.Cmd {
	s.focused = true
	return s.input.Focus()
}

// Blur removes focus from the input
func (s *SearchBar) Blur() {
	s.focused = false
	s.input.Blur()
}

// Focused reports whether the input has focus
func (s SearchBar) Focused() bool {
	return s.focused
}

// Value returns the current text
func (s SearchBar) Value() string {
	return s.input.Value()
}

// SetValue replaces the current text
func (s *SearchBar) SetValue(v string) {
	s.input.SetValue(v)
}

// SetWidth updates the component width including its border
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	w := width - 4 - lipgloss.Width(s.input.Prompt)
	if w < 10 {
		w = 10
	}
	s.input.Width = w
}

// Update forwards msg to the text input. changed reports whether the text changed.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	if !s.focused {
		return s, nil, false
	}
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd, s.input.Value() != before
}

// View renders the bordered input
func (s SearchBar) View() string {
	border := styles.InactiveBorder
	if s.focused {
		border = styles.ActiveBorder
	}
	if s.width > 2 {
		border = border.Width(s.width - 2)
	}
	return border.Render(s.input.View())
}

func providerLabel(provider string) string {
	switch provider {
	case "github":
		return "GitHub"
	case "linkedin":
		return "LinkedIn"
	case "":
		return ""
	default:
		return provider
	}
}
