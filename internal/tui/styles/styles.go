package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Name    string
	Accent  lipgloss.Color
	Surface lipgloss.Color // Selected row and modal background
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Subtle  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
}

// Built-in palettes
var (
	Light = Palette{
		Name:    "light",
		Accent:  lipgloss.Color("#0969DA"),
		Surface: lipgloss.Color("#DDF4FF"),
		Muted:   lipgloss.Color("#6E7781"),
		Text:    lipgloss.Color("#1F2328"),
		Subtle:  lipgloss.Color("#57606A"),
		Success: lipgloss.Color("#1A7F37"),
		Error:   lipgloss.Color("#CF222E"),
	}

	Dark = Palette{
		Name:    "dark",
		Accent:  lipgloss.Color("#58A6FF"),
		Surface: lipgloss.Color("#30363D"),
		Muted:   lipgloss.Color("#8B949E"),
		Text:    lipgloss.Color("#E6EDF3"),
		Subtle:  lipgloss.Color("#B1BAC4"),
		Success: lipgloss.Color("#3FB950"),
		Error:   lipgloss.Color("#F85149"),
	}
)

var current Palette

// Borders
var (
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
)

// Text styles
var (
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	DimStyle      lipgloss.Style
	AccentStyle   lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
	DisabledStyle lipgloss.Style
)

// Table styles
var (
	HeaderStyle      lipgloss.Style
	NormalRowStyle   lipgloss.Style
	SelectedRowStyle lipgloss.Style

	MatchHighlightStyle         lipgloss.Style
	MatchHighlightSelectedStyle lipgloss.Style
)

// Modal and help styles
var (
	ModalStyle    lipgloss.Style
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
	SpinnerStyle  lipgloss.Style
)

func init() {
	Apply(Light)
}

// Current returns the active palette
func Current() Palette {
	return current
}

// ByName returns the palette called name, falling back to Light
func ByName(name string) Palette {
	if strings.EqualFold(name, Dark.Name) {
		return Dark
	}
	return Light
}

// Toggle switches between light and dark and returns the new palette
func Toggle() Palette {
	if current.Name == Dark.Name {
		Apply(Light)
	} else {
		Apply(Dark)
	}
	return current
}

// Apply rebuilds every package style from p.
// Must only be called from the Bubble Tea update loop.
func Apply(p Palette) {
	current = p

	ActiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent)
	InactiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Muted)

	TitleStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Subtle)
	DimStyle = lipgloss.NewStyle().Foreground(p.Muted)
	AccentStyle = lipgloss.NewStyle().Foreground(p.Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	DisabledStyle = lipgloss.NewStyle().Foreground(p.Muted).Faint(true)

	HeaderStyle = lipgloss.NewStyle().Foreground(p.Subtle).Bold(true)
	NormalRowStyle = lipgloss.NewStyle().Foreground(p.Text)
	SelectedRowStyle = lipgloss.NewStyle().Foreground(p.Text).Background(p.Surface)

	MatchHighlightStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	MatchHighlightSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.Surface).
		Bold(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(p.Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(p.Muted)
	SpinnerStyle = lipgloss.NewStyle().Foreground(p.Accent)
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderSpinner renders the spinner glyph for frame
func RenderSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a possibly styled string with spaces to the given visible width
func Pad(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
