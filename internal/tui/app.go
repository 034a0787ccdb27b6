package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gitscout/internal/search"
	"github.com/mmcdole/gitscout/internal/tui/components"
	"github.com/mmcdole/gitscout/internal/tui/styles"
)

// Focus identifies which pane receives keys
type Focus int

const (
	FocusInput Focus = iota
	FocusTable
)

const (
	tickInterval = 100 * time.Millisecond
	statusTTL    = 3 * time.Second
)

// Options configures the model
type Options struct {
	Provider string
	Debounce time.Duration // Delay before an auto-fetch cycle runs
	Theme    string
	Logger   *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready bool

	// Services
	Controller *search.Controller
	Opener     ProfileOpener

	// UI Components
	SearchBar components.SearchBar
	Table     components.ResultsTable
	Help      help.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	Focus        Focus
	ShowHelp     bool
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	provider string
	debounce time.Duration
	logger   *slog.Logger
}

// NewModel creates a new application model
func NewModel(ctrl *search.Controller, opener ProfileOpener, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	styles.Apply(styles.ByName(opts.Theme))

	m := Model{
		Controller: ctrl,
		Opener:     opener,
		SearchBar:  components.NewSearchBar(opts.Provider),
		Table:      components.NewResultsTable(),
		Help:       help.New(),
		Focus:      FocusInput,
		provider:   opts.Provider,
		debounce:   opts.Debounce,
		logger:     logger,
	}
	m.applyTheme()
	m.syncTable()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.SearchBar.Focus(),
		TickCmd(tickInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Table.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case DebounceMsg:
		return m, RunCycleCmd(m.Controller, msg.Cycle)

	case CycleDoneMsg:
		if msg.Outcome.Committed {
			m.logger.Debug("cycle committed", "seq", msg.Outcome.Seq, "query", msg.Outcome.Query, "count", msg.Outcome.Count)
		}
		m.syncTable()
		return m, nil

	case ProfileOpenedMsg:
		return m.setStatus("Opened "+msg.URL, false)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ErrMsg:
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		return m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other input internals
	var cmd tea.Cmd
	m.SearchBar, cmd, _ = m.SearchBar.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) {
		m.Controller.Close()
		return m, tea.Quit
	}

	if m.ShowHelp {
		if key.Matches(msg, Keys.Help) || key.Matches(msg, Keys.HelpAny) || key.Matches(msg, Keys.Escape) {
			m.ShowHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Submit):
		// Consumed here so the input never sees it
		cycle := m.Controller.Submit()
		m.syncTable()
		return m, RunCycleCmd(m.Controller, cycle)

	case key.Matches(msg, Keys.NextPage):
		m.Controller.NextPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, Keys.PrevPage):
		m.Controller.PreviousPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, Keys.ToggleFocus):
		return m, m.toggleFocus()

	case key.Matches(msg, Keys.HelpAny):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.ToggleTheme):
		p := styles.Toggle()
		m.applyTheme()
		return m.setStatus("Theme: "+p.Name, false)
	}

	if m.Focus == FocusTable {
		return m.handleTableKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.TableNext):
		m.Controller.NextPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, Keys.TablePrev):
		m.Controller.PreviousPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, Keys.Open):
		rec, ok := m.Table.Selected()
		if !ok || rec.HTMLURL == "" {
			return m, nil
		}
		return m, OpenProfileCmd(m.Opener, rec.HTMLURL)

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Escape):
		return m, m.toggleFocus()
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Escape) {
		if m.SearchBar.Value() == "" {
			return m, nil
		}
		m.SearchBar.SetValue("")
		return m, m.queryChanged()
	}

	var cmd tea.Cmd
	var changed bool
	m.SearchBar, cmd, changed = m.SearchBar.Update(msg)
	if !changed {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.queryChanged())
}

// queryChanged pushes the input text to the controller and schedules
// a cycle when auto-fetch is on
func (m *Model) queryChanged() tea.Cmd {
	cycle, ok := m.Controller.SetQuery(m.SearchBar.Value())
	m.syncTable()
	if !ok {
		return nil
	}
	if m.debounce <= 0 {
		return RunCycleCmd(m.Controller, cycle)
	}
	return DebounceCmd(cycle, m.debounce)
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.Focus == FocusInput {
		m.Focus = FocusTable
		m.SearchBar.Blur()
		m.Table.SetFocused(true)
		return nil
	}
	m.Focus = FocusInput
	m.Table.SetFocused(false)
	return m.SearchBar.Focus()
}

func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return m, ClearStatusCmd(statusTTL)
}

// syncTable copies the controller's current page into the table
func (m *Model) syncTable() {
	v := m.Controller.View()
	m.Table.SetPage(v.PageSlice, v.Offset, v.ResultsQuery, v.Loading, v.Searched)
}

func (m *Model) applyTheme() {
	m.SearchBar.ApplyTheme()
	m.Help.Styles.ShortKey = styles.HelpKeyStyle
	m.Help.Styles.ShortDesc = styles.HelpDescStyle
	m.Help.Styles.ShortSeparator = styles.DimStyle
	m.Help.Styles.FullKey = styles.HelpKeyStyle
	m.Help.Styles.FullDesc = styles.HelpDescStyle
	m.Help.Styles.FullSeparator = styles.DimStyle
	m.Help.Styles.Ellipsis = styles.DimStyle
}

func (m *Model) updateLayout() {
	m.SearchBar.SetWidth(m.Width)
	m.Table.SetWidth(m.Width)
	m.Help.Width = m.Width
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}

	v := m.Controller.View()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.SearchBar.View())
	b.WriteString("\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n\n")
	b.WriteString(components.RenderPager(v.CurrentPage, v.CanGoPrevious, v.CanGoNext))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(v))
	b.WriteString("\n")
	b.WriteString(m.Help.ShortHelpView(Keys.ShortHelp()))

	return b.String()
}

func (m Model) renderHeader() string {
	return styles.TitleStyle.Render("gitscout") + "  " +
		styles.SubtitleStyle.Render(providerTitle(m.provider)+" user search")
}

// renderFooter renders the single-line status bar
func (m Model) renderFooter(v search.View) string {
	// Left side: spinner while loading, otherwise the transient status
	var left string
	switch {
	case v.Loading:
		left = styles.RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Searching...")
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	}

	count := "1 user"
	if v.Total != 1 {
		count = fmt.Sprintf("%d users", v.Total)
	}
	right := styles.AccentStyle.Render(m.provider) +
		styles.DimStyle.Render(fmt.Sprintf(" · Page %d · %s", v.CurrentPage, count))

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help overlay
func (m Model) renderHelp() string {
	content := styles.TitleStyle.Render("Keys") + "\n\n" + m.Help.FullHelpView(Keys.FullHelp()) +
		"\n\n" + styles.DimStyle.Render("Press F1, ? or esc to return...")

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}

func providerTitle(provider string) string {
	switch provider {
	case "github":
		return "GitHub"
	case "linkedin":
		return "LinkedIn"
	default:
		return provider
	}
}
