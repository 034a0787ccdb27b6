package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gitscout/internal/domain"
	"github.com/mmcdole/gitscout/internal/tui/styles"
)

const (
	EmptySearchedText = "No users found. Try a different search."
	EmptyInitialText  = "Start by searching for a user."
	LoadingText       = "Fetching users..."
)

// Column widths (visible cells, excluding the single space separator)
const (
	colIndexWidth     = 4
	colMarkerWidth    = 1
	colLoginWidth     = 24
	colFollowersWidth = 10
	minURLWidth       = 12
)

// ResultsTable renders one page of user records
type ResultsTable struct {
	rows     []domain.UserRecord
	offset   int    // Index of rows[0] in the full result set
	query    string // Query the rows were found by, for highlighting
	loading  bool
	searched bool

	cursor  int
	focused bool
	width   int
	frame   int // Spinner frame
}

// NewResultsTable creates an empty table
func NewResultsTable() ResultsTable {
	return ResultsTable{width: 80}
}

// SetPage replaces the visible rows. The cursor is reset when the page
// content changes and clamped otherwise.
func (t *ResultsTable) SetPage(rows []domain.UserRecord, offset int, query string, loading, searched bool) {
	if offset != t.offset || query != t.query || !sameRows(rows, t.rows) {
		t.cursor = 0
	}
	t.rows = rows
	t.offset = offset
	t.query = query
	t.loading = loading
	t.searched = searched
	t.clampCursor()
}

// SetFocused marks the table as having keyboard focus
func (t *ResultsTable) SetFocused(focused bool) {
	t.focused = focused
}

// SetWidth updates the component width
func (t *ResultsTable) SetWidth(width int) {
	t.width = width
}

// SetSpinnerFrame advances the loading spinner
func (t *ResultsTable) SetSpinnerFrame(frame int) {
	t.frame = frame
}

// Cursor returns the selected row within the page
func (t ResultsTable) Cursor() int {
	return t.cursor
}

// Selected returns the record under the cursor
func (t ResultsTable) Selected() (domain.UserRecord, bool) {
	if t.loading || t.cursor < 0 || t.cursor >= len(t.rows) {
		return domain.UserRecord{}, false
	}
	return t.rows[t.cursor], true
}

// Update handles cursor movement
func (t ResultsTable) Update(msg tea.Msg) (ResultsTable, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !t.focused {
		return t, nil
	}

	switch {
	case key.Matches(keyMsg, ResultsTableKeys.Up):
		t.cursor--
	case key.Matches(keyMsg, ResultsTableKeys.Down):
		t.cursor++
	case key.Matches(keyMsg, ResultsTableKeys.Home):
		t.cursor = 0
	case key.Matches(keyMsg, ResultsTableKeys.End):
		t.cursor = len(t.rows) - 1
	}
	t.clampCursor()
	return t, nil
}

func (t *ResultsTable) clampCursor() {
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// View renders the header and body
func (t ResultsTable) View() string {
	var b strings.Builder

	urlWidth := t.urlWidth()
	header := strings.Join([]string{
		styles.Pad("#", colIndexWidth),
		styles.Pad("", colMarkerWidth),
		styles.Pad("Login", colLoginWidth),
		styles.Pad("Followers", colFollowersWidth),
		"Profile",
	}, " ")
	b.WriteString(styles.HeaderStyle.Render(styles.Truncate(header, t.width)))
	b.WriteString("\n")

	switch {
	case t.loading:
		b.WriteString(" ")
		b.WriteString(styles.RenderSpinner(t.frame))
		b.WriteString(" ")
		b.WriteString(styles.DimStyle.Render(LoadingText))
	case len(t.rows) == 0 && t.searched:
		b.WriteString(styles.DimStyle.Render(EmptySearchedText))
	case len(t.rows) == 0:
		b.WriteString(styles.DimStyle.Render(EmptyInitialText))
	default:
		for i, rec := range t.rows {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(t.renderRow(i, rec, urlWidth))
		}
	}

	return b.String()
}

func (t ResultsTable) renderRow(i int, rec domain.UserRecord, urlWidth int) string {
	selected := t.focused && i == t.cursor
	base := styles.NormalRowStyle
	if selected {
		base = styles.SelectedRowStyle
	}

	login := styles.Truncate(rec.Login, colLoginWidth)
	var indexes []int
	if login == rec.Login {
		indexes = MatchedIndexes(t.query, login)
	}
	marker := ClassifyMatch(t.query, rec.Login).Marker()

	sep := base.Render(" ")
	cells := []string{
		base.Render(fmt.Sprintf("%*d", colIndexWidth, t.offset+i+1)),
		styles.AccentStyle.Inherit(base).Render(marker),
		base.Render(styles.Pad("", colLoginWidth-len([]rune(login)))),
		base.Render(fmt.Sprintf("%*s", colFollowersWidth, strconv.Itoa(rec.Followers))),
		base.Render(styles.Pad(styles.Truncate(rec.HTMLURL, urlWidth), urlWidth)),
	}
	loginCell := highlightMatches(login, indexes, selected) + cells[2]

	return strings.Join([]string{cells[0], cells[1], loginCell, cells[3], cells[4]}, sep)
}

func (t ResultsTable) urlWidth() int {
	used := colIndexWidth + colMarkerWidth + colLoginWidth + colFollowersWidth + 4
	w := t.width - used
	if w < minURLWidth {
		w = minURLWidth
	}
	return w
}

func sameRows(a, b []domain.UserRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Login != b[i].Login {
			return false
		}
	}
	return true
}
