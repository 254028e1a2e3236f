package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/domain"
)

// sortOption pairs a sort field with its display label.
type sortOption struct {
	field domain.SortField
	label string
}

var sortOptions = []sortOption{
	{domain.SortByCreation, "Creation order"},
	{domain.SortByCode, "Code"},
	{domain.SortByDueDate, "Due date"},
	{domain.SortByPriority, "Priority"},
	{domain.SortByStatus, "Status"},
	{domain.SortByLogged, "Logged time"},
}

// SortMenu lets the user pick the active sort field. Picking the already
// active field flips direction; provisional tasks stay pinned on top either
// way.
type SortMenu struct {
	current domain.Sort
	cursor  int
	styles  *Styles
}

// NewSortMenu creates the sort menu with the active sort highlighted.
func NewSortMenu(current domain.Sort) *SortMenu {
	cursor := 0
	for i, opt := range sortOptions {
		if opt.field == current.Field {
			cursor = i
		}
	}
	return &SortMenu{current: current, cursor: cursor, styles: New()}
}

// Init initializes the menu
func (m *SortMenu) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SortMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Close

		case "j", "down":
			if m.cursor < len(sortOptions)-1 {
				m.cursor++
			}
			return m, nil

		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "enter":
			return m, Select("sort", sortOptions[m.cursor].field)
		}
	}

	return m, nil
}

// View renders the menu
func (m *SortMenu) View() string {
	var b strings.Builder

	for i, opt := range sortOptions {
		style := m.styles.MenuItem
		if i == m.cursor {
			style = m.styles.MenuItemActive
		}

		label := opt.label
		if opt.field == m.current.Field {
			if m.current.Order == domain.SortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render("Enter: sort (again to flip) • Esc: cancel"))
	return b.String()
}

// Title returns the menu title
func (m *SortMenu) Title() string {
	return "Sort by"
}

// Size returns the menu dimensions
func (m *SortMenu) Size() (width, height int) {
	return 40, len(sortOptions) + 4
}
