package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/domain"
)

// FilterChangedMsg is emitted every time the working filter changes so the
// list refetches immediately; the menu stays open for further tweaks.
type FilterChangedMsg struct {
	Filter *domain.Filter
}

// filterEntry is one togglable line of the filter menu.
type filterEntry struct {
	section string
	label   string
	toggle  func(f *domain.Filter)
	active  func(f *domain.Filter) bool
}

// FilterMenu edits the active filter set: tab, statuses, priorities. The
// search text and assignee filters are edited inline in the list view.
type FilterMenu struct {
	filter  *domain.Filter
	entries []filterEntry
	cursor  int
	styles  *Styles
}

// NewFilterMenu builds the menu over the given filter and status catalog.
func NewFilterMenu(filter *domain.Filter, catalog []domain.Status) *FilterMenu {
	if len(catalog) == 0 {
		catalog = domain.DefaultStatuses()
	}

	var entries []filterEntry

	tabs := []struct {
		tab   domain.Tab
		label string
	}{
		{domain.TabAll, "All tasks"},
		{domain.TabMine, "My tasks"},
		{domain.TabAssigned, "Assigned by me"},
		{domain.TabMentioned, "Mentioning me"},
		{domain.TabRecurring, "Recurring"},
		{domain.TabImported, "Imported"},
	}
	for _, t := range tabs {
		tab := t.tab
		entries = append(entries, filterEntry{
			section: "Tab",
			label:   t.label,
			toggle:  func(f *domain.Filter) { f.Tab = tab },
			active:  func(f *domain.Filter) bool { return f.Tab == tab },
		})
	}

	seen := make(map[string]bool)
	for _, s := range catalog {
		canonical := s.Canonical
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		entries = append(entries, filterEntry{
			section: "Status",
			label:   s.Name,
			toggle:  func(f *domain.Filter) { f.ToggleStatus(canonical) },
			active:  func(f *domain.Filter) bool { return f.Status[canonical] },
		})
	}

	for _, p := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow} {
		priority := p
		entries = append(entries, filterEntry{
			section: "Priority",
			label:   capitalize(string(p)),
			toggle:  func(f *domain.Filter) { f.TogglePriority(priority) },
			active:  func(f *domain.Filter) bool { return f.Priority[priority] },
		})
	}

	return &FilterMenu{filter: filter, entries: entries, styles: New()}
}

// Init initializes the menu
func (m *FilterMenu) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *FilterMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter":
			return m, Close

		case "j", "down":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
			return m, nil

		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case " ":
			m.entries[m.cursor].toggle(m.filter)
			return m, m.changed()

		case "c":
			m.filter.Clear()
			return m, m.changed()
		}
	}

	return m, nil
}

func (m *FilterMenu) changed() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		return FilterChangedMsg{Filter: filter}
	}
}

// View renders the menu
func (m *FilterMenu) View() string {
	var b strings.Builder

	lastSection := ""
	for i, e := range m.entries {
		if e.section != lastSection {
			if lastSection != "" {
				b.WriteString("\n")
			}
			b.WriteString(m.styles.MenuHeader.Render(e.section))
			b.WriteString("\n")
			lastSection = e.section
		}

		style := m.styles.MenuItem
		if i == m.cursor {
			style = m.styles.MenuItemActive
		}

		mark := "[ ]"
		if e.active(m.filter) {
			mark = "[x]"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s", mark, e.label)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render("Space: toggle • c: clear • Enter/Esc: close"))
	return b.String()
}

// Title returns the menu title
func (m *FilterMenu) Title() string {
	return "Filter"
}

// Size returns the menu dimensions
func (m *FilterMenu) Size() (width, height int) {
	return 42, len(m.entries) + 8
}
