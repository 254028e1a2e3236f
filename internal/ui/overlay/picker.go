package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/domain"
)

// PickerItem is one selectable entry of a picker overlay.
type PickerItem struct {
	Key     string
	Label   string
	Value   any
	Checked bool
}

// Picker is a row-bound popover: a list of values for one task field.
// Selecting a value emits a SelectionMsg and closes; Escape closes without
// change. With multi-select enabled, space toggles and enter commits the
// checked set.
type Picker struct {
	title  string
	key    string
	items  []PickerItem
	cursor int
	multi  bool
	styles *Styles
}

// NewStatusPicker creates a picker over the configured status catalog.
func NewStatusPicker(catalog []domain.Status, current domain.Status) *Picker {
	if len(catalog) == 0 {
		catalog = domain.DefaultStatuses()
	}
	items := make([]PickerItem, len(catalog))
	cursor := 0
	for i, s := range catalog {
		items[i] = PickerItem{Key: s.Name, Label: s.Name, Value: s}
		if s.Name == current.Name {
			cursor = i
		}
	}
	return &Picker{title: "Status", key: "status", items: items, cursor: cursor, styles: New()}
}

// NewPriorityPicker creates a picker over the three priority levels.
func NewPriorityPicker(current domain.Priority) *Picker {
	priorities := []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}
	items := make([]PickerItem, len(priorities))
	cursor := 0
	for i, p := range priorities {
		items[i] = PickerItem{Key: string(p), Label: capitalize(string(p)), Value: p}
		if p == current {
			cursor = i
		}
	}
	return &Picker{title: "Priority", key: "priority", items: items, cursor: cursor, styles: New()}
}

// NewProjectPicker creates a picker over the known projects. The first
// entry clears the assignment.
func NewProjectPicker(projects []string, current *string) *Picker {
	items := make([]PickerItem, 0, len(projects)+1)
	items = append(items, PickerItem{Key: "", Label: "(none)", Value: (*string)(nil)})
	cursor := 0
	for i, p := range projects {
		p := p
		items = append(items, PickerItem{Key: p, Label: p, Value: &p})
		if current != nil && *current == p {
			cursor = i + 1
		}
	}
	return &Picker{title: "Project", key: "project", items: items, cursor: cursor, styles: New()}
}

// NewAssigneePicker creates a multi-select picker over the eligible users.
func NewAssigneePicker(eligible []domain.User, current []domain.User) *Picker {
	assigned := make(map[string]bool, len(current))
	for _, u := range current {
		assigned[u.ID] = true
	}
	items := make([]PickerItem, len(eligible))
	for i, u := range eligible {
		items[i] = PickerItem{Key: u.ID, Label: u.Name, Value: u, Checked: assigned[u.ID]}
	}
	return &Picker{title: "Assignees", key: "assignees", items: items, multi: true, styles: New()}
}

// Init initializes the picker
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, Close

		case "j", "down":
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
			return p, nil

		case "k", "up":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		case " ":
			if p.multi && len(p.items) > 0 {
				p.items[p.cursor].Checked = !p.items[p.cursor].Checked
			}
			return p, nil

		case "enter":
			if len(p.items) == 0 {
				return p, Close
			}
			if p.multi {
				var checked []any
				for _, item := range p.items {
					if item.Checked {
						checked = append(checked, item.Value)
					}
				}
				return p, Select(p.key, checked)
			}
			return p, Select(p.key, p.items[p.cursor].Value)
		}
	}

	return p, nil
}

// View renders the picker
func (p *Picker) View() string {
	var b strings.Builder

	for i, item := range p.items {
		style := p.styles.MenuItem
		if i == p.cursor {
			style = p.styles.MenuItemActive
		}

		prefix := "  "
		if p.multi {
			if item.Checked {
				prefix = "[x] "
			} else {
				prefix = "[ ] "
			}
		}
		b.WriteString(style.Render(prefix + item.Label))
		b.WriteString("\n")
	}

	hint := "j/k: move • Enter: select • Esc: cancel"
	if p.multi {
		hint = "Space: toggle • Enter: apply • Esc: cancel"
	}
	b.WriteString(p.styles.Footer.Render(hint))

	return b.String()
}

// Title returns the picker title
func (p *Picker) Title() string {
	return p.title
}

// Size returns the picker dimensions
func (p *Picker) Size() (width, height int) {
	return 36, len(p.items) + 4
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
