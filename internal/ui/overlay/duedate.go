package overlay

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DueDateResult carries the picked date. A nil date clears the due date.
type DueDateResult struct {
	Date *time.Time
}

// DueDatePicker is a popover for editing a task's due date as text, with
// inline validation.
type DueDatePicker struct {
	input  textinput.Model
	errMsg string
	styles *Styles
}

// NewDueDatePicker creates a due date editor prefilled with the current
// value.
func NewDueDatePicker(current *time.Time) *DueDatePicker {
	input := textinput.New()
	input.Placeholder = "YYYY-MM-DD (empty clears)"
	input.CharLimit = 10
	input.Width = 24
	if current != nil {
		input.SetValue(current.Format("2006-01-02"))
	}
	input.Focus()

	return &DueDatePicker{input: input, styles: New()}
}

// Init initializes the picker
func (d *DueDatePicker) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (d *DueDatePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return d, Close

		case "enter":
			raw := strings.TrimSpace(d.input.Value())
			if raw == "" {
				return d, Select("due_date", DueDateResult{})
			}
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				d.errMsg = "use YYYY-MM-DD"
				return d, nil
			}
			return d, Select("due_date", DueDateResult{Date: &parsed})
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if d.errMsg != "" {
		d.errMsg = ""
	}
	return d, cmd
}

// View renders the picker
func (d *DueDatePicker) View() string {
	var b strings.Builder
	b.WriteString(d.input.View())
	b.WriteString("\n")
	if d.errMsg != "" {
		b.WriteString(d.styles.Error.Render(d.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(d.styles.Footer.Render("Enter: set • Esc: cancel"))
	return b.String()
}

// Title returns the picker title
func (d *DueDatePicker) Title() string {
	return "Due date"
}

// Size returns the picker dimensions
func (d *DueDatePicker) Size() (width, height int) {
	return 34, 6
}
