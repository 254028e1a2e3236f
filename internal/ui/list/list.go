// Package list renders the task store projection as a sorted table. For
// large lists only the rows inside the viewport window (plus overscan) are
// materialized; windowing never changes order or selection semantics, only
// which rows get rendered.
package list

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskwire/taskwire/internal/domain"
)

// DefaultVirtualThreshold is the row count at which windowed rendering
// kicks in.
const DefaultVirtualThreshold = 200

// DefaultOverscan is how many extra rows are materialized on each side of
// the viewport.
const DefaultOverscan = 10

const (
	colIndicator = 3
	colCode      = 9
	colStatus    = 13
	colPri       = 5
	colDue       = 11
	colLogged    = 8
)

// ListView represents a table-based list view for tasks
type ListView struct {
	tasks      []domain.Task
	cursor     int
	selected   map[string]bool
	highlights map[string]bool
	styles     *Styles
	width      int
	height     int

	sort      domain.Sort
	threshold int
	overscan  int
	top       int // first visible row index

	editingKey string
	editView   string
}

// NewListView creates a new ListView with the given tasks and dimensions
func NewListView(tasks []domain.Task, width, height int) *ListView {
	return &ListView{
		tasks:     tasks,
		selected:  make(map[string]bool),
		styles:    NewStyles(),
		width:     width,
		height:    height,
		threshold: DefaultVirtualThreshold,
		overscan:  DefaultOverscan,
	}
}

// SetTasks replaces the projected rows, keeping the cursor in bounds.
func (lv *ListView) SetTasks(tasks []domain.Task) {
	lv.tasks = tasks
	lv.SetCursor(lv.cursor)
}

// SetSize updates the viewport dimensions.
func (lv *ListView) SetSize(width, height int) {
	lv.width = width
	lv.height = height
}

// SetVirtualization overrides the windowing parameters.
func (lv *ListView) SetVirtualization(threshold, overscan int) {
	if threshold > 0 {
		lv.threshold = threshold
	}
	if overscan >= 0 {
		lv.overscan = overscan
	}
}

// SetSort records the active sort so the header can mark its column.
func (lv *ListView) SetSort(s domain.Sort) {
	lv.sort = s
}

// SetCursor sets the cursor position and scrolls it into view.
func (lv *ListView) SetCursor(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(lv.tasks) {
		index = max(0, len(lv.tasks)-1)
	}
	lv.cursor = index

	rows := lv.visibleRows()
	if rows <= 0 {
		return
	}
	if lv.cursor < lv.top {
		lv.top = lv.cursor
	}
	if lv.cursor >= lv.top+rows {
		lv.top = lv.cursor - rows + 1
	}
	if lv.top > max(0, len(lv.tasks)-rows) {
		lv.top = max(0, len(lv.tasks)-rows)
	}
	if lv.top < 0 {
		lv.top = 0
	}
}

// Cursor returns the current cursor index.
func (lv *ListView) Cursor() int {
	return lv.cursor
}

// CursorTask returns the task under the cursor.
func (lv *ListView) CursorTask() (domain.Task, bool) {
	if lv.cursor < 0 || lv.cursor >= len(lv.tasks) {
		return domain.Task{}, false
	}
	return lv.tasks[lv.cursor], true
}

// SetSelected sets the selected tasks map
func (lv *ListView) SetSelected(selected map[string]bool) {
	lv.selected = selected
}

// SetHighlights marks freshly imported rows so they stand out until their
// highlight window lapses.
func (lv *ListView) SetHighlights(highlights map[string]bool) {
	lv.highlights = highlights
}

// SetEditing marks one row as being name-edited; its name cell renders the
// given editor view instead of the stored name. An empty key stops editing.
func (lv *ListView) SetEditing(key, view string) {
	lv.editingKey = key
	lv.editView = view
}

// Virtualized reports whether windowed rendering is active.
func (lv *ListView) Virtualized() bool {
	return len(lv.tasks) >= lv.threshold
}

// Window returns the materialized row range [start, end). Without
// virtualization every row is materialized; with it, only the viewport
// plus overscan.
func (lv *ListView) Window() (start, end int) {
	if !lv.Virtualized() {
		return 0, len(lv.tasks)
	}
	rows := lv.visibleRows()
	start = max(0, lv.top-lv.overscan)
	end = min(len(lv.tasks), lv.top+rows+lv.overscan)
	return start, end
}

// visibleRows is the number of task rows that fit under the header.
func (lv *ListView) visibleRows() int {
	return max(0, lv.height-2)
}

// Render renders the table.
func (lv *ListView) Render() string {
	if len(lv.tasks) == 0 {
		return lv.styles.Row.Render("No tasks to display")
	}

	var b strings.Builder
	b.WriteString(lv.renderHeader())
	b.WriteString("\n")
	b.WriteString(lv.renderSeparator())

	rows := lv.visibleRows()
	first := lv.top
	last := min(len(lv.tasks), lv.top+rows)
	for i := first; i < last; i++ {
		b.WriteString("\n")
		b.WriteString(lv.renderRow(i, lv.tasks[i]))
	}

	return b.String()
}

func (lv *ListView) headerCell(field domain.SortField, label string, width int) string {
	style := lv.styles.HeaderCell
	if lv.sort.Field == field {
		style = lv.styles.SortedCell
		if lv.sort.Order == domain.SortDesc {
			label += " ↓"
		} else {
			label += " ↑"
		}
	}
	return style.Width(width).Render(label)
}

func (lv *ListView) renderHeader() string {
	cells := []string{
		lv.styles.HeaderCell.Width(colIndicator).Render(""),
		lv.headerCell(domain.SortByCode, "Code", colCode),
		lv.headerCell(domain.SortByCreation, "Name", lv.nameWidth()),
		lv.headerCell(domain.SortByStatus, "Status", colStatus),
		lv.headerCell(domain.SortByPriority, "Pri", colPri),
		lv.headerCell(domain.SortByDueDate, "Due", colDue),
		lv.headerCell(domain.SortByLogged, "Logged", colLogged),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (lv *ListView) renderSeparator() string {
	return lv.styles.Separator.Render(strings.Repeat("─", max(0, lv.width)))
}

func (lv *ListView) nameWidth() int {
	fixed := colIndicator + colCode + colStatus + colPri + colDue + colLogged
	return max(10, lv.width-fixed)
}

func (lv *ListView) renderRow(index int, task domain.Task) string {
	key := task.ID.Key()
	isActive := index == lv.cursor
	isSelected := lv.selected[key]

	rowStyle := lv.styles.Row
	switch {
	case isSelected:
		rowStyle = lv.styles.RowSelected
	case isActive:
		rowStyle = lv.styles.RowActive
	case lv.highlights[key]:
		rowStyle = lv.styles.RowImported
	case task.Completed:
		rowStyle = lv.styles.RowDone
	}

	cells := []string{
		lv.renderIndicator(isActive, isSelected),
		lv.renderCodeCell(task, rowStyle),
		lv.renderNameCell(task, key, rowStyle),
		lv.renderStatusCell(task.Status),
		lv.renderPriorityCell(task.Priority),
		lv.renderDueCell(task),
		lv.styles.ColLogged.Width(colLogged).Render(formatLogged(task.TimeTracked.Total)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (lv *ListView) renderIndicator(isActive, isSelected bool) string {
	switch {
	case isActive && isSelected:
		return lv.styles.Selected.Width(colIndicator).Render("●▶")
	case isActive:
		return lv.styles.Cursor.Width(colIndicator).Render("▶")
	case isSelected:
		return lv.styles.Selected.Width(colIndicator).Render("●")
	default:
		return strings.Repeat(" ", colIndicator)
	}
}

func (lv *ListView) renderCodeCell(task domain.Task, rowStyle lipgloss.Style) string {
	if task.Provisional() {
		return lv.styles.Provisional.Width(colCode).Render("·new")
	}
	return rowStyle.Width(colCode).
		Foreground(lv.styles.ColCode.GetForeground()).
		Bold(true).
		Render(truncateString(task.Code, colCode-1))
}

func (lv *ListView) renderNameCell(task domain.Task, key string, rowStyle lipgloss.Style) string {
	width := lv.nameWidth()
	if key == lv.editingKey {
		return rowStyle.Width(width).Render(lv.editView)
	}
	style := rowStyle
	if task.Provisional() {
		style = lv.styles.Provisional
	}
	name := task.Name
	if name == "" {
		name = "(untitled)"
	}
	return style.Width(width).Render(truncateString(name, width-1))
}

func (lv *ListView) renderStatusCell(status domain.Status) string {
	style := lv.styles.Row
	switch status.Canonical {
	case domain.CanonicalTodo:
		style = lv.styles.ColDue.Foreground(lipgloss.Color("#8aadf4"))
	case domain.CanonicalActive:
		style = lv.styles.ColDue.Foreground(lipgloss.Color("#eed49f"))
	case domain.CanonicalReview:
		style = lv.styles.ColDue.Foreground(lipgloss.Color("#c6a0f6"))
	case domain.CanonicalDone:
		style = lv.styles.ColDue.Foreground(lipgloss.Color("#a6da95"))
	}
	return style.Width(colStatus).Render(truncateString(status.Name, colStatus-1))
}

func (lv *ListView) renderPriorityCell(p domain.Priority) string {
	var style lipgloss.Style
	switch p {
	case domain.PriorityHigh:
		style = lv.styles.DueOverdue
	case domain.PriorityMedium:
		style = lv.styles.ColDue.Foreground(lipgloss.Color("#eed49f"))
	default:
		style = lv.styles.ColDue.Foreground(lipgloss.Color("#a6da95"))
	}
	label := "?"
	switch p {
	case domain.PriorityHigh:
		label = "H"
	case domain.PriorityMedium:
		label = "M"
	case domain.PriorityLow:
		label = "L"
	}
	return style.Width(colPri).Align(lipgloss.Center).Render(label)
}

func (lv *ListView) renderDueCell(task domain.Task) string {
	if task.DueDate == nil {
		return lv.styles.ColDue.Width(colDue).Render("—")
	}
	label := task.DueDate.Format("Jan 02")
	if !task.Completed && task.DueDate.Before(time.Now().Truncate(24*time.Hour)) {
		return lv.styles.DueOverdue.Width(colDue).Render(label)
	}
	return lv.styles.ColDue.Width(colDue).Render(label)
}

func formatLogged(d time.Duration) string {
	if d == 0 {
		return ""
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// truncateString truncates a string to fit within the given width
// If truncated, adds "..." at the end
func truncateString(s string, width int) string {
	if width <= 3 {
		return strings.Repeat(".", min(width, 3))
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
