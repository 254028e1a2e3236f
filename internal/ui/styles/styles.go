package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/taskwire/taskwire/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// List
	Header      lipgloss.Style
	HeaderSort  lipgloss.Style
	Row         lipgloss.Style
	RowActive   lipgloss.Style
	RowSelected lipgloss.Style
	RowDone     lipgloss.Style
	Provisional lipgloss.Style
	TaskCode    lipgloss.Style
	TaskName    lipgloss.Style
	DueDate     lipgloss.Style
	DueOverdue  lipgloss.Style

	// Detail panel
	PanelTitle    lipgloss.Style
	Breadcrumb    lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	CommentAuthor lipgloss.Style
	CommentBody   lipgloss.Style
	CommentMeta   lipgloss.Style
	Pending       lipgloss.Style
	Pinned        lipgloss.Style
	Typing        lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldError    lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style

	// Overlays
	Overlay          lipgloss.Style
	OverlayTitle     lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style
	Separator        lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true),

		HeaderSort: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		Row: lipgloss.NewStyle().
			Foreground(Text),

		RowActive: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0),

		RowSelected: lipgloss.NewStyle().
			Foreground(Mauve),

		RowDone: lipgloss.NewStyle().
			Foreground(Overlay0).
			Strikethrough(true),

		Provisional: lipgloss.NewStyle().
			Foreground(Subtext0).
			Italic(true),

		TaskCode: lipgloss.NewStyle().
			Foreground(Overlay1).
			Bold(true),

		TaskName: lipgloss.NewStyle().
			Foreground(Text),

		DueDate: lipgloss.NewStyle().
			Foreground(Subtext0),

		DueOverdue: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		PanelTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(Overlay1),

		TabActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true).
			Underline(true),

		TabInactive: lipgloss.NewStyle().
			Foreground(Overlay0),

		CommentAuthor: lipgloss.NewStyle().
			Foreground(Lavender).
			Bold(true),

		CommentBody: lipgloss.NewStyle().
			Foreground(Text),

		CommentMeta: lipgloss.NewStyle().
			Foreground(Overlay0),

		Pending: lipgloss.NewStyle().
			Foreground(Subtext0).
			Italic(true),

		Pinned: lipgloss.NewStyle().
			Foreground(Peach),

		Typing: lipgloss.NewStyle().
			Foreground(Overlay1).
			Italic(true),

		FieldLabel: lipgloss.NewStyle().
			Foreground(Subtext1).
			Bold(true),

		FieldError: lipgloss.NewStyle().
			Foreground(Red),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuItemDisabled: lipgloss.NewStyle().
			Foreground(Overlay0),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),
	}
}

// PriorityStyle returns the style for a priority value
func (s *Styles) PriorityStyle(p domain.Priority) lipgloss.Style {
	color, ok := PriorityColors[p]
	if !ok {
		color = Text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// StatusStyle returns the style for a status, preferring its configured
// color over the canonical default.
func (s *Styles) StatusStyle(st domain.Status) lipgloss.Style {
	if st.Color != "" {
		return lipgloss.NewStyle().Foreground(NamedColor(st.Color))
	}
	if color, ok := StatusColors[st.Canonical]; ok {
		return lipgloss.NewStyle().Foreground(color)
	}
	return lipgloss.NewStyle().Foreground(Text)
}
