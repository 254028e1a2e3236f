package list

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/taskwire/taskwire/internal/ui/styles"
)

// Styles holds the styling for the task list view
type Styles struct {
	// Table structure
	HeaderCell lipgloss.Style
	SortedCell lipgloss.Style
	Separator  lipgloss.Style

	// Row styles
	Row         lipgloss.Style
	RowActive   lipgloss.Style
	RowSelected lipgloss.Style
	RowDone     lipgloss.Style
	RowImported lipgloss.Style
	Provisional lipgloss.Style

	// Column styles
	ColCode   lipgloss.Style
	ColDue    lipgloss.Style
	ColLogged lipgloss.Style

	// Indicators
	Cursor     lipgloss.Style
	Selected   lipgloss.Style
	DueOverdue lipgloss.Style
}

// NewStyles creates a new Styles instance with Catppuccin Macchiato theme
func NewStyles() *Styles {
	return &Styles{
		HeaderCell: lipgloss.NewStyle().
			Foreground(styles.Text).
			Bold(true),

		SortedCell: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(styles.Surface1),

		Row: lipgloss.NewStyle().
			Foreground(styles.Text),

		RowActive: lipgloss.NewStyle().
			Foreground(styles.Text).
			Background(styles.Surface0),

		RowSelected: lipgloss.NewStyle().
			Foreground(styles.Text).
			Background(styles.Surface1),

		RowDone: lipgloss.NewStyle().
			Foreground(styles.Overlay0).
			Strikethrough(true),

		RowImported: lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true),

		Provisional: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			Italic(true),

		ColCode: lipgloss.NewStyle().
			Foreground(styles.Overlay1).
			Bold(true),

		ColDue: lipgloss.NewStyle().
			Foreground(styles.Subtext0),

		ColLogged: lipgloss.NewStyle().
			Foreground(styles.Subtext0),

		Cursor: lipgloss.NewStyle().
			Foreground(styles.Lavender).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(styles.Mauve).
			Bold(true),

		DueOverdue: lipgloss.NewStyle().
			Foreground(styles.Red).
			Bold(true),
	}
}
