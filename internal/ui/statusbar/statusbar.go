package statusbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskwire/taskwire/internal/types"
	"github.com/taskwire/taskwire/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode     types.Mode
	width    int
	styles   *styles.Styles
	offline  bool
	selected int
	total    int
}

// New creates a new StatusBar with the given mode, width, and styles
func New(mode types.Mode, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:   mode,
		width:  width,
		styles: styles,
	}
}

// WithCounts sets the selection and total counters shown on the right.
func (sb StatusBar) WithCounts(selected, total int) StatusBar {
	sb.selected = selected
	sb.total = total
	return sb
}

// WithOffline marks the connection indicator.
func (sb StatusBar) WithOffline(offline bool) StatusBar {
	sb.offline = offline
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.StatusMode.Render(" " + sb.mode.String() + " ")

	hints := GetHints(sb.mode)
	hintsRendered := sb.styles.StatusHint.Render(hints)

	var content string
	if hints != "" {
		separator := sb.styles.StatusHint.Render(" │ ")
		content = lipgloss.JoinHorizontal(lipgloss.Left, modeBadge, separator, hintsRendered)
	} else {
		content = modeBadge
	}

	var info string
	if sb.offline {
		info = sb.styles.ToastError.UnsetBorderStyle().Render("OFFLINE")
	} else if sb.selected > 0 {
		info = sb.styles.StatusInfo.Render(fmt.Sprintf("%d/%d selected", sb.selected, sb.total))
	} else if sb.total > 0 {
		info = sb.styles.StatusInfo.Render(fmt.Sprintf("%d tasks", sb.total))
	}

	if info != "" {
		gap := sb.width - lipgloss.Width(content) - lipgloss.Width(info) - 2
		if gap > 0 {
			content = lipgloss.JoinHorizontal(lipgloss.Left, content,
				lipgloss.NewStyle().Width(gap).Render(""), info)
		}
	}

	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
