// Package toast renders the transient notifications raised by sync and
// fetch results.
package toast

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/taskwire/taskwire/internal/types"
	"github.com/taskwire/taskwire/internal/ui/styles"
)

// Only the newest few toasts render; a burst of rollbacks should not bury
// the list.
const maxVisible = 3

// ToastRenderer draws the toast stack.
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a renderer over the shared style catalog.
func New(styles *styles.Styles) *ToastRenderer {
	return &ToastRenderer{styles: styles}
}

// Render stacks the newest toasts right-aligned, one per line. Returns ""
// when there is nothing to show.
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	if len(toasts) > maxVisible {
		toasts = toasts[len(toasts)-maxVisible:]
	}

	toastWidth := min(width/3, 40)
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		lines = append(lines, r.styleFor(t.Level).Width(toastWidth).Render(icon(t.Level)+t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}

func (r *ToastRenderer) styleFor(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}

func icon(level types.ToastLevel) string {
	switch level {
	case types.ToastSuccess:
		return "✓ "
	case types.ToastWarning:
		return "! "
	case types.ToastError:
		return "✗ "
	default:
		return ""
	}
}
