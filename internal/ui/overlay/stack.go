// Package overlay holds the modal surfaces of the client: pickers, the
// confirm dialog, filter and sort menus, and the task detail panel. Overlays
// live on a stack owned by the root model; whichever overlay is on top owns
// the keyboard until it closes.
package overlay

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal component the stack can host. Size is the content box
// the root model centers on screen.
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// CloseOverlayMsg asks the owner to pop the top overlay. The owner handles
// it rather than the stack so it can run teardown for the closing surface
// (the detail panel drops its live channel and pending edits).
type CloseOverlayMsg struct{}

// SelectionMsg carries a committed pick out of an overlay. Key names the
// decision ("status", "yes", "sort"), Value its payload.
type SelectionMsg struct {
	Key   string
	Value any
}

// Close is a tea.Cmd that emits CloseOverlayMsg.
func Close() tea.Msg {
	return CloseOverlayMsg{}
}

// Select returns a tea.Cmd that emits a SelectionMsg for a committed pick.
func Select(key string, value any) tea.Cmd {
	return func() tea.Msg {
		return SelectionMsg{Key: key, Value: value}
	}
}

// Stack is the overlay stack. A picker opened from the detail panel sits
// above it; closing the picker hands the keyboard back to the panel.
type Stack struct {
	overlays []Overlay
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push puts an overlay on top and starts it.
func (s *Stack) Push(o Overlay) tea.Cmd {
	s.overlays = append(s.overlays, o)
	return o.Init()
}

// Pop removes and returns the top overlay, or nil when empty. The caller
// inspects the return to run per-surface teardown.
func (s *Stack) Pop() Overlay {
	if len(s.overlays) == 0 {
		return nil
	}
	top := s.overlays[len(s.overlays)-1]
	s.overlays = s.overlays[:len(s.overlays)-1]
	return top
}

// Current returns the top overlay without removing it, or nil when empty.
func (s *Stack) Current() Overlay {
	if len(s.overlays) == 0 {
		return nil
	}
	return s.overlays[len(s.overlays)-1]
}

// IsEmpty reports whether no overlay is open.
func (s *Stack) IsEmpty() bool {
	return len(s.overlays) == 0
}

// Depth returns the number of open overlays.
func (s *Stack) Depth() int {
	return len(s.overlays)
}

// Clear drops every overlay without teardown.
func (s *Stack) Clear() {
	s.overlays = s.overlays[:0]
}

// Update routes a message to the top overlay and keeps its updated model.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	if len(s.overlays) == 0 {
		return nil
	}

	updated, cmd := s.overlays[len(s.overlays)-1].Update(msg)
	if o, ok := updated.(Overlay); ok {
		s.overlays[len(s.overlays)-1] = o
	}
	return cmd
}
