package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/types"
)

func TestViewStates(t *testing.T) {
	t.Run("zero size", func(t *testing.T) {
		m := newTestModel(t)
		m.width = 0
		m.height = 0
		if m.View() != "Loading..." {
			t.Error("Expected the placeholder before the first size message")
		}
	})

	t.Run("loading screen before first results", func(t *testing.T) {
		m := newTestModel(t)
		m.loading = true
		if !strings.Contains(m.View(), "Loading tasks...") {
			t.Error("Expected the loading screen while the store is empty")
		}
	})

	t.Run("list with tasks", func(t *testing.T) {
		m := newTestModel(t)
		m = seedTasks(t, m, 2,
			confirmedTask("srv-1", "TW-1", "Fix login"),
			confirmedTask("srv-2", "TW-2", "Write docs"))

		view := m.View()
		if !strings.Contains(view, "Fix login") {
			t.Error("Expected task names in the list view")
		}
		if !strings.Contains(view, "2 tasks") {
			t.Error("Expected the total count in the status bar")
		}
	})

	t.Run("offline indicator", func(t *testing.T) {
		m := newTestModel(t)
		m = seedTasks(t, m, 1, confirmedTask("srv-1", "TW-1", "Fix login"))
		m.offline = true
		if !strings.Contains(m.View(), "OFFLINE") {
			t.Error("Expected the offline indicator in the status bar")
		}
	})
}

func TestViewHeight(t *testing.T) {
	m := newTestModel(t)
	m = seedTasks(t, m, 2,
		confirmedTask("srv-1", "TW-1", "Fix login"),
		confirmedTask("srv-2", "TW-2", "Write docs"))

	t.Run("normal view", func(t *testing.T) {
		view := m.View()
		lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
		if len(lines) > m.height {
			t.Errorf("Normal view is too tall: got %d lines, want %d", len(lines), m.height)
		}
	})

	t.Run("with overlay", func(t *testing.T) {
		m.overlays.Push(&testOverlay{})
		view := m.View()
		if !strings.Contains(view, "test overlay") {
			t.Error("Expected the overlay content in the view")
		}
		if !strings.Contains(view, "Test") {
			t.Error("Expected the overlay title in the view")
		}
		m.overlays.Pop()
	})

	t.Run("with toasts", func(t *testing.T) {
		m.toasts = append(m.toasts, types.Toast{
			Level:   types.ToastInfo,
			Message: "test toast",
			Expires: time.Now().Add(time.Hour),
		})
		if !strings.Contains(m.View(), "test toast") {
			t.Error("Expected the toast in the view")
		}
	})
}

type testOverlay struct{}

func (o *testOverlay) View() string                            { return "test overlay" }
func (o *testOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return o, nil }
func (o *testOverlay) Init() tea.Cmd                           { return nil }
func (o *testOverlay) Title() string                           { return "Test" }
func (o *testOverlay) Size() (int, int)                        { return 20, 10 }
