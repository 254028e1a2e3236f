package list

import (
	"fmt"
	"strings"
	"testing"

	"github.com/taskwire/taskwire/internal/domain"
)

func makeTasks(n int) []domain.Task {
	tasks := make([]domain.Task, n)
	for i := range tasks {
		tasks[i] = domain.Task{
			ID:   domain.ConfirmedID(fmt.Sprintf("t-%d", i)),
			Code: fmt.Sprintf("TW-%d", i),
			Name: fmt.Sprintf("Task %d", i),
		}
	}
	return tasks
}

func TestWindow_SmallListMaterializesEverything(t *testing.T) {
	lv := NewListView(makeTasks(50), 80, 20)
	lv.SetVirtualization(200, 10)

	if lv.Virtualized() {
		t.Fatal("list below threshold should not be virtualized")
	}

	start, end := lv.Window()
	if start != 0 || end != 50 {
		t.Errorf("Window() = [%d, %d), want [0, 50)", start, end)
	}
}

func TestWindow_LargeListMaterializesViewportPlusOverscan(t *testing.T) {
	lv := NewListView(makeTasks(500), 80, 22) // 20 visible rows
	lv.SetVirtualization(200, 10)

	if !lv.Virtualized() {
		t.Fatal("list above threshold should be virtualized")
	}

	lv.SetCursor(250)
	start, end := lv.Window()
	if start > 250-10 {
		t.Errorf("window start %d does not include overscan above the viewport", start)
	}
	if end < 251 {
		t.Errorf("window end %d does not include the cursor row", end)
	}
	if end-start > 20+2*10 {
		t.Errorf("window [%d, %d) materializes more than viewport+overscan", start, end)
	}
}

func TestWindow_ClampedAtEdges(t *testing.T) {
	lv := NewListView(makeTasks(500), 80, 22)
	lv.SetVirtualization(200, 10)

	lv.SetCursor(0)
	start, _ := lv.Window()
	if start != 0 {
		t.Errorf("window start %d at top of list, want 0", start)
	}

	lv.SetCursor(499)
	_, end := lv.Window()
	if end != 500 {
		t.Errorf("window end %d at bottom of list, want 500", end)
	}
}

func TestSetCursor_ScrollsCursorIntoView(t *testing.T) {
	lv := NewListView(makeTasks(100), 80, 12) // 10 visible rows

	lv.SetCursor(50)
	if lv.top > 50 || lv.top+10 <= 50 {
		t.Errorf("cursor 50 not inside viewport starting at %d", lv.top)
	}

	lv.SetCursor(0)
	if lv.top != 0 {
		t.Errorf("scrolling to top, top = %d, want 0", lv.top)
	}
}

func TestSetCursor_Clamped(t *testing.T) {
	lv := NewListView(makeTasks(5), 80, 20)

	lv.SetCursor(-3)
	if lv.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", lv.Cursor())
	}

	lv.SetCursor(99)
	if lv.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4", lv.Cursor())
	}
}

func TestRender_ShowsProvisionalMarker(t *testing.T) {
	tasks := []domain.Task{
		{ID: domain.ProvisionalID("local-1"), Name: "Draft row"},
		{ID: domain.ConfirmedID("t-1"), Code: "TW-1", Name: "Real row"},
	}
	lv := NewListView(tasks, 80, 20)

	out := lv.Render()
	if !strings.Contains(out, "·new") {
		t.Error("provisional row should render the ·new marker instead of a code")
	}
	if !strings.Contains(out, "TW-1") {
		t.Error("confirmed row should render its code")
	}
}

func TestRender_EmptyNamePlaceholder(t *testing.T) {
	tasks := []domain.Task{{ID: domain.ProvisionalID("local-1")}}
	lv := NewListView(tasks, 80, 20)

	if !strings.Contains(lv.Render(), "(untitled)") {
		t.Error("a blank provisional row should render a placeholder name")
	}
}

func TestRender_EditingRowShowsEditorView(t *testing.T) {
	tasks := makeTasks(3)
	lv := NewListView(tasks, 80, 20)
	lv.SetEditing("t-1", "Task 1 renamed█")

	out := lv.Render()
	if !strings.Contains(out, "Task 1 renamed█") {
		t.Error("editing row should render the editor view in the name cell")
	}
}

func TestRender_WindowDoesNotChangeOrder(t *testing.T) {
	lv := NewListView(makeTasks(300), 120, 22)
	lv.SetVirtualization(200, 5)
	lv.SetCursor(150)

	out := lv.Render()
	i140 := strings.Index(out, "TW-150")
	i141 := strings.Index(out, "TW-151")
	if i140 == -1 || i141 == -1 {
		t.Fatal("rows around the cursor should be rendered")
	}
	if i140 > i141 {
		t.Error("windowing must not reorder rows")
	}
}

func TestCursorTask(t *testing.T) {
	lv := NewListView(makeTasks(3), 80, 20)
	lv.SetCursor(2)

	task, ok := lv.CursorTask()
	if !ok || task.Code != "TW-2" {
		t.Errorf("CursorTask() = %v, %v", task.Code, ok)
	}

	empty := NewListView(nil, 80, 20)
	if _, ok := empty.CursorTask(); ok {
		t.Error("CursorTask() on empty list should report false")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is far too long", 10, "this is..."},
		{"abc", 2, ".."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
