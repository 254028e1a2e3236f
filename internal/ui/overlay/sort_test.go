package overlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/domain"
)

func TestSortMenu_CursorStartsOnActiveField(t *testing.T) {
	menu := NewSortMenu(domain.Sort{Field: domain.SortByPriority})

	if sortOptions[menu.cursor].field != domain.SortByPriority {
		t.Errorf("expected cursor on the active field, got %v", sortOptions[menu.cursor].field)
	}
}

func TestSortMenu_EnterEmitsField(t *testing.T) {
	menu := NewSortMenu(domain.Sort{Field: domain.SortByCreation})

	menu.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	menu.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, cmd := menu.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a selection command")
	}

	sel := cmd().(SelectionMsg)
	if sel.Key != "sort" || sel.Value.(domain.SortField) != domain.SortByDueDate {
		t.Errorf("expected due date field selected, got %+v", sel)
	}
}

func TestSortMenu_ViewMarksDirection(t *testing.T) {
	menu := NewSortMenu(domain.Sort{Field: domain.SortByCode, Order: domain.SortDesc})

	view := menu.View()
	if !strings.Contains(view, "↓") {
		t.Error("expected the active descending field marked")
	}
	if strings.Contains(view, "↑") {
		t.Error("expected no ascending marker when sorting descending")
	}
}
