package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/domain"
)

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
}

func TestFilterMenu_ToggleEmitsChange(t *testing.T) {
	filter := domain.NewFilter()
	menu := NewFilterMenu(filter, nil)

	// Second entry is the "My tasks" tab.
	menu.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, cmd := menu.Update(space())
	if cmd == nil {
		t.Fatal("expected a change command")
	}

	changed, ok := cmd().(FilterChangedMsg)
	if !ok {
		t.Fatalf("expected FilterChangedMsg, got %T", cmd())
	}
	if changed.Filter.Tab != domain.TabMine {
		t.Errorf("expected tab switched to mine, got %v", changed.Filter.Tab)
	}
}

func TestFilterMenu_StatusEntriesDedupedByCanonical(t *testing.T) {
	catalog := []domain.Status{
		{Name: "Doing", Canonical: domain.CanonicalActive},
		{Name: "In Progress", Canonical: domain.CanonicalActive},
		{Name: "Done", Canonical: domain.CanonicalDone},
	}
	menu := NewFilterMenu(domain.NewFilter(), catalog)

	statuses := 0
	for _, e := range menu.entries {
		if e.section == "Status" {
			statuses++
		}
	}
	if statuses != 2 {
		t.Errorf("expected one entry per canonical status, got %d", statuses)
	}
}

func TestFilterMenu_ClearResetsEverything(t *testing.T) {
	filter := domain.NewFilter()
	filter.Tab = domain.TabRecurring
	filter.TogglePriority(domain.PriorityHigh)
	menu := NewFilterMenu(filter, nil)

	_, cmd := menu.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd == nil {
		t.Fatal("expected a change command after clear")
	}

	changed := cmd().(FilterChangedMsg)
	if changed.Filter.Tab != domain.TabAll || len(changed.Filter.Priority) != 0 {
		t.Errorf("expected a pristine filter after clear, got %+v", changed.Filter)
	}
}

func TestFilterMenu_MenuStaysOpenOnToggle(t *testing.T) {
	menu := NewFilterMenu(domain.NewFilter(), nil)

	_, cmd := menu.Update(space())
	if _, ok := cmd().(CloseOverlayMsg); ok {
		t.Error("toggling should not close the menu")
	}

	_, cmd = menu.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := cmd().(CloseOverlayMsg); !ok {
		t.Error("enter should close the menu")
	}
}
