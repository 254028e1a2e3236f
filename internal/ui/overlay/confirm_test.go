package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestConfirmDialog_DefaultsToNo(t *testing.T) {
	dialog := NewConfirmDialog("Delete task", "Delete TW-1?")

	if dialog.selected {
		t.Error("expected the dialog to default to No")
	}

	_, cmd := dialog.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := cmd().(SelectionMsg)
	if sel.Value.(ConfirmResult).Confirmed {
		t.Error("expected enter on the default to decline")
	}
}

func TestConfirmDialog_ShortcutKeys(t *testing.T) {
	tests := []struct {
		key       rune
		confirmed bool
	}{
		{'y', true},
		{'Y', true},
		{'n', false},
		{'N', false},
	}

	for _, tt := range tests {
		dialog := NewConfirmDialog("Title", "Message")
		_, cmd := dialog.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{tt.key}})
		if cmd == nil {
			t.Fatalf("key %q: expected a command", tt.key)
		}
		sel := cmd().(SelectionMsg)
		if sel.Value.(ConfirmResult).Confirmed != tt.confirmed {
			t.Errorf("key %q: expected confirmed=%v", tt.key, tt.confirmed)
		}
	}
}

func TestConfirmDialog_EscapeDeclines(t *testing.T) {
	dialog := NewConfirmDialog("Title", "Message")

	_, cmd := dialog.Update(tea.KeyMsg{Type: tea.KeyEscape})
	sel := cmd().(SelectionMsg)
	if sel.Value.(ConfirmResult).Confirmed {
		t.Error("expected escape to decline")
	}
}

func TestConfirmDialog_Navigation(t *testing.T) {
	dialog := NewConfirmDialog("Title", "Message")

	model, _ := dialog.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	dialog = model.(*ConfirmDialog)
	if !dialog.selected {
		t.Error("expected l to move to Yes")
	}

	model, _ = dialog.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	dialog = model.(*ConfirmDialog)
	if dialog.selected {
		t.Error("expected h to move back to No")
	}

	model, _ = dialog.Update(tea.KeyMsg{Type: tea.KeyTab})
	dialog = model.(*ConfirmDialog)
	_, cmd := dialog.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := cmd().(SelectionMsg)
	if !sel.Value.(ConfirmResult).Confirmed {
		t.Error("expected enter after tab to confirm")
	}
}
