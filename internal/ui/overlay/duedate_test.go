package overlay

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDueDatePicker_ParsesDate(t *testing.T) {
	picker := NewDueDatePicker(nil)
	picker.input.SetValue("2026-09-15")

	_, cmd := picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a selection command")
	}

	sel := cmd().(SelectionMsg)
	result := sel.Value.(DueDateResult)
	if result.Date == nil {
		t.Fatal("expected a parsed date")
	}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !result.Date.Equal(want) {
		t.Errorf("expected %v, got %v", want, result.Date)
	}
}

func TestDueDatePicker_EmptyClears(t *testing.T) {
	now := time.Now()
	picker := NewDueDatePicker(&now)
	picker.input.SetValue("")

	_, cmd := picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := cmd().(SelectionMsg)
	if sel.Value.(DueDateResult).Date != nil {
		t.Error("expected empty input to clear the due date")
	}
}

func TestDueDatePicker_InvalidInputShowsError(t *testing.T) {
	picker := NewDueDatePicker(nil)
	picker.input.SetValue("next tuesday")

	_, cmd := picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an unparseable date")
	}
	if picker.errMsg == "" {
		t.Error("expected an inline validation message")
	}
}

func TestDueDatePicker_PrefilledWithCurrent(t *testing.T) {
	current := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	picker := NewDueDatePicker(&current)

	if got := picker.input.Value(); got != "2026-03-01" {
		t.Errorf("expected prefilled value, got %q", got)
	}
}
