package domain

import (
	"testing"
	"time"
)

const viewer = "user-1"

func confirmedTask(id string) Task {
	return Task{ID: ConfirmedID(id), Name: "Task " + id, Status: DefaultStatuses()[0]}
}

func TestFilter_IsActive(t *testing.T) {
	f := NewFilter()
	if f.IsActive() {
		t.Error("empty filter should not be active")
	}

	f.ToggleStatus(CanonicalDone)
	if !f.IsActive() {
		t.Error("filter with status should be active")
	}

	f.Clear()
	if f.IsActive() {
		t.Error("cleared filter should not be active")
	}

	f.Tab = TabAssigned
	if !f.IsActive() {
		t.Error("non-default tab should be active")
	}
}

func TestFilter_Matches_Tabs(t *testing.T) {
	mine := confirmedTask("t-1")
	mine.Creator = User{ID: viewer}

	assigned := confirmedTask("t-2")
	assigned.Assignees = []User{{ID: viewer}}

	legacyAssigned := confirmedTask("t-3")
	legacyAssigned.Assignee = &User{ID: viewer}

	mentioned := confirmedTask("t-4")
	mentioned.Mentions = []string{viewer}

	recurring := confirmedTask("t-5")
	recurring.Recurring = true

	imported := confirmedTask("t-6")
	imported.Imported = true

	other := confirmedTask("t-7")

	tests := []struct {
		name string
		tab  Tab
		task Task
		want bool
	}{
		{"all matches anything", TabAll, other, true},
		{"my matches creator", TabMine, mine, true},
		{"my rejects others", TabMine, other, false},
		{"assigned matches assignee set", TabAssigned, assigned, true},
		{"assigned matches legacy assignee", TabAssigned, legacyAssigned, true},
		{"assigned rejects unassigned", TabAssigned, other, false},
		{"mentioned matches mention", TabMentioned, mentioned, true},
		{"mentioned rejects others", TabMentioned, other, false},
		{"recurring matches recurring", TabRecurring, recurring, true},
		{"recurring rejects one-off", TabRecurring, other, false},
		{"imported matches imported", TabImported, imported, true},
		{"imported rejects native", TabImported, other, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter()
			f.Tab = tt.tab
			if got := f.Matches(tt.task, viewer); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches_Fields(t *testing.T) {
	project := "proj-1"
	due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	task := confirmedTask("t-1")
	task.Project = &project
	task.Status = Status{Name: "QA", Canonical: CanonicalReview}
	task.Priority = PriorityHigh
	task.Assignees = []User{{ID: "user-2"}}
	task.DueDate = &due

	t.Run("status filter keys off canonical value", func(t *testing.T) {
		f := NewFilter()
		f.ToggleStatus(CanonicalReview)
		if !f.Matches(task, viewer) {
			t.Error("expected match on canonical status")
		}
		f.Clear()
		f.ToggleStatus(CanonicalDone)
		if f.Matches(task, viewer) {
			t.Error("expected mismatch on other canonical status")
		}
	})

	t.Run("priority filter", func(t *testing.T) {
		f := NewFilter()
		f.TogglePriority(PriorityHigh)
		if !f.Matches(task, viewer) {
			t.Error("expected match on priority")
		}
	})

	t.Run("assignee filter", func(t *testing.T) {
		f := NewFilter()
		f.ToggleAssignee("user-2")
		if !f.Matches(task, viewer) {
			t.Error("expected match on assignee")
		}
		f.Clear()
		f.ToggleAssignee("user-9")
		if f.Matches(task, viewer) {
			t.Error("expected mismatch on absent assignee")
		}
	})

	t.Run("date range", func(t *testing.T) {
		f := NewFilter()
		from := due.AddDate(0, 0, -1)
		to := due.AddDate(0, 0, 1)
		f.DueFrom = &from
		f.DueTo = &to
		if !f.Matches(task, viewer) {
			t.Error("expected match inside date range")
		}

		late := due.AddDate(0, 0, 2)
		f.DueFrom = &late
		if f.Matches(task, viewer) {
			t.Error("expected mismatch before range start")
		}
	})

	t.Run("search matches name or code", func(t *testing.T) {
		withCode := task
		withCode.Code = "TW-42"

		f := NewFilter()
		f.Search = "tw-42"
		if !f.Matches(withCode, viewer) {
			t.Error("expected case-insensitive code match")
		}
		f.Search = "nope"
		if f.Matches(withCode, viewer) {
			t.Error("expected search mismatch")
		}
	})
}

func TestFilter_Matches_ProvisionalAlwaysVisible(t *testing.T) {
	f := NewFilter()
	f.Tab = TabAssigned
	f.ToggleStatus(CanonicalDone)
	f.Search = "unrelated"

	provisional := Task{ID: ProvisionalID("local-1"), Name: "Draft"}
	if !f.Matches(provisional, viewer) {
		t.Error("provisional task must stay visible under any filter")
	}
}

func TestFilter_Apply(t *testing.T) {
	high := confirmedTask("t-1")
	high.Priority = PriorityHigh
	low := confirmedTask("t-2")
	low.Priority = PriorityLow

	f := NewFilter()
	f.TogglePriority(PriorityHigh)

	result := f.Apply([]Task{high, low}, viewer)
	if len(result) != 1 || result[0].ID.Key() != "t-1" {
		t.Errorf("Apply() = %v tasks, want only t-1", len(result))
	}
}
