package domain

import (
	"testing"
	"time"
)

func TestSort_Toggle(t *testing.T) {
	tests := []struct {
		name      string
		initial   Sort
		toggleTo  SortField
		wantField SortField
		wantOrder SortOrder
	}{
		{
			name:      "toggle to new field sets asc",
			initial:   Sort{Field: SortByPriority, Order: SortDesc},
			toggleTo:  SortByDueDate,
			wantField: SortByDueDate,
			wantOrder: SortAsc,
		},
		{
			name:      "toggle same field asc to desc",
			initial:   Sort{Field: SortByPriority, Order: SortAsc},
			toggleTo:  SortByPriority,
			wantField: SortByPriority,
			wantOrder: SortDesc,
		},
		{
			name:      "toggle same field desc to asc",
			initial:   Sort{Field: SortByPriority, Order: SortDesc},
			toggleTo:  SortByPriority,
			wantField: SortByPriority,
			wantOrder: SortAsc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.initial
			s.Toggle(tt.toggleTo)

			if s.Field != tt.wantField {
				t.Errorf("Toggle() field = %v, want %v", s.Field, tt.wantField)
			}
			if s.Order != tt.wantOrder {
				t.Errorf("Toggle() order = %v, want %v", s.Order, tt.wantOrder)
			}
		})
	}
}

func TestSort_Apply_Priority(t *testing.T) {
	tasks := []Task{
		{ID: ConfirmedID("t-1"), Priority: PriorityLow},
		{ID: ConfirmedID("t-2"), Priority: PriorityHigh},
		{ID: ConfirmedID("t-3"), Priority: PriorityMedium},
		{ID: ConfirmedID("t-4"), Priority: PriorityHigh},
	}

	t.Run("ascending", func(t *testing.T) {
		s := Sort{Field: SortByPriority, Order: SortAsc}
		result := s.Apply(tasks)

		want := []string{"t-2", "t-4", "t-3", "t-1"}
		for i, task := range result {
			if task.ID.Key() != want[i] {
				t.Errorf("Apply()[%d] = %s, want %s", i, task.ID.Key(), want[i])
			}
		}
	})

	t.Run("descending", func(t *testing.T) {
		s := Sort{Field: SortByPriority, Order: SortDesc}
		result := s.Apply(tasks)

		want := []string{"t-1", "t-3", "t-2", "t-4"}
		for i, task := range result {
			if task.ID.Key() != want[i] {
				t.Errorf("Apply()[%d] = %s, want %s", i, task.ID.Key(), want[i])
			}
		}
	})
}

func TestSort_Apply_DueDate_MissingLast(t *testing.T) {
	day := func(d int) *time.Time {
		ts := time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	tasks := []Task{
		{ID: ConfirmedID("t-1"), DueDate: day(20)},
		{ID: ConfirmedID("t-2")},
		{ID: ConfirmedID("t-3"), DueDate: day(10)},
		{ID: ConfirmedID("t-4")},
	}

	t.Run("ascending keeps missing dates last", func(t *testing.T) {
		s := Sort{Field: SortByDueDate, Order: SortAsc}
		result := s.Apply(tasks)

		want := []string{"t-3", "t-1", "t-2", "t-4"}
		for i, task := range result {
			if task.ID.Key() != want[i] {
				t.Errorf("Apply()[%d] = %s, want %s", i, task.ID.Key(), want[i])
			}
		}
	})

	t.Run("descending keeps missing dates last", func(t *testing.T) {
		s := Sort{Field: SortByDueDate, Order: SortDesc}
		result := s.Apply(tasks)

		want := []string{"t-1", "t-3", "t-2", "t-4"}
		for i, task := range result {
			if task.ID.Key() != want[i] {
				t.Errorf("Apply()[%d] = %s, want %s", i, task.ID.Key(), want[i])
			}
		}
	})
}

func TestSort_Apply_Status_CanonicalRank(t *testing.T) {
	tasks := []Task{
		{ID: ConfirmedID("t-1"), Status: Status{Name: "Zzz Done", Canonical: CanonicalDone}},
		{ID: ConfirmedID("t-2"), Status: Status{Name: "Backlog", Canonical: CanonicalTodo}},
		{ID: ConfirmedID("t-3"), Status: Status{Name: "Active", Canonical: CanonicalActive}},
		{ID: ConfirmedID("t-4"), Status: Status{Name: "QA", Canonical: CanonicalReview}},
	}

	s := Sort{Field: SortByStatus, Order: SortAsc}
	result := s.Apply(tasks)

	// Canonical workflow order, not alphabetical by name.
	want := []string{"t-2", "t-3", "t-4", "t-1"}
	for i, task := range result {
		if task.ID.Key() != want[i] {
			t.Errorf("Apply()[%d] = %s, want %s", i, task.ID.Key(), want[i])
		}
	}
}

func TestSort_Apply_ProvisionalPinnedToTop(t *testing.T) {
	tasks := []Task{
		{ID: ConfirmedID("t-1"), Priority: PriorityHigh},
		{ID: ProvisionalID("local-a"), Priority: PriorityLow},
		{ID: ConfirmedID("t-2"), Priority: PriorityMedium},
		{ID: ProvisionalID("local-b"), Priority: PriorityMedium},
	}

	fields := []SortField{SortByCreation, SortByCode, SortByDueDate, SortByPriority, SortByStatus, SortByLogged}
	for _, field := range fields {
		t.Run(string(field), func(t *testing.T) {
			s := Sort{Field: field, Order: SortDesc}
			result := s.Apply(tasks)

			if !result[0].Provisional() || !result[1].Provisional() {
				t.Errorf("provisional tasks not pinned to top for field %s", field)
			}
			if result[0].ID.Key() != "local-a" || result[1].ID.Key() != "local-b" {
				t.Errorf("provisional tasks reordered: got %s, %s", result[0].ID.Key(), result[1].ID.Key())
			}
		})
	}
}

func TestSort_Apply_Logged(t *testing.T) {
	tasks := []Task{
		{ID: ConfirmedID("t-1"), TimeTracked: TimeTracked{Total: 3 * time.Hour}},
		{ID: ConfirmedID("t-2"), TimeTracked: TimeTracked{Total: time.Hour}},
		{ID: ConfirmedID("t-3"), TimeTracked: TimeTracked{Total: 2 * time.Hour}},
	}

	s := Sort{Field: SortByLogged, Order: SortAsc}
	result := s.Apply(tasks)

	want := []string{"t-2", "t-3", "t-1"}
	for i, task := range result {
		if task.ID.Key() != want[i] {
			t.Errorf("Apply()[%d] = %s, want %s", i, task.ID.Key(), want[i])
		}
	}
}

func TestSort_Apply_EmptyTasks(t *testing.T) {
	s := Sort{Field: SortByPriority, Order: SortAsc}
	result := s.Apply([]Task{})

	if len(result) != 0 {
		t.Errorf("Apply(empty) should return empty slice, got %d tasks", len(result))
	}
}

func TestSort_Apply_StableSort(t *testing.T) {
	tasks := []Task{
		{ID: ConfirmedID("t-1"), Priority: PriorityMedium},
		{ID: ConfirmedID("t-2"), Priority: PriorityMedium},
		{ID: ConfirmedID("t-3"), Priority: PriorityMedium},
	}

	s := Sort{Field: SortByPriority, Order: SortAsc}
	result := s.Apply(tasks)

	want := []string{"t-1", "t-2", "t-3"}
	for i, task := range result {
		if task.ID.Key() != want[i] {
			t.Errorf("Apply()[%d] = %s, want %s (stable sort failed)", i, task.ID.Key(), want[i])
		}
	}
}
