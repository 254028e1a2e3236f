package domain

import "sort"

// SortField represents a field to sort by.
type SortField string

const (
	SortByCreation SortField = "creation"
	SortByCode     SortField = "code"
	SortByDueDate  SortField = "due"
	SortByPriority SortField = "priority"
	SortByStatus   SortField = "status"
	SortByLogged   SortField = "logged"
)

// SortOrder represents sort direction.
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// Sort represents sorting state.
type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// Toggle switches to a new field with ascending order, or flips the
// direction when the field is already active.
func (s *Sort) Toggle(field SortField) {
	if s.Field == field {
		if s.Order == SortAsc {
			s.Order = SortDesc
		} else {
			s.Order = SortAsc
		}
	} else {
		s.Field = field
		s.Order = SortAsc
	}
}

// Apply sorts a list of tasks. Provisional tasks always land above confirmed
// ones regardless of the active field; within each partition the sort is
// stable. The input slice is never modified.
func (s *Sort) Apply(tasks []Task) []Task {
	if len(tasks) == 0 {
		return tasks
	}

	result := make([]Task, len(tasks))
	copy(result, tasks)

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Provisional() != b.Provisional() {
			return a.Provisional()
		}
		return s.less(a, b)
	})

	return result
}

func (s *Sort) less(a, b Task) bool {
	switch s.Field {
	case SortByCode:
		if s.Order == SortAsc {
			return a.Code < b.Code
		}
		return a.Code > b.Code

	case SortByDueDate:
		// Missing due dates sort after present ones in both directions.
		if (a.DueDate == nil) != (b.DueDate == nil) {
			return b.DueDate == nil
		}
		if a.DueDate == nil {
			return false
		}
		if s.Order == SortAsc {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.DueDate.After(*b.DueDate)

	case SortByPriority:
		if s.Order == SortAsc {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.Priority.Rank() > b.Priority.Rank()

	case SortByStatus:
		if s.Order == SortAsc {
			return a.Status.Rank() < b.Status.Rank()
		}
		return a.Status.Rank() > b.Status.Rank()

	case SortByLogged:
		if s.Order == SortAsc {
			return a.TimeTracked.Total < b.TimeTracked.Total
		}
		return a.TimeTracked.Total > b.TimeTracked.Total

	default:
		// Creation order: preserve fetch order.
		return false
	}
}
