package domain

import (
	"strings"
	"time"
)

// Tab selects which slice of the task universe the list view shows.
type Tab string

const (
	TabAll       Tab = "all"
	TabMine      Tab = "my"
	TabAssigned  Tab = "assigned"
	TabMentioned Tab = "mentioned"
	TabRecurring Tab = "recurring"
	TabImported  Tab = "imported"
)

// Filter represents task filtering state. It is persisted to local storage
// on every change and rehydrated at startup.
type Filter struct {
	Tab      Tab               `json:"tab"`
	Search   string            `json:"search"`
	Project  map[string]bool   `json:"project"`
	Status   map[string]bool   `json:"status"` // keyed by canonical status value
	Priority map[Priority]bool `json:"priority"`
	Assignee map[string]bool   `json:"assignee"`
	DueFrom  *time.Time        `json:"due_from,omitempty"`
	DueTo    *time.Time        `json:"due_to,omitempty"`
}

// NewFilter creates a new empty filter on the "all" tab.
func NewFilter() *Filter {
	return &Filter{
		Tab:      TabAll,
		Project:  make(map[string]bool),
		Status:   make(map[string]bool),
		Priority: make(map[Priority]bool),
		Assignee: make(map[string]bool),
	}
}

// IsActive returns true if anything beyond the default tab is set.
func (f *Filter) IsActive() bool {
	return f.Tab != TabAll ||
		f.Search != "" ||
		len(f.Project) > 0 ||
		len(f.Status) > 0 ||
		len(f.Priority) > 0 ||
		len(f.Assignee) > 0 ||
		f.DueFrom != nil ||
		f.DueTo != nil
}

// Apply filters a list of tasks for the given viewer.
func (f *Filter) Apply(tasks []Task, viewerID string) []Task {
	if !f.IsActive() {
		return tasks
	}

	result := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task, viewerID) {
			result = append(result, task)
		}
	}
	return result
}

// Matches returns true if the task passes the tab and all active filters.
// AND logic between filter kinds, OR logic within a kind. A provisional task
// always matches: it must stay visible while the user is still typing it.
func (f *Filter) Matches(t Task, viewerID string) bool {
	if t.Provisional() {
		return true
	}

	switch f.Tab {
	case TabMine:
		if t.Creator.ID != viewerID {
			return false
		}
	case TabAssigned:
		if !t.AssignedTo(viewerID) {
			return false
		}
	case TabMentioned:
		if !t.MentionsUser(viewerID) {
			return false
		}
	case TabRecurring:
		if !t.Recurring {
			return false
		}
	case TabImported:
		if !t.Imported {
			return false
		}
	}

	if len(f.Project) > 0 {
		if t.Project == nil || !f.Project[*t.Project] {
			return false
		}
	}

	if len(f.Status) > 0 {
		if !f.Status[t.Status.Canonical] {
			return false
		}
	}

	if len(f.Priority) > 0 {
		if !f.Priority[t.Priority] {
			return false
		}
	}

	if len(f.Assignee) > 0 {
		matched := false
		for id := range f.Assignee {
			if t.AssignedTo(id) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.DueFrom != nil {
		if t.DueDate == nil || t.DueDate.Before(*f.DueFrom) {
			return false
		}
	}
	if f.DueTo != nil {
		if t.DueDate == nil || t.DueDate.After(*f.DueTo) {
			return false
		}
	}

	if f.Search != "" {
		query := strings.ToLower(f.Search)
		name := strings.ToLower(t.Name)
		code := strings.ToLower(t.Code)
		if !strings.Contains(name, query) && !strings.Contains(code, query) {
			return false
		}
	}

	return true
}

// Clear resets all filters and returns to the "all" tab.
func (f *Filter) Clear() {
	f.Tab = TabAll
	f.Search = ""
	f.Project = make(map[string]bool)
	f.Status = make(map[string]bool)
	f.Priority = make(map[Priority]bool)
	f.Assignee = make(map[string]bool)
	f.DueFrom = nil
	f.DueTo = nil
}

// ToggleStatus toggles a canonical status filter.
func (f *Filter) ToggleStatus(canonical string) {
	if f.Status[canonical] {
		delete(f.Status, canonical)
	} else {
		f.Status[canonical] = true
	}
}

// TogglePriority toggles a priority filter.
func (f *Filter) TogglePriority(p Priority) {
	if f.Priority[p] {
		delete(f.Priority, p)
	} else {
		f.Priority[p] = true
	}
}

// ToggleProject toggles a project filter.
func (f *Filter) ToggleProject(project string) {
	if f.Project[project] {
		delete(f.Project, project)
	} else {
		f.Project[project] = true
	}
}

// ToggleAssignee toggles an assignee filter.
func (f *Filter) ToggleAssignee(userID string) {
	if f.Assignee[userID] {
		delete(f.Assignee, userID)
	} else {
		f.Assignee[userID] = true
	}
}
