// Package store holds the client-side task cache: the single source of truth
// every view reads from. All mutations are synchronous; only the remote
// server introduces asynchrony.
package store

import (
	"time"

	"github.com/taskwire/taskwire/internal/domain"
)

// Store is the in-memory normalized task collection plus selection,
// pagination and open-task state.
type Store struct {
	tasks    []domain.Task
	total    int
	page     int
	pageSize int
	hasMore  bool

	selected map[string]bool
	openKey  string
	open     *domain.Task
}

// New creates an empty store with the given page size.
func New(pageSize int) *Store {
	return &Store{
		pageSize: pageSize,
		selected: make(map[string]bool),
	}
}

// Tasks returns the current task list in fetch order.
func (s *Store) Tasks() []domain.Task {
	return s.tasks
}

// Total returns the server-reported total count.
func (s *Store) Total() int {
	return s.total
}

// Page returns the last installed page number.
func (s *Store) Page() int {
	return s.page
}

// HasMore reports whether another page can be appended.
func (s *Store) HasMore() bool {
	return s.hasMore
}

// Len returns the number of cached tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Replace discards the current list and installs a fresh fetch. Entries
// sharing an identity are deduplicated, the later one winning.
func (s *Store) Replace(tasks []domain.Task, total int) {
	s.tasks = dedupe(tasks)
	s.total = total
	s.page = 1
	s.hasMore = len(s.tasks) < total
	s.syncOpen()
}

// Append merges an additional page onto the end of the list. A task already
// present is not inserted twice; its fields are overwritten instead.
func (s *Store) Append(tasks []domain.Task) {
	merged := make([]domain.Task, len(s.tasks))
	copy(merged, s.tasks)
	index := make(map[string]int, len(merged))
	for i, t := range merged {
		index[t.ID.Key()] = i
	}

	for _, t := range tasks {
		if i, ok := index[t.ID.Key()]; ok {
			merged[i] = t
			continue
		}
		index[t.ID.Key()] = len(merged)
		merged = append(merged, t)
	}

	s.tasks = merged
	s.page++
	s.hasMore = len(s.tasks) < s.total
	s.syncOpen()
}

// Insert places a task at the top of the list. Used for freshly spawned
// provisional rows.
func (s *Store) Insert(t domain.Task) {
	s.tasks = append([]domain.Task{t}, s.tasks...)
	s.total++
}

// Get returns the task for the given identity, trying the server id first
// and the local placeholder key second.
func (s *Store) Get(id domain.TaskID) (domain.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return domain.Task{}, false
}

// GetByKey returns the task whose canonical key matches.
func (s *Store) GetByKey(key string) (domain.Task, bool) {
	for _, t := range s.tasks {
		if t.ID.Key() == key {
			return t, true
		}
	}
	return domain.Task{}, false
}

// Patch locates a task by identity and shallow-merges the given fields as a
// single atomic merge. If the patched task is the currently open one, the
// open-task copy receives the identical merge so the two never diverge.
// Returns false when no task matches.
func (s *Store) Patch(id domain.TaskID, p TaskPatch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	p.apply(&s.tasks[i])
	if s.open != nil && s.tasks[i].ID.Key() == s.openKey {
		p.apply(s.open)
	}
	return true
}

// Remove deletes a task by its primary identity only, decrements the total
// count and clears selection and open pointers that referenced it.
func (s *Store) Remove(id domain.TaskID) bool {
	for i, t := range s.tasks {
		match := t.ID.Key() == id.Key()
		if id.Confirmed() {
			match = t.ID.Server == id.Server
		}
		if !match {
			continue
		}
		key := t.ID.Key()
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		if s.total > 0 {
			s.total--
		}
		delete(s.selected, key)
		if s.openKey == key {
			s.openKey = ""
			s.open = nil
		}
		return true
	}
	return false
}

// Confirm exchanges a local placeholder key for a server identity across the
// list, the selection set and the open pointer. The task keeps its local key
// for focus bookkeeping but the server id becomes canonical.
func (s *Store) Confirm(localKey, serverID string) bool {
	for i := range s.tasks {
		if s.tasks[i].ID.Local != localKey || s.tasks[i].ID.Confirmed() {
			continue
		}
		s.tasks[i].ID.Server = serverID
		if s.selected[localKey] {
			delete(s.selected, localKey)
			s.selected[serverID] = true
		}
		if s.openKey == localKey {
			s.openKey = serverID
			if s.open != nil {
				s.open.ID.Server = serverID
			}
		}
		return true
	}
	return false
}

// Open marks a task as the currently open detail task.
func (s *Store) Open(id domain.TaskID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t := s.tasks[i]
	s.openKey = t.ID.Key()
	s.open = &t
	return true
}

// OpenTask returns a copy of the currently open task, if any.
func (s *Store) OpenTask() (domain.Task, bool) {
	if s.open == nil {
		return domain.Task{}, false
	}
	return *s.open, true
}

// OpenKey returns the canonical key of the open task, or "".
func (s *Store) OpenKey() string {
	return s.openKey
}

// Close clears the open-task pointer.
func (s *Store) Close() {
	s.openKey = ""
	s.open = nil
}

// ToggleSelect flips selection for one task key.
func (s *Store) ToggleSelect(key string) {
	if s.selected[key] {
		delete(s.selected, key)
	} else {
		s.selected[key] = true
	}
}

// SelectAll selects every given key.
func (s *Store) SelectAll(keys []string) {
	for _, k := range keys {
		s.selected[k] = true
	}
}

// ClearSelection drops all selections.
func (s *Store) ClearSelection() {
	s.selected = make(map[string]bool)
}

// Selected returns the selection set.
func (s *Store) Selected() map[string]bool {
	return s.selected
}

// IsSelected reports whether the key is selected.
func (s *Store) IsSelected(key string) bool {
	return s.selected[key]
}

// Subtasks returns the cached tasks whose parent matches the given identity.
func (s *Store) Subtasks(parent domain.TaskID) []domain.Task {
	var subs []domain.Task
	for _, t := range s.tasks {
		if t.Parent != nil && t.Parent.Key() == parent.Key() {
			subs = append(subs, t)
		}
	}
	return subs
}

// index locates a task by identity: primary identity first, local
// placeholder second.
func (s *Store) index(id domain.TaskID) int {
	if id.Confirmed() {
		for i, t := range s.tasks {
			if t.ID.Server == id.Server {
				return i
			}
		}
	}
	if id.Local != "" {
		for i, t := range s.tasks {
			if t.ID.Local == id.Local {
				return i
			}
		}
	}
	return -1
}

// syncOpen re-points the open-task copy at the authoritative list entry
// after a bulk install, or drops it when the task is gone.
func (s *Store) syncOpen() {
	if s.openKey == "" {
		return
	}
	for _, t := range s.tasks {
		if t.ID.Key() == s.openKey {
			copied := t
			s.open = &copied
			return
		}
	}
	// The open task fell out of the fetched window. Keep the panel's copy:
	// visibility in the list and the panel lifecycle are independent.
}

func dedupe(tasks []domain.Task) []domain.Task {
	result := make([]domain.Task, 0, len(tasks))
	index := make(map[string]int, len(tasks))
	for _, t := range tasks {
		if i, ok := index[t.ID.Key()]; ok {
			result[i] = t
			continue
		}
		index[t.ID.Key()] = len(result)
		result = append(result, t)
	}
	return result
}

// TaskPatch is a set of fields to shallow-merge into a task. Nil fields are
// left untouched; the whole patch applies atomically.
type TaskPatch struct {
	Name            *string
	Priority        *domain.Priority
	Status          *domain.Status
	DueDate         *time.Time
	ClearDueDate    bool
	Description     *string
	Assignees       *[]domain.User
	Assignee        **domain.User
	Project         **string
	Section         **string
	LikedBy         *[]domain.User
	Completed       *bool
	NeedsRepeat     *bool
	Parent          **domain.TaskID
	Ancestors       *[]domain.Crumb
	Code            *string
	CommentCount    *int
	AttachmentCount *int
	SubtaskCount    *int
	TimeTracked     *domain.TimeTracked
	UpdatedAt       *time.Time
}

func (p TaskPatch) apply(t *domain.Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Assignees != nil {
		t.Assignees = *p.Assignees
		// Legacy dual-write: the single assignee mirrors the first entry.
		if len(*p.Assignees) > 0 {
			first := (*p.Assignees)[0]
			t.Assignee = &first
		} else {
			t.Assignee = nil
		}
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.Section != nil {
		t.Section = *p.Section
	}
	if p.LikedBy != nil {
		t.LikedBy = *p.LikedBy
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.NeedsRepeat != nil {
		t.NeedsRepeat = *p.NeedsRepeat
	}
	if p.Parent != nil {
		t.Parent = *p.Parent
	}
	if p.Ancestors != nil {
		t.Ancestors = *p.Ancestors
	}
	if p.Code != nil {
		t.Code = *p.Code
	}
	if p.CommentCount != nil {
		t.CommentCount = *p.CommentCount
	}
	if p.AttachmentCount != nil {
		t.AttachmentCount = *p.AttachmentCount
	}
	if p.SubtaskCount != nil {
		t.SubtaskCount = *p.SubtaskCount
	}
	if p.TimeTracked != nil {
		t.TimeTracked = *p.TimeTracked
	}
	if p.UpdatedAt != nil {
		t.UpdatedAt = *p.UpdatedAt
	}
}
