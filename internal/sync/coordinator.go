// Package sync contains the optimistic update coordinator: the layer that
// turns a user intent into an immediate store patch, a network call and a
// reconciliation or rollback.
package sync

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/taskwire/taskwire/internal/api"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/store"
)

// Field names used to key debounce timers and version counters.
const (
	fieldName        = "name"
	fieldPriority    = "priority"
	fieldStatus      = "status"
	fieldDueDate     = "due_date"
	fieldAssignees   = "assignees"
	fieldProject     = "project"
	fieldParent      = "parent"
	fieldDescription = "description"
	fieldLike        = "liked"
)

const requestTimeout = 15 * time.Second

// API is the subset of the REST client the coordinator drives.
type API interface {
	CreateTask(ctx context.Context, in api.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, serverID string, fields map[string]any) (domain.Task, error)
	DeleteTask(ctx context.Context, serverID string) error
}

// pendingEdit is a debounced field edit waiting for its timer to fire. The
// revert snapshot is taken when the chain starts, so a failure rolls all
// coalesced edits back to the last acknowledged value.
type pendingEdit struct {
	fields  map[string]any
	revert  store.TaskPatch
	version int
}

// Coordinator wraps every user-initiated task mutation. All methods must be
// called from the update loop; only the commands they return run
// asynchronously.
type Coordinator struct {
	store    *store.Store
	api      API
	logger   *slog.Logger
	debounce time.Duration

	seq      map[string]int
	version  map[string]int
	pending  map[string]pendingEdit
	creating map[string]bool
}

// NewCoordinator creates a coordinator over the given store and API client.
func NewCoordinator(s *store.Store, a API, debounce time.Duration, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:    s,
		api:      a,
		logger:   logger,
		debounce: debounce,
		seq:      make(map[string]int),
		version:  make(map[string]int),
		pending:  make(map[string]pendingEdit),
		creating: make(map[string]bool),
	}
}

// NewProvisional spawns a blank provisional task at the top of the store and
// returns it. Nothing is persisted until the name is non-empty and a
// meaningful edit or commit arrives.
func (c *Coordinator) NewProvisional(creator domain.User, status domain.Status, project *string) domain.Task {
	t := domain.Task{
		ID:        domain.ProvisionalID(uuid.New().String()),
		Creator:   creator,
		Status:    status,
		Priority:  domain.PriorityMedium,
		Project:   project,
		CreatedAt: time.Now(),
	}
	c.store.Insert(t)
	return t
}

// SetName patches the store on every keystroke so the visible text never
// lags input. Continuing to type is not a meaningful edit: an unconfirmed
// task is not created from here. Confirmed tasks get a debounced update.
func (c *Coordinator) SetName(id domain.TaskID, name string) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prev := t.Name
	c.store.Patch(id, store.TaskPatch{Name: &name})
	if !t.ID.Confirmed() {
		return nil
	}
	return c.debounced(t.ID, fieldName,
		map[string]any{"name": name},
		store.TaskPatch{Name: &prev})
}

// CommitName is the Enter/Tab commit of a row edit. For a provisional task
// it triggers creation; for a confirmed one it flushes any pending rename
// immediately instead of waiting out the debounce window.
func (c *Coordinator) CommitName(id domain.TaskID) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}
	return c.flush(t.ID, fieldName)
}

// SetPriority applies immediately.
func (c *Coordinator) SetPriority(id domain.TaskID, p domain.Priority) tea.Cmd {
	if !p.Valid() {
		return nil
	}
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prev := t.Priority
	c.store.Patch(id, store.TaskPatch{Priority: &p})
	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}
	return c.immediate(t.ID, fieldPriority,
		map[string]any{"priority": string(p)},
		store.TaskPatch{Priority: &prev})
}

// SetStatus applies immediately. Moving to the canonical done status also
// derives the completion flag in the same atomic patch.
func (c *Coordinator) SetStatus(id domain.TaskID, s domain.Status) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prevStatus, prevDone := t.Status, t.Completed
	done := s.Done()
	c.store.Patch(id, store.TaskPatch{Status: &s, Completed: &done})
	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}
	return c.immediate(t.ID, fieldStatus,
		map[string]any{"status": s.Name},
		store.TaskPatch{Status: &prevStatus, Completed: &prevDone})
}

// SetDueDate is debounced: date pickers fire rapidly while the user flips
// months. Setting a date on a recurring task clears its needs-repeat flag in
// the same patch. A nil date clears the due date.
func (c *Coordinator) SetDueDate(id domain.TaskID, due *time.Time) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}

	patch := store.TaskPatch{}
	revert := store.TaskPatch{}
	if due != nil {
		patch.DueDate = due
	} else {
		patch.ClearDueDate = true
	}
	if t.DueDate != nil {
		revert.DueDate = t.DueDate
	} else {
		revert.ClearDueDate = true
	}
	if t.Recurring && due != nil && t.NeedsRepeat {
		cleared := false
		patch.NeedsRepeat = &cleared
		prev := t.NeedsRepeat
		revert.NeedsRepeat = &prev
	}
	c.store.Patch(id, patch)

	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}

	var wire any
	if due != nil {
		wire = due.Format("2006-01-02")
	}
	return c.debounced(t.ID, fieldDueDate, map[string]any{"due_date": wire}, revert)
}

// SetAssignees replaces the assignee set. The store dual-writes the legacy
// single assignee; the wire payload carries both for older backends.
func (c *Coordinator) SetAssignees(id domain.TaskID, assignees []domain.User) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prev := t.Assignees
	prevLegacy := t.Assignee
	c.store.Patch(id, store.TaskPatch{Assignees: &assignees})
	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}

	ids := make([]string, len(assignees))
	for i, u := range assignees {
		ids[i] = u.ID
	}
	var legacy any
	if len(ids) > 0 {
		legacy = ids[0]
	}
	return c.immediate(t.ID, fieldAssignees,
		map[string]any{"assignees": ids, "assignee": legacy},
		store.TaskPatch{Assignees: &prev, Assignee: &prevLegacy})
}

// MoveTo changes the project/section references in one update.
func (c *Coordinator) MoveTo(id domain.TaskID, project, section *string) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prevProject, prevSection := t.Project, t.Section
	c.store.Patch(id, store.TaskPatch{Project: &project, Section: &section})
	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}

	fields := map[string]any{"project": deref(project), "section": deref(section)}
	return c.immediate(t.ID, fieldProject, fields,
		store.TaskPatch{Project: &prevProject, Section: &prevSection})
}

// ToggleLike adds or removes the user from the liked-by set.
func (c *Coordinator) ToggleLike(id domain.TaskID, user domain.User) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prev := t.LikedBy

	var next []domain.User
	liked := true
	for _, u := range t.LikedBy {
		if u.ID == user.ID {
			liked = false
			continue
		}
		next = append(next, u)
	}
	if liked {
		next = append(next, user)
	}
	c.store.Patch(id, store.TaskPatch{LikedBy: &next})
	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}
	return c.immediate(t.ID, fieldLike,
		map[string]any{"liked": liked},
		store.TaskPatch{LikedBy: &prev})
}

// SetParent converts a task into a subtask of the given parent, or detaches
// it when parent is nil. The cached ancestor chain used for breadcrumbs is
// rebuilt in the same patch.
func (c *Coordinator) SetParent(id domain.TaskID, parent *domain.TaskID) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prevParent, prevAncestors := t.Parent, t.Ancestors

	var ancestors []domain.Crumb
	if parent != nil {
		if p, ok := c.store.Get(*parent); ok {
			ancestors = append(ancestors, p.Ancestors...)
			ancestors = append(ancestors, domain.Crumb{ID: p.ID.Key(), Name: p.Name})
		}
	}
	c.store.Patch(id, store.TaskPatch{Parent: &parent, Ancestors: &ancestors})
	if !t.ID.Confirmed() {
		return c.maybeCreate(t.ID)
	}

	var wire any
	if parent != nil && parent.Confirmed() {
		wire = parent.Server
	}
	return c.immediate(t.ID, fieldParent,
		map[string]any{"parent": wire},
		store.TaskPatch{Parent: &prevParent, Ancestors: &prevAncestors})
}

// SetDescription is debounced like renames.
func (c *Coordinator) SetDescription(id domain.TaskID, desc string) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	prev := t.Description
	c.store.Patch(id, store.TaskPatch{Description: &desc})
	if !t.ID.Confirmed() {
		return nil
	}
	return c.debounced(t.ID, fieldDescription,
		map[string]any{"description": desc},
		store.TaskPatch{Description: &prev})
}

// Delete removes the task locally no matter what the remote call does. A
// provisional task needs no network at all.
func (c *Coordinator) Delete(id domain.TaskID) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	c.store.Remove(t.ID)
	c.CancelPending(t.ID)
	if !t.ID.Confirmed() {
		delete(c.creating, t.ID.Local)
		return nil
	}

	serverID := t.ID.Server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := c.api.DeleteTask(ctx, serverID)
		return DeleteResultMsg{ID: t.ID, Err: err}
	}
}

// CreateInFlight reports whether a creation call is pending for the task.
func (c *Coordinator) CreateInFlight(id domain.TaskID) bool {
	return c.creating[id.Local]
}

// maybeCreate triggers task creation for a provisional task after a
// meaningful edit. The guard map allows at most one creation call in flight
// per placeholder; an empty name never hits the network.
func (c *Coordinator) maybeCreate(id domain.TaskID) tea.Cmd {
	t, ok := c.store.Get(id)
	if !ok || t.ID.Confirmed() {
		return nil
	}
	if t.Name == "" {
		return nil
	}
	if c.creating[t.ID.Local] {
		return nil
	}
	c.creating[t.ID.Local] = true

	in := api.CreateTaskInput{
		Name:     t.Name,
		Project:  t.Project,
		Section:  t.Section,
		Status:   t.Status.Name,
		Priority: string(t.Priority),
		DueDate:  t.DueDate,
	}
	for _, u := range t.Assignees {
		in.Assignees = append(in.Assignees, u.ID)
	}
	if t.Parent != nil && t.Parent.Confirmed() {
		in.Parent = t.Parent.Server
	}

	localKey := t.ID.Local
	c.logger.Debug("creating task", "local", localKey, "name", in.Name)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		created, err := c.api.CreateTask(ctx, in)
		return CreateResultMsg{LocalKey: localKey, Task: created, Err: err}
	}
}

// immediate bumps the field version and returns the update command.
func (c *Coordinator) immediate(id domain.TaskID, field string, fields map[string]any, revert store.TaskPatch) tea.Cmd {
	key := mutKey(id, field)
	c.version[key]++
	return c.updateCmd(id, field, c.version[key], fields, revert)
}

// debounced restarts the trailing-edge timer for the (task, field) pair.
// Only the latest value is ever sent; the store is already patched.
func (c *Coordinator) debounced(id domain.TaskID, field string, fields map[string]any, revert store.TaskPatch) tea.Cmd {
	key := mutKey(id, field)
	c.version[key]++
	c.seq[key]++
	seq := c.seq[key]

	if prev, ok := c.pending[key]; ok {
		// Keep the revert snapshot from the start of the chain.
		revert = prev.revert
	}
	c.pending[key] = pendingEdit{fields: fields, revert: revert, version: c.version[key]}

	return tea.Tick(c.debounce, func(time.Time) tea.Msg {
		return DebounceMsg{ID: id, Field: field, Seq: seq}
	})
}

// flush fires a pending debounced edit immediately and invalidates its
// timer.
func (c *Coordinator) flush(id domain.TaskID, field string) tea.Cmd {
	key := mutKey(id, field)
	edit, ok := c.pending[key]
	if !ok {
		return nil
	}
	delete(c.pending, key)
	c.seq[key]++ // any live timer is now stale
	return c.updateCmd(id, field, edit.version, edit.fields, edit.revert)
}

// CancelPending drops every pending debounced edit for a task. Called when
// the owning view unmounts or the task identity changes.
func (c *Coordinator) CancelPending(id domain.TaskID) {
	for _, field := range []string{fieldName, fieldDueDate, fieldDescription} {
		key := mutKey(id, field)
		if _, ok := c.pending[key]; ok {
			delete(c.pending, key)
			c.seq[key]++
		}
	}
}

func (c *Coordinator) updateCmd(id domain.TaskID, field string, version int, fields map[string]any, revert store.TaskPatch) tea.Cmd {
	serverID := id.Server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		task, err := c.api.UpdateTask(ctx, serverID, fields)
		return UpdateResultMsg{ID: id, Field: field, Version: version, Revert: revert, Task: task, Err: err}
	}
}

func mutKey(id domain.TaskID, field string) string {
	return id.Key() + "|" + field
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
