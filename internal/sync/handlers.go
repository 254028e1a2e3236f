package sync

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/store"
)

// HandleDebounce resolves an elapsed debounce timer. If the sequence is
// stale the timer was restarted by a later edit and nothing happens;
// otherwise the coalesced edit goes out.
func (c *Coordinator) HandleDebounce(msg DebounceMsg) tea.Cmd {
	key := mutKey(msg.ID, msg.Field)
	if msg.Seq != c.seq[key] {
		return nil
	}
	edit, ok := c.pending[key]
	if !ok {
		return nil
	}
	delete(c.pending, key)
	return c.updateCmd(msg.ID, msg.Field, edit.version, edit.fields, edit.revert)
}

// HandleUpdate reconciles one finished field update. A response older than
// the field's current version is dropped outright: rolling back or merging
// it would clobber a newer optimistic value that has its own call in
// flight. On failure the pre-intent value is restored; the returned error
// is for the user-facing toast.
func (c *Coordinator) HandleUpdate(msg UpdateResultMsg) error {
	key := mutKey(msg.ID, msg.Field)
	if msg.Version < c.version[key] {
		c.logger.Debug("dropping stale update result", "task", msg.ID.Key(), "field", msg.Field)
		return nil
	}

	if msg.Err != nil {
		c.logger.Warn("update failed, rolling back", "task", msg.ID.Key(), "field", msg.Field, "error", msg.Err)
		c.store.Patch(msg.ID, msg.Revert)
		return msg.Err
	}

	// Merge only server-derived fields; echoing the whole task back would
	// overwrite optimistic edits to other fields.
	c.store.Patch(msg.ID, serverDerived(msg.Task))
	return nil
}

// HandleCreate resolves a creation call. Success exchanges the placeholder
// identity everywhere and merges the server-assigned fields; failure
// removes the provisional row, since a task the server never accepted
// cannot be retried field-by-field.
func (c *Coordinator) HandleCreate(msg CreateResultMsg) error {
	delete(c.creating, msg.LocalKey)
	local := domain.ProvisionalID(msg.LocalKey)

	if msg.Err != nil {
		c.logger.Warn("create failed, removing provisional task", "local", msg.LocalKey, "error", msg.Err)
		c.store.Remove(local)
		return msg.Err
	}

	c.store.Confirm(msg.LocalKey, msg.Task.ID.Server)
	c.store.Patch(msg.Task.ID, serverDerived(msg.Task))
	c.logger.Debug("task confirmed", "local", msg.LocalKey, "server", msg.Task.ID.Server)
	return nil
}

// HandleDelete resolves a remote delete. The row is already gone locally;
// only a genuine failure surfaces (the client treats 404 as success).
func (c *Coordinator) HandleDelete(msg DeleteResultMsg) error {
	if msg.Err != nil {
		c.logger.Warn("delete failed", "task", msg.ID.Key(), "error", msg.Err)
		return msg.Err
	}
	return nil
}

// serverDerived extracts the fields only the server can assign from an
// authoritative snapshot. User-editable fields are deliberately absent.
func serverDerived(t domain.Task) store.TaskPatch {
	patch := store.TaskPatch{
		Code:            &t.Code,
		Ancestors:       &t.Ancestors,
		CommentCount:    &t.CommentCount,
		AttachmentCount: &t.AttachmentCount,
		SubtaskCount:    &t.SubtaskCount,
		TimeTracked:     &t.TimeTracked,
	}
	if !t.UpdatedAt.IsZero() {
		patch.UpdatedAt = &t.UpdatedAt
	}
	return patch
}
