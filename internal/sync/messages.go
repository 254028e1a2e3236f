package sync

import (
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/store"
)

// DebounceMsg fires when a trailing-edge debounce timer elapses. A stale
// sequence number means the timer was restarted and the message is ignored.
type DebounceMsg struct {
	ID    domain.TaskID
	Field string
	Seq   int
}

// UpdateResultMsg is the outcome of one field update call.
type UpdateResultMsg struct {
	ID      domain.TaskID
	Field   string
	Version int
	Revert  store.TaskPatch
	Task    domain.Task
	Err     error
}

// CreateResultMsg is the outcome of exchanging a provisional task for a
// server-identified one.
type CreateResultMsg struct {
	LocalKey string
	Task     domain.Task
	Err      error
}

// DeleteResultMsg is the outcome of a remote delete.
type DeleteResultMsg struct {
	ID  domain.TaskID
	Err error
}
