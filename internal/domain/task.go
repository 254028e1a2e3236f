package domain

import "time"

// TaskID identifies a task. A task created locally carries only a local
// placeholder key until the first successful create call exchanges it for a
// server-assigned id. Lookups always branch on Confirmed rather than
// sniffing the key format.
type TaskID struct {
	Server string `json:"server,omitempty"`
	Local  string `json:"local,omitempty"`
}

// ProvisionalID returns an identity backed only by a local placeholder key.
func ProvisionalID(localKey string) TaskID {
	return TaskID{Local: localKey}
}

// ConfirmedID returns an identity backed by a server-assigned id.
func ConfirmedID(serverID string) TaskID {
	return TaskID{Server: serverID}
}

// Confirmed reports whether the server has assigned a permanent identity.
func (id TaskID) Confirmed() bool {
	return id.Server != ""
}

// Key returns the canonical lookup key: the server id once confirmed,
// otherwise the local placeholder key.
func (id TaskID) Key() string {
	if id.Server != "" {
		return id.Server
	}
	return id.Local
}

// IsZero reports whether the identity carries neither key.
func (id TaskID) IsZero() bool {
	return id.Server == "" && id.Local == ""
}

// User is a reference to an account on the backend.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Crumb is one link of a subtask's materialized ancestor chain.
type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimeTracked holds a task's aggregate tracked durations.
type TimeTracked struct {
	Manual time.Duration `json:"manual"`
	Auto   time.Duration `json:"auto"`
	Total  time.Duration `json:"total"`
}

// TimeEntry is one person's share of a task's tracked time.
type TimeEntry struct {
	User   User          `json:"user"`
	Manual time.Duration `json:"manual"`
	Auto   time.Duration `json:"auto"`
	Total  time.Duration `json:"total"`
}

// Task is the central entity: one row of the list view and the subject of
// the detail panel.
type Task struct {
	ID             TaskID      `json:"id"`
	Code           string      `json:"code,omitempty"`
	Name           string      `json:"name"`
	Project        *string     `json:"project,omitempty"`
	Section        *string     `json:"section,omitempty"`
	Assignees      []User      `json:"assignees,omitempty"`
	Assignee       *User       `json:"assignee,omitempty"` // deprecated, dual-written with Assignees
	Creator        User        `json:"creator"`
	Priority       Priority    `json:"priority"`
	Status         Status      `json:"status"`
	DueDate        *time.Time  `json:"due_date,omitempty"`
	Description    string      `json:"description,omitempty"`
	CommentCount   int         `json:"comment_count"`
	AttachmentCount int        `json:"attachment_count"`
	SubtaskCount   int         `json:"subtask_count"`
	LikedBy        []User      `json:"liked_by,omitempty"`
	SeenBy         []User      `json:"seen_by,omitempty"`
	Mentions       []string    `json:"mentions,omitempty"`
	TimeTracked    TimeTracked `json:"time_tracked"`
	Parent         *TaskID     `json:"parent,omitempty"`
	Ancestors      []Crumb     `json:"ancestors,omitempty"`
	Completed      bool        `json:"completed"`
	NeedsRepeat    bool        `json:"needs_repeat"`
	Recurring      bool        `json:"recurring"`
	Imported       bool        `json:"imported"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Provisional reports whether the task exists only locally. Provisional
// tasks are ineligible for comments, attachments and time tracking.
func (t Task) Provisional() bool {
	return !t.ID.Confirmed()
}

// LikedByUser reports whether the given user has liked the task.
func (t Task) LikedByUser(userID string) bool {
	for _, u := range t.LikedBy {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// AssignedTo reports whether the given user appears in the assignee set or
// the legacy single-assignee field.
func (t Task) AssignedTo(userID string) bool {
	if t.Assignee != nil && t.Assignee.ID == userID {
		return true
	}
	for _, u := range t.Assignees {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// MentionsUser reports whether the given user is mentioned on the task.
func (t Task) MentionsUser(userID string) bool {
	for _, id := range t.Mentions {
		if id == userID {
			return true
		}
	}
	return false
}
