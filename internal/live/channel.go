// Package live maintains the WebSocket channels for collaboration pushes:
// typing indicators, live comment events and search results. The channels
// are read-only with respect to the task store; nothing here mutates
// canonical task fields.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/taskwire/taskwire/internal/domain"
)

// EventType discriminates pushes on a task channel.
type EventType string

const (
	EventTypingStart    EventType = "typing_start"
	EventTypingStop     EventType = "typing_stop"
	EventCommentNew     EventType = "comment_new"
	EventCommentEdited  EventType = "comment_edited"
	EventCommentDeleted EventType = "comment_deleted"
)

// Event is one push from the task channel.
type Event struct {
	Type      EventType       `json:"type"`
	TaskID    string          `json:"task_id"`
	User      domain.User     `json:"user"`
	Comment   *domain.Comment `json:"comment,omitempty"`
	CommentID string          `json:"comment_id,omitempty"`
}

// EventMsg delivers a decoded push to the update loop.
type EventMsg struct {
	Event Event
}

// DisconnectMsg reports a dropped connection. The owner decides whether to
// reconnect.
type DisconnectMsg struct {
	TaskID string
	Err    error
}

// Channel is a per-panel connection scoped to one task. It is exclusively
// owned by the panel that dialed it and torn down when the panel unmounts
// or its task identity changes.
type Channel struct {
	taskID string
	conn   *websocket.Conn
	logger *slog.Logger
}

// Dial opens the task channel. baseURL is the ws:// or wss:// endpoint.
func Dial(ctx context.Context, baseURL, taskID string, logger *slog.Logger) (*Channel, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &domain.LiveError{Op: "dial", TaskID: taskID, Err: err}
	}
	u.Path = "/live/tasks/" + taskID

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, &domain.LiveError{Op: "dial", TaskID: taskID, Err: err}
	}
	logger.Debug("live channel open", "task", taskID)
	return &Channel{taskID: taskID, conn: conn, logger: logger}, nil
}

// TaskID returns the task this channel is scoped to.
func (c *Channel) TaskID() string {
	return c.taskID
}

// Listen blocks on the next push and delivers it as a message. A malformed
// payload is logged and skipped, never crashes the panel. The caller
// re-issues Listen after handling each EventMsg.
func (c *Channel) Listen() tea.Cmd {
	return func() tea.Msg {
		for {
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return DisconnectMsg{TaskID: c.taskID, Err: err}
			}
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" {
				c.logger.Warn("skipping malformed live payload", "task", c.taskID, "error", err)
				continue
			}
			return EventMsg{Event: ev}
		}
	}
}

// SendTyping emits a typing start or stop for the local user.
func (c *Channel) SendTyping(start bool) error {
	typ := EventTypingStop
	if start {
		typ = EventTypingStart
	}
	err := c.conn.WriteJSON(Event{Type: typ, TaskID: c.taskID})
	if err != nil {
		return &domain.LiveError{Op: "send typing", TaskID: c.taskID, Err: err}
	}
	return nil
}

// Close tears the connection down.
func (c *Channel) Close() error {
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

// Backoff produces reconnect delays: 1s, 2s, 4s, ... capped at 30s. Reset
// after a successful dial.
type Backoff struct {
	next time.Duration
}

const backoffCap = 30 * time.Second

// Next returns the delay before the next reconnect attempt.
func (b *Backoff) Next() time.Duration {
	if b.next == 0 {
		b.next = time.Second
	}
	d := b.next
	b.next *= 2
	if b.next > backoffCap {
		b.next = backoffCap
	}
	return d
}

// Reset restores the initial delay.
func (b *Backoff) Reset() {
	b.next = 0
}
