package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/taskwire/taskwire/internal/api"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/live"
)

// DetailTab identifies one tab of the detail panel. Tab selection is plain
// shared state so a notification can deep-link straight to a tab.
type DetailTab int

const (
	TabComments DetailTab = iota
	TabActivities
	TabAttachments
	TabTimeLogs
)

func (t DetailTab) String() string {
	switch t {
	case TabComments:
		return "Comments"
	case TabActivities:
		return "All Activities"
	case TabAttachments:
		return "All Attachments"
	case TabTimeLogs:
		return "Time Logs"
	default:
		return "?"
	}
}

// attachmentScope is the all/media/documents filter of the attachments tab.
type attachmentScope int

const (
	scopeAll attachmentScope = iota
	scopeMedia
	scopeDocuments
)

// TaskService is the remote surface the panel reads and writes.
type TaskService interface {
	ListComments(ctx context.Context, taskID string) ([]domain.Comment, error)
	CreateComment(ctx context.Context, taskID string, in api.CreateCommentInput) (domain.Comment, error)
	UpdateComment(ctx context.Context, taskID, commentID, body string) (domain.Comment, error)
	DeleteComment(ctx context.Context, taskID, commentID string) error
	ListActivities(ctx context.Context, taskID string) ([]domain.Activity, error)
	ListTimeEntries(ctx context.Context, taskID string) ([]domain.TimeEntry, error)
	ListAttachments(ctx context.Context, taskID string, folder domain.Folder) ([]domain.Attachment, error)
	DeleteAttachment(ctx context.Context, taskID, attachmentID string) error
}

// DraftStore is the durable local storage the panel persists drafts and
// pins to.
type DraftStore interface {
	SaveDraft(taskID, userID, body string) error
	LoadDraft(taskID, userID string) (string, error)
	DeleteDraft(taskID, userID string) error
	PinComment(taskID, commentID string) error
	UnpinComment(taskID, commentID string) error
	PinnedComments(taskID string) ([]string, error)
}

// Messages delivered back to the panel. All carry the task key so results
// for a previously opened task are discarded.
type (
	CommentsLoadedMsg struct {
		TaskKey  string
		Comments []domain.Comment
		Pinned   []string
		Err      error
	}
	ActivitiesLoadedMsg struct {
		TaskKey string
		Groups  []domain.ActivityGroup
		Err     error
	}
	AttachmentsLoadedMsg struct {
		TaskKey     string
		Attachments []domain.Attachment
		Err         error
	}
	TimeLogsLoadedMsg struct {
		TaskKey string
		Entries []domain.TimeEntry
		Err     error
	}
	DraftLoadedMsg struct {
		TaskKey string
		Body    string
	}
	CommentSentMsg struct {
		TaskKey string
		LocalID string
		Comment domain.Comment
		Err     error
	}
	// DescriptionSaveMsg asks the owner to persist an edited description
	// through the coordinator; the panel only prunes attachments.
	DescriptionSaveMsg struct {
		TaskKey string
		Body    string
	}
	// SubtaskToggleMsg asks the owner to flip a subtask's completion.
	SubtaskToggleMsg struct {
		TaskKey string
		Subtask domain.TaskID
		Done    bool
	}
	// SubtaskAddMsg asks the owner to create a subtask under the open task.
	SubtaskAddMsg struct {
		TaskKey string
		Name    string
	}
	// TypingMsg asks the owner to emit a typing start/stop on the live
	// channel. The panel never owns the connection directly.
	TypingMsg struct {
		TaskKey string
		Start   bool
	}
	typingIdleMsg struct {
		taskKey string
		seq     int
	}
)

// DetailPanel presents one task's full record in a tabbed layout.
type DetailPanel struct {
	task     domain.Task
	subtasks []domain.Task
	viewer   domain.User
	svc      TaskService
	drafts   DraftStore
	logger   *slog.Logger
	styles   *Styles

	tab         DetailTab
	comments    []domain.Comment
	groups      []domain.ActivityGroup
	attachments []domain.Attachment
	scope       attachmentScope
	entries     []domain.TimeEntry
	pinned      map[string]bool
	typing      *live.TypingSet

	composer    textarea.Model
	composing   bool
	editingDesc bool
	addingSub   bool
	replyTo     string
	editing     string // comment id being edited, "" for a new comment
	cursor      int    // comment cursor when not composing
	subCursor   int
	loadErr     string
	typingSeq   int
	typingLive  bool
	typingTTL   time.Duration

	width  int
	height int
}

const composerPlaceholder = "Write a comment (@ to mention)"

// NewDetailPanel creates the panel for a task. Remote loads start in Init.
func NewDetailPanel(task domain.Task, viewer domain.User, svc TaskService, drafts DraftStore, logger *slog.Logger) *DetailPanel {
	composer := textarea.New()
	composer.Placeholder = composerPlaceholder
	composer.SetHeight(3)
	composer.CharLimit = 4000

	return &DetailPanel{
		task:      task,
		viewer:    viewer,
		svc:       svc,
		drafts:    drafts,
		logger:    logger,
		styles:    New(),
		pinned:    make(map[string]bool),
		typing:    live.NewTypingSet(live.DefaultTypingTTL),
		typingTTL: time.Second,
		composer:  composer,
	}
}

// SetTab deep-links the panel to a specific tab.
func (d *DetailPanel) SetTab(tab DetailTab) {
	d.tab = tab
}

// Tab returns the active tab.
func (d *DetailPanel) Tab() DetailTab {
	return d.tab
}

// SetTask refreshes the panel's task snapshot after a store patch. The
// panel keeps rendering even when the task left the fetched window.
func (d *DetailPanel) SetTask(task domain.Task) {
	d.task = task
}

// SetSubtasks refreshes the subtask projection.
func (d *DetailPanel) SetSubtasks(subtasks []domain.Task) {
	d.subtasks = subtasks
	if d.subCursor >= len(subtasks) {
		d.subCursor = max(0, len(subtasks)-1)
	}
}

// TaskKey returns the identity key of the open task.
func (d *DetailPanel) TaskKey() string {
	return d.task.ID.Key()
}

// Comments exposes the merged comment list.
func (d *DetailPanel) Comments() []domain.Comment {
	return d.comments
}

// Init starts the initial loads: comments and the saved draft.
func (d *DetailPanel) Init() tea.Cmd {
	cmds := []tea.Cmd{d.loadDraft()}
	if cmd := d.loadTab(d.tab); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// loadTab returns the load command for a tab, or nil for a provisional
// task that has nothing on the server yet.
func (d *DetailPanel) loadTab(tab DetailTab) tea.Cmd {
	if !d.task.ID.Confirmed() {
		return nil
	}
	key := d.TaskKey()
	id := d.task.ID.Server
	switch tab {
	case TabComments:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			comments, err := d.svc.ListComments(ctx, id)
			pinned, _ := d.drafts.PinnedComments(id)
			return CommentsLoadedMsg{TaskKey: key, Comments: comments, Pinned: pinned, Err: err}
		}
	case TabActivities:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			entries, err := d.svc.ListActivities(ctx, id)
			return ActivitiesLoadedMsg{TaskKey: key, Groups: domain.GroupActivities(entries), Err: err}
		}
	case TabAttachments:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			attachments, err := d.svc.ListAttachments(ctx, id, "")
			return AttachmentsLoadedMsg{TaskKey: key, Attachments: attachments, Err: err}
		}
	case TabTimeLogs:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			entries, err := d.svc.ListTimeEntries(ctx, id)
			return TimeLogsLoadedMsg{TaskKey: key, Entries: entries, Err: err}
		}
	}
	return nil
}

func (d *DetailPanel) loadDraft() tea.Cmd {
	key := d.TaskKey()
	userID := d.viewer.ID
	return func() tea.Msg {
		body, err := d.drafts.LoadDraft(key, userID)
		if err != nil {
			return DraftLoadedMsg{TaskKey: key}
		}
		return DraftLoadedMsg{TaskKey: key, Body: body}
	}
}

// Update handles messages
func (d *DetailPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommentsLoadedMsg:
		if msg.TaskKey != d.TaskKey() {
			return d, nil
		}
		if msg.Err != nil {
			d.loadErr = "failed to load comments"
			return d, nil
		}
		d.loadErr = ""
		// Keep optimistic pending comments on top of the refetched,
		// authoritative list.
		var pending []domain.Comment
		for _, c := range d.comments {
			if c.Pending {
				pending = append(pending, c)
			}
		}
		d.comments = append(msg.Comments, pending...)
		d.pinned = make(map[string]bool, len(msg.Pinned))
		for _, id := range msg.Pinned {
			d.pinned[id] = true
		}
		return d, nil

	case ActivitiesLoadedMsg:
		if msg.TaskKey != d.TaskKey() {
			return d, nil
		}
		if msg.Err != nil {
			d.loadErr = "failed to load activities"
			return d, nil
		}
		d.loadErr = ""
		d.groups = msg.Groups
		return d, nil

	case AttachmentsLoadedMsg:
		if msg.TaskKey != d.TaskKey() {
			return d, nil
		}
		if msg.Err != nil {
			d.loadErr = "failed to load attachments"
			return d, nil
		}
		d.loadErr = ""
		d.attachments = msg.Attachments
		return d, nil

	case TimeLogsLoadedMsg:
		if msg.TaskKey != d.TaskKey() {
			return d, nil
		}
		if msg.Err != nil {
			d.loadErr = "failed to load time logs"
			return d, nil
		}
		d.loadErr = ""
		d.entries = msg.Entries
		return d, nil

	case DraftLoadedMsg:
		if msg.TaskKey != d.TaskKey() || msg.Body == "" {
			return d, nil
		}
		d.composer.SetValue(msg.Body)
		return d, nil

	case CommentSentMsg:
		if msg.TaskKey != d.TaskKey() {
			return d, nil
		}
		return d, d.handleSent(msg)

	case typingIdleMsg:
		if msg.taskKey != d.TaskKey() || msg.seq != d.typingSeq || !d.typingLive {
			return d, nil
		}
		d.typingLive = false
		key := d.TaskKey()
		return d, func() tea.Msg { return TypingMsg{TaskKey: key, Start: false} }

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	return d, nil
}

func (d *DetailPanel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if d.composing {
		return d.handleComposerKey(msg)
	}

	switch msg.String() {
	case "esc", "q":
		return d, tea.Batch(d.persistDraft(), Close)

	case "tab":
		next := DetailTab((int(d.tab) + 1) % 4)
		d.tab = next
		return d, d.loadTab(next)

	case "shift+tab":
		prev := DetailTab((int(d.tab) + 3) % 4)
		d.tab = prev
		return d, d.loadTab(prev)

	case "1", "2", "3", "4":
		d.tab = DetailTab(int(msg.String()[0] - '1'))
		return d, d.loadTab(d.tab)

	case "c", "i":
		if d.tab == TabComments {
			d.composing = true
			d.editing = ""
			d.replyTo = ""
			return d, d.composer.Focus()
		}

	case "D":
		d.composing = true
		d.editingDesc = true
		persist := d.persistDraft()
		d.composer.SetValue(d.task.Description)
		return d, tea.Batch(persist, d.composer.Focus())

	case "a":
		d.composing = true
		d.addingSub = true
		persist := d.persistDraft()
		d.composer.Reset()
		d.composer.Placeholder = "Subtask name"
		return d, tea.Batch(persist, d.composer.Focus())

	case "J":
		if d.subCursor < len(d.subtasks)-1 {
			d.subCursor++
		}
		return d, nil

	case "K":
		if d.subCursor > 0 {
			d.subCursor--
		}
		return d, nil

	case " ":
		if d.subCursor < len(d.subtasks) {
			st := d.subtasks[d.subCursor]
			key := d.TaskKey()
			done := !st.Completed
			return d, func() tea.Msg {
				return SubtaskToggleMsg{TaskKey: key, Subtask: st.ID, Done: done}
			}
		}
		return d, nil

	case "f":
		if d.tab == TabAttachments {
			d.scope = (d.scope + 1) % 3
			return d, nil
		}

	case "j", "down":
		if d.tab == TabComments && d.cursor < len(d.comments)-1 {
			d.cursor++
		}
		return d, nil

	case "k", "up":
		if d.tab == TabComments && d.cursor > 0 {
			d.cursor--
		}
		return d, nil

	case "r":
		if c, ok := d.cursorComment(); ok && !c.Pending {
			if c.Depth+1 < domain.MaxCommentDepth {
				d.composing = true
				d.editing = ""
				d.replyTo = c.ID
				return d, d.composer.Focus()
			}
		}
		return d, nil

	case "e":
		if c, ok := d.cursorComment(); ok && !c.Pending && c.Author.ID == d.viewer.ID {
			d.composing = true
			d.editing = c.ID
			d.replyTo = ""
			d.composer.SetValue(c.Body)
			return d, d.composer.Focus()
		}
		return d, nil

	case "d":
		if c, ok := d.cursorComment(); ok && !c.Pending && c.Author.ID == d.viewer.ID {
			return d, d.deleteComment(c.ID)
		}
		return d, nil

	case "p":
		if c, ok := d.cursorComment(); ok && !c.Pending {
			return d, d.togglePin(c.ID)
		}
		return d, nil
	}

	return d, nil
}

func (d *DetailPanel) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if d.editingDesc || d.addingSub {
			// Abandon the side editor and bring the comment draft back.
			d.stopComposing()
			return d, d.loadDraft()
		}
		d.composing = false
		d.composer.Blur()
		return d, d.persistDraft()

	case "ctrl+s":
		if d.editingDesc {
			return d, d.saveDescription()
		}
		if d.addingSub {
			return d, d.submitSubtask()
		}
		return d, d.send()

	case "enter":
		if d.addingSub {
			return d, d.submitSubtask()
		}

	case "tab":
		if !d.editingDesc && !d.addingSub && d.completeMention() {
			return d, d.noteKeystroke()
		}
	}

	var cmd tea.Cmd
	d.composer, cmd = d.composer.Update(msg)
	if d.editingDesc || d.addingSub {
		return d, cmd
	}
	return d, tea.Batch(cmd, d.noteKeystroke())
}

// stopComposing resets every composer mode back to the browsing state.
func (d *DetailPanel) stopComposing() {
	d.composing = false
	d.editingDesc = false
	d.addingSub = false
	d.replyTo = ""
	d.editing = ""
	d.composer.Reset()
	d.composer.Blur()
	d.composer.Placeholder = composerPlaceholder
}

// saveDescription commits the edited description: the owner persists it
// through the coordinator while the panel prunes attachments the new text no
// longer references.
func (d *DetailPanel) saveDescription() tea.Cmd {
	body := strings.TrimSpace(d.composer.Value())
	key := d.TaskKey()
	d.stopComposing()
	d.task.Description = body
	save := func() tea.Msg { return DescriptionSaveMsg{TaskKey: key, Body: body} }
	return tea.Batch(save, d.PruneAfterDescriptionSave(body), d.loadDraft())
}

// submitSubtask hands the typed name to the owner, which creates the child
// through the coordinator.
func (d *DetailPanel) submitSubtask() tea.Cmd {
	name := strings.TrimSpace(d.composer.Value())
	key := d.TaskKey()
	d.stopComposing()
	if name == "" {
		return d.loadDraft()
	}
	add := func() tea.Msg { return SubtaskAddMsg{TaskKey: key, Name: name} }
	return tea.Batch(add, d.loadDraft())
}

// mentionQuery extracts the trailing "@prefix" token being typed, if any.
func mentionQuery(text string) (string, bool) {
	i := strings.LastIndex(text, "@")
	if i < 0 {
		return "", false
	}
	if i > 0 {
		prev := text[i-1]
		if prev != ' ' && prev != '\n' && prev != '\t' {
			return "", false
		}
	}
	tail := text[i+1:]
	if strings.ContainsAny(tail, " \n\t") {
		return "", false
	}
	return tail, true
}

// mentionCandidates is everyone visible on the task: assignees, the creator
// and comment authors.
func (d *DetailPanel) mentionCandidates() []domain.User {
	seen := make(map[string]bool)
	var users []domain.User
	add := func(u domain.User) {
		if u.ID != "" && !seen[u.ID] {
			seen[u.ID] = true
			users = append(users, u)
		}
	}
	for _, u := range d.task.Assignees {
		add(u)
	}
	add(d.task.Creator)
	for _, c := range d.comments {
		add(c.Author)
	}
	return users
}

// mentionMatches returns the candidates whose name starts with the @prefix
// currently being typed.
func (d *DetailPanel) mentionMatches() []domain.User {
	prefix, ok := mentionQuery(d.composer.Value())
	if !ok {
		return nil
	}
	var matches []domain.User
	for _, u := range d.mentionCandidates() {
		if strings.HasPrefix(strings.ToLower(u.Name), strings.ToLower(prefix)) {
			matches = append(matches, u)
		}
	}
	return matches
}

// completeMention replaces the trailing @prefix with the first matching
// user. Reports whether a completion happened.
func (d *DetailPanel) completeMention() bool {
	matches := d.mentionMatches()
	if len(matches) == 0 {
		return false
	}
	text := d.composer.Value()
	i := strings.LastIndex(text, "@")
	d.composer.SetValue(text[:i] + "@" + matches[0].Name + " ")
	return true
}

// noteKeystroke emits typing start on the first keystroke and arms the
// ~1s idle timer that auto-emits the stop.
func (d *DetailPanel) noteKeystroke() tea.Cmd {
	d.typingSeq++
	seq := d.typingSeq
	key := d.TaskKey()

	idle := tea.Tick(d.typingTTL, func(time.Time) tea.Msg {
		return typingIdleMsg{taskKey: key, seq: seq}
	})
	if d.typingLive {
		return idle
	}
	d.typingLive = true
	return tea.Batch(idle, func() tea.Msg { return TypingMsg{TaskKey: key, Start: true} })
}

// send optimistically appends the comment, clears the input and draft, and
// issues the create call.
func (d *DetailPanel) send() tea.Cmd {
	body := strings.TrimSpace(d.composer.Value())
	if body == "" {
		return nil
	}
	if !d.task.ID.Confirmed() {
		d.loadErr = "task is still being created"
		return nil
	}

	key := d.TaskKey()
	id := d.task.ID.Server

	if d.editing != "" {
		commentID := d.editing
		d.editing = ""
		d.composing = false
		d.composer.Reset()
		d.composer.Blur()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			updated, err := d.svc.UpdateComment(ctx, id, commentID, body)
			return CommentSentMsg{TaskKey: key, Comment: updated, Err: err}
		}
	}

	localID := "pending-" + uuid.New().String()
	d.comments = append(d.comments, domain.Comment{
		ID:        localID,
		Author:    d.viewer,
		Body:      body,
		ParentID:  d.replyTo,
		CreatedAt: time.Now(),
		Pending:   true,
	})

	in := api.CreateCommentInput{Body: body, ParentID: d.replyTo}
	d.replyTo = ""
	d.composing = false
	d.composer.Reset()
	d.composer.Blur()

	userID := d.viewer.ID
	create := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		created, err := d.svc.CreateComment(ctx, id, in)
		return CommentSentMsg{TaskKey: key, LocalID: localID, Comment: created, Err: err}
	}
	clearDraft := func() tea.Msg {
		if err := d.drafts.DeleteDraft(key, userID); err != nil {
			d.logger.Warn("failed to clear draft", "task", key, "error", err)
		}
		return nil
	}
	return tea.Batch(create, clearDraft)
}

// handleSent resolves a finished comment create or edit. Failures leave
// the optimistic comment in place; success refetches the full list so
// server-side enrichment stays authoritative, then prunes attachments the
// saved content no longer references.
func (d *DetailPanel) handleSent(msg CommentSentMsg) tea.Cmd {
	if msg.Err != nil {
		d.logger.Warn("comment save failed", "task", msg.TaskKey, "error", msg.Err)
		d.loadErr = "comment not saved"
		return nil
	}
	if msg.LocalID != "" {
		kept := d.comments[:0]
		for _, c := range d.comments {
			if c.ID != msg.LocalID {
				kept = append(kept, c)
			}
		}
		d.comments = kept
	}
	// Prune against every comment body, not just the saved one, so
	// attachments referenced by older comments survive.
	var prune tea.Cmd
	if msg.Comment.ID != "" {
		var bodies []string
		for _, c := range d.comments {
			if c.ID != msg.Comment.ID {
				bodies = append(bodies, c.Body)
			}
		}
		bodies = append(bodies, msg.Comment.Body)
		prune = d.pruneCmd(strings.Join(bodies, "\n"), domain.FolderComments)
	}
	return tea.Batch(d.loadTab(TabComments), prune)
}

// PruneAfterDescriptionSave recomputes referenced attachment URLs in the
// description scope and deletes the stale ones.
func (d *DetailPanel) PruneAfterDescriptionSave(description string) tea.Cmd {
	return d.pruneCmd(description, domain.FolderDescription)
}

// pruneCmd deletes attachments in the given scope that the saved content no
// longer references, then refetches the attachment list. Cleanup failures
// are logged and never block the save.
func (d *DetailPanel) pruneCmd(content string, folder domain.Folder) tea.Cmd {
	stale := domain.PruneCandidates(content, d.attachments, folder)
	if len(stale) == 0 || !d.task.ID.Confirmed() {
		return nil
	}
	id := d.task.ID.Server
	key := d.TaskKey()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, a := range stale {
			if err := d.svc.DeleteAttachment(ctx, id, a.ID); err != nil {
				d.logger.Warn("attachment cleanup failed", "task", key, "attachment", a.ID, "error", err)
			}
		}
		attachments, err := d.svc.ListAttachments(ctx, id, "")
		return AttachmentsLoadedMsg{TaskKey: key, Attachments: attachments, Err: err}
	}
}

func (d *DetailPanel) deleteComment(commentID string) tea.Cmd {
	id := d.task.ID.Server
	key := d.TaskKey()

	kept := d.comments[:0]
	for _, c := range d.comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	d.comments = kept
	if d.cursor >= len(d.comments) {
		d.cursor = max(0, len(d.comments)-1)
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := d.svc.DeleteComment(ctx, id, commentID)
		return CommentSentMsg{TaskKey: key, Err: err}
	}
}

func (d *DetailPanel) togglePin(commentID string) tea.Cmd {
	id := d.task.ID.Key()
	pinned := d.pinned[commentID]
	d.pinned[commentID] = !pinned

	return func() tea.Msg {
		var err error
		if pinned {
			err = d.drafts.UnpinComment(id, commentID)
		} else {
			err = d.drafts.PinComment(id, commentID)
		}
		if err != nil {
			d.logger.Warn("pin toggle failed", "task", id, "comment", commentID, "error", err)
		}
		return nil
	}
}

// persistDraft saves the composer text so it survives a panel close.
func (d *DetailPanel) persistDraft() tea.Cmd {
	key := d.TaskKey()
	userID := d.viewer.ID
	body := d.composer.Value()
	return func() tea.Msg {
		if err := d.drafts.SaveDraft(key, userID, body); err != nil {
			d.logger.Warn("failed to save draft", "task", key, "error", err)
		}
		return nil
	}
}

// ApplyEvent merges one live push into the panel. Comment events merge by
// identity; echoes of the viewer's own messages are ignored. The live
// channel never mutates canonical task fields.
func (d *DetailPanel) ApplyEvent(ev live.Event, now time.Time) {
	if ev.TaskID != d.task.ID.Server {
		return
	}

	switch ev.Type {
	case live.EventTypingStart:
		if ev.User.ID != d.viewer.ID {
			d.typing.Start(ev.User, now)
		}

	case live.EventTypingStop:
		d.typing.Stop(ev.User.ID)

	case live.EventCommentNew, live.EventCommentEdited:
		if ev.Comment == nil || ev.User.ID == d.viewer.ID {
			return
		}
		for i, c := range d.comments {
			if c.ID == ev.Comment.ID {
				d.comments[i] = *ev.Comment
				return
			}
		}
		d.comments = append(d.comments, *ev.Comment)

	case live.EventCommentDeleted:
		kept := d.comments[:0]
		for _, c := range d.comments {
			if c.ID != ev.CommentID {
				kept = append(kept, c)
			}
		}
		d.comments = kept
	}
}

// TypingUsers returns the remote users currently typing.
func (d *DetailPanel) TypingUsers(now time.Time) []domain.User {
	return d.typing.Active(now)
}

// ExpireTyping drops stale typing indicators; returns true if any changed.
func (d *DetailPanel) ExpireTyping(now time.Time) bool {
	return d.typing.Expire(now)
}

func (d *DetailPanel) cursorComment() (domain.Comment, bool) {
	if d.tab != TabComments || d.cursor < 0 || d.cursor >= len(d.comments) {
		return domain.Comment{}, false
	}
	return d.comments[d.cursor], true
}

// View renders the panel
func (d *DetailPanel) View() string {
	var b strings.Builder

	b.WriteString(d.renderHeader())
	b.WriteString("\n")
	b.WriteString(d.renderTabBar())
	b.WriteString("\n\n")

	if d.loadErr != "" {
		b.WriteString(d.styles.Error.Render(d.loadErr))
		b.WriteString("\n")
	}

	switch {
	case d.editingDesc:
		b.WriteString(d.styles.MenuHeader.Render("Editing description"))
		b.WriteString("\n")
		b.WriteString(d.composer.View())
		b.WriteString("\n")
	case d.addingSub:
		b.WriteString(d.styles.MenuHeader.Render("New subtask"))
		b.WriteString("\n")
		b.WriteString(d.composer.View())
		b.WriteString("\n")
	default:
		switch d.tab {
		case TabComments:
			b.WriteString(d.renderComments())
		case TabActivities:
			b.WriteString(d.renderActivities())
		case TabAttachments:
			b.WriteString(d.renderAttachments())
		case TabTimeLogs:
			b.WriteString(d.renderTimeLogs())
		}
	}

	b.WriteString("\n")
	b.WriteString(d.renderFooter())
	return b.String()
}

func (d *DetailPanel) renderHeader() string {
	var b strings.Builder

	code := d.task.Code
	if d.task.Provisional() {
		code = "·new"
	}
	name := d.task.Name
	if name == "" {
		name = "(untitled)"
	}
	b.WriteString(d.styles.Title.Render(fmt.Sprintf("%s  %s", code, name)))
	b.WriteString("\n")

	meta := []string{
		d.task.Status.Name,
		capitalize(string(d.task.Priority)),
	}
	if d.task.DueDate != nil {
		meta = append(meta, "due "+d.task.DueDate.Format("Jan 02"))
	}
	if len(d.task.Assignees) > 0 {
		names := make([]string, len(d.task.Assignees))
		for i, u := range d.task.Assignees {
			names[i] = u.Name
		}
		meta = append(meta, strings.Join(names, ", "))
	}
	b.WriteString(d.styles.MenuItem.Render(strings.Join(meta, " • ")))

	if d.task.Description != "" {
		desc := strings.SplitN(d.task.Description, "\n", 2)[0]
		b.WriteString("\n")
		b.WriteString(d.styles.MenuItem.Render(desc))
	}

	if len(d.task.Ancestors) > 0 {
		crumbs := make([]string, len(d.task.Ancestors))
		for i, c := range d.task.Ancestors {
			crumbs[i] = c.Name
		}
		b.WriteString("\n")
		b.WriteString(d.styles.MenuItemDisabled.Render(strings.Join(crumbs, " › ")))
	}

	if len(d.subtasks) > 0 {
		b.WriteString("\n")
		b.WriteString(d.styles.MenuHeader.Render(fmt.Sprintf("Subtasks (%d)", len(d.subtasks))))
		for i, st := range d.subtasks {
			mark := "○"
			if st.Completed {
				mark = "●"
			}
			style := d.styles.MenuItem
			if i == d.subCursor && !d.composing {
				style = d.styles.MenuItemActive
			}
			b.WriteString("\n  " + style.Render(mark+" "+st.Name))
		}
	}

	return b.String()
}

func (d *DetailPanel) renderTabBar() string {
	tabs := []DetailTab{TabComments, TabActivities, TabAttachments, TabTimeLogs}
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		style := d.styles.MenuItem
		if t == d.tab {
			style = d.styles.MenuItemActive
		}
		parts[i] = style.Render(fmt.Sprintf("%d:%s", i+1, t))
	}
	return strings.Join(parts, d.styles.Separator.Render(" │ "))
}

func (d *DetailPanel) renderComments() string {
	var b strings.Builder

	if len(d.comments) == 0 {
		b.WriteString(d.styles.MenuItemDisabled.Render("No comments yet"))
		b.WriteString("\n")
	}

	for i, c := range d.comments {
		style := d.styles.MenuItem
		if i == d.cursor && !d.composing {
			style = d.styles.MenuItemActive
		}

		indent := strings.Repeat("  ", c.Depth)
		head := c.Author.Name
		if d.pinned[c.ID] {
			head = "📌 " + head
		}
		if c.Edited {
			head += " (edited)"
		}
		line := fmt.Sprintf("%s%s  %s", indent, head, c.CreatedAt.Format("Jan 02 15:04"))
		if c.Pending {
			line = d.styles.Pending.Render(indent + c.Author.Name + "  sending…")
		} else {
			line = style.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(d.styles.MenuItem.Render(indent + "  " + c.Body))
		b.WriteString("\n")
	}

	if users := d.typing.Active(time.Now()); len(users) > 0 {
		names := make([]string, len(users))
		for i, u := range users {
			names[i] = u.Name
		}
		verb := "is typing…"
		if len(names) > 1 {
			verb = "are typing…"
		}
		b.WriteString(d.styles.Pending.Render(strings.Join(names, ", ") + " " + verb))
		b.WriteString("\n")
	}

	if d.composing {
		b.WriteString("\n")
		if d.replyTo != "" {
			b.WriteString(d.styles.MenuHeader.Render("Replying"))
			b.WriteString("\n")
		} else if d.editing != "" {
			b.WriteString(d.styles.MenuHeader.Render("Editing"))
			b.WriteString("\n")
		}
		b.WriteString(d.composer.View())
		if matches := d.mentionMatches(); len(matches) > 0 {
			names := make([]string, len(matches))
			for i, u := range matches {
				names[i] = "@" + u.Name
			}
			b.WriteString("\n")
			b.WriteString(d.styles.MenuItemDisabled.Render(strings.Join(names, "  ") + "  (tab completes)"))
		}
	}

	return b.String()
}

func (d *DetailPanel) renderActivities() string {
	var b strings.Builder

	if len(d.groups) == 0 {
		b.WriteString(d.styles.MenuItemDisabled.Render("No activity yet"))
		return b.String()
	}

	for _, g := range d.groups {
		b.WriteString(d.styles.MenuHeader.Render(fmt.Sprintf("%s — %s", g.Actor.Name, g.Day.Format("Jan 02"))))
		b.WriteString("\n")
		for _, a := range g.Entries {
			line := a.Action
			if a.Detail != "" {
				line += ": " + a.Detail
			}
			b.WriteString(d.styles.MenuItem.Render("  " + line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (d *DetailPanel) renderAttachments() string {
	var b strings.Builder

	scopeLabel := [...]string{"all", "media", "documents"}[d.scope]
	b.WriteString(d.styles.MenuHeader.Render("Showing: " + scopeLabel + "  (f to cycle)"))
	b.WriteString("\n")

	shown := 0
	for _, a := range d.attachments {
		switch d.scope {
		case scopeMedia:
			if !a.Type.Media() {
				continue
			}
		case scopeDocuments:
			if a.Type.Media() {
				continue
			}
		}
		shown++
		b.WriteString(d.styles.MenuItem.Render(fmt.Sprintf("%s  [%s/%s]", a.Name, a.Type, a.Folder)))
		b.WriteString("\n")
	}
	if shown == 0 {
		b.WriteString(d.styles.MenuItemDisabled.Render("No attachments"))
		b.WriteString("\n")
	}
	return b.String()
}

func (d *DetailPanel) renderTimeLogs() string {
	var b strings.Builder

	if len(d.entries) == 0 {
		b.WriteString(d.styles.MenuItemDisabled.Render("No time logged"))
		return b.String()
	}

	for _, e := range d.entries {
		b.WriteString(d.styles.MenuItem.Render(fmt.Sprintf(
			"%-20s manual %s  auto %s  total %s",
			e.User.Name, formatDuration(e.Manual), formatDuration(e.Auto), formatDuration(e.Total),
		)))
		b.WriteString("\n")
	}
	t := d.task.TimeTracked
	b.WriteString(d.styles.MenuHeader.Render(fmt.Sprintf(
		"%-20s manual %s  auto %s  total %s",
		"Total", formatDuration(t.Manual), formatDuration(t.Auto), formatDuration(t.Total),
	)))
	return b.String()
}

func (d *DetailPanel) renderFooter() string {
	if d.composing {
		switch {
		case d.editingDesc:
			return d.styles.Footer.Render("Ctrl+S: save description • Esc: cancel")
		case d.addingSub:
			return d.styles.Footer.Render("Enter: add subtask • Esc: cancel")
		default:
			return d.styles.Footer.Render("Ctrl+S: send • Tab: complete mention • Esc: keep as draft")
		}
	}
	switch d.tab {
	case TabComments:
		return d.styles.Footer.Render("c: comment • r: reply • e: edit • d: delete • p: pin • D: description • a: subtask • Esc: close")
	case TabAttachments:
		return d.styles.Footer.Render("f: filter • Tab: next tab • Esc: close")
	default:
		return d.styles.Footer.Render("Tab: next tab • Esc: close")
	}
}

func formatDuration(dur time.Duration) string {
	h := int(dur.Hours())
	m := int(dur.Minutes()) % 60
	return fmt.Sprintf("%dh%02dm", h, m)
}

// Title returns the panel title
func (d *DetailPanel) Title() string {
	return "Task details"
}

// Size returns the panel dimensions
func (d *DetailPanel) Size() (width, height int) {
	return 70, 30
}
