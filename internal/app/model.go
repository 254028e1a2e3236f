// Package app contains the main application model and TEA implementation.
package app

import (
	"log/slog"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/taskwire/taskwire/internal/api"
	"github.com/taskwire/taskwire/internal/config"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/live"
	"github.com/taskwire/taskwire/internal/storage"
	"github.com/taskwire/taskwire/internal/store"
	taskwiresync "github.com/taskwire/taskwire/internal/sync"
	"github.com/taskwire/taskwire/internal/types"
	"github.com/taskwire/taskwire/internal/ui/list"
	"github.com/taskwire/taskwire/internal/ui/overlay"
	"github.com/taskwire/taskwire/internal/ui/statusbar"
	"github.com/taskwire/taskwire/internal/ui/styles"
	"github.com/taskwire/taskwire/internal/ui/toast"
)

// Re-export Mode type and constants for convenience
type Mode = types.Mode

const (
	ModeNormal = types.ModeNormal
	ModeSelect = types.ModeSelect
	ModeSearch = types.ModeSearch
	ModeEdit   = types.ModeEdit
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast
type ToastLevel = types.ToastLevel

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

// Model is the main application state
type Model struct {
	// Core data
	store *store.Store
	coord *taskwiresync.Coordinator

	// Remote surfaces
	client *api.Client
	db     *storage.DB

	// Projection state
	filter *domain.Filter
	sort   domain.Sort
	viewer domain.User

	// UI state
	list     *list.ListView
	overlays *overlay.Stack
	detail   *overlay.DetailPanel
	mode     Mode
	toasts   []Toast

	// Inline editors
	nameInput   textinput.Model
	editingID   domain.TaskID
	searchInput textinput.Model
	searchHits  []live.SearchHit

	// Overlay target: the row a popover was opened for
	targetID      domain.TaskID
	pendingDelete []domain.TaskID

	// Live channels
	taskChan    *live.Channel
	searchChan  *live.SearchChannel
	liveBackoff live.Backoff

	// Imported tasks already recorded for highlighting this session.
	seenImported map[string]bool

	// Fetch state. Results carry the sequence they were issued under;
	// anything older is discarded without touching the store.
	fetchSeq    int
	fetchCancel func()
	loading     bool
	offline     bool

	// Terminal size
	width  int
	height int

	spinner spinner.Model
	styles  *styles.Styles
	config  *config.Config
	logger  *slog.Logger
}

// New creates a new application model with the given config and wired
// backends.
func New(cfg *config.Config, client *api.Client, db *storage.DB, logger *slog.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	st := store.New(cfg.Sync.PageSize)
	coord := taskwiresync.NewCoordinator(st, client, time.Duration(cfg.Sync.DebounceMs)*time.Millisecond, logger)

	nameInput := textinput.New()
	nameInput.Prompt = ""
	nameInput.Placeholder = "task name"
	nameInput.CharLimit = 200

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.Placeholder = "search"
	searchInput.CharLimit = 100

	lv := list.NewListView(nil, 0, 0)
	lv.SetVirtualization(cfg.UI.VirtualThreshold, cfg.UI.Overscan)

	return Model{
		store:        st,
		coord:        coord,
		client:       client,
		db:           db,
		filter:       domain.NewFilter(),
		viewer:       domain.User{ID: cfg.User.ID, Name: cfg.User.Name},
		list:         lv,
		overlays:     overlay.NewStack(),
		mode:         ModeNormal,
		toasts:       []Toast{},
		nameInput:    nameInput,
		searchInput:  searchInput,
		seenImported: make(map[string]bool),
		loading:      true,
		spinner:      s,
		styles:       styles.New(),
		config:       cfg,
		logger:       logger,
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadFilterCmd(),
		m.connectSearchCmd(),
		tickEvery(time.Second),
	)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case filterLoadedMsg:
		m.filter = msg.filter
		return m.startFetch(1)

	case tasksLoadedMsg:
		return m.handleTasksLoaded(msg)

	case highlightsMsg:
		m.list.SetHighlights(msg.keys)
		if len(msg.keys) > 0 {
			return m, highlightRefreshAfter(storage.HighlightTTL + time.Second)
		}
		return m, nil

	case highlightRefreshMsg:
		return m, m.refreshHighlightsCmd(nil)

	case tickMsg:
		m.expireToasts()
		if m.detail != nil && m.detail.ExpireTyping(time.Now()) {
			// Re-render happens on return; nothing else to do.
			m.logger.Debug("typing indicator expired")
		}
		return m, tickEvery(time.Second)

	// Overlay plumbing
	case overlay.CloseOverlayMsg:
		return m.handleOverlayClosed()

	case overlay.SelectionMsg:
		return m.handleSelection(msg)

	case overlay.FilterChangedMsg:
		m.filter = msg.Filter
		next, cmd := m.startFetch(1)
		return next, tea.Batch(cmd, next.(Model).saveFilterCmd())

	// Coordinator results
	case taskwiresync.DebounceMsg:
		return m, m.coord.HandleDebounce(msg)

	case taskwiresync.UpdateResultMsg:
		if err := m.coord.HandleUpdate(msg); err != nil {
			m.addErrorToast("Update failed", err)
		}
		m.refreshProjection()
		m.refreshDetail()
		return m, nil

	case taskwiresync.CreateResultMsg:
		return m.handleCreateResult(msg)

	case taskwiresync.DeleteResultMsg:
		if err := m.coord.HandleDelete(msg); err != nil {
			m.addErrorToast("Delete failed", err)
		}
		m.refreshProjection()
		return m, nil

	// Live channel
	case live.EventMsg:
		if m.detail != nil {
			m.detail.ApplyEvent(msg.Event, time.Now())
		}
		if m.taskChan != nil {
			return m, m.taskChan.Listen()
		}
		return m, nil

	case live.DisconnectMsg:
		m.taskChan = nil
		if m.detail != nil && m.detail.TaskKey() == msg.TaskID {
			delay := m.liveBackoff.Next()
			m.logger.Warn("live channel lost, reconnecting", "task", msg.TaskID, "delay", delay)
			return m, liveRetryAfter(delay, msg.TaskID)
		}
		return m, nil

	case liveConnectedMsg:
		return m.handleLiveConnected(msg)

	case liveRetryMsg:
		if m.detail != nil && m.detail.TaskKey() == msg.taskID {
			return m, m.connectLiveCmd(msg.taskID)
		}
		return m, nil

	// Search channel
	case live.SearchResultsMsg:
		if m.mode == ModeSearch && msg.Query == m.searchInput.Value() {
			m.searchHits = msg.Hits
		}
		if m.searchChan != nil {
			return m, m.searchChan.Listen()
		}
		return m, nil

	case live.SearchDisconnectMsg:
		m.searchChan = nil
		return m, searchRetryAfter(m.liveBackoff.Next())

	case searchConnectedMsg:
		if msg.err != nil {
			m.logger.Warn("search channel unavailable", "error", msg.err)
			return m, nil
		}
		m.searchChan = msg.ch
		return m, m.searchChan.Listen()

	case searchRetryMsg:
		return m, m.connectSearchCmd()

	// Detail panel plumbing
	case overlay.TypingMsg:
		if m.taskChan != nil && m.taskChan.TaskID() == msg.TaskKey {
			if err := m.taskChan.SendTyping(msg.Start); err != nil {
				m.logger.Warn("typing send failed", "error", err)
			}
		}
		return m, nil

	case overlay.DescriptionSaveMsg:
		if task, ok := m.store.GetByKey(msg.TaskKey); ok {
			cmd := m.coord.SetDescription(task.ID, msg.Body)
			m.refreshProjection()
			m.refreshDetail()
			return m, cmd
		}
		return m, nil

	case overlay.SubtaskToggleMsg:
		cmd := m.coord.SetStatus(msg.Subtask, m.statusFor(msg.Done))
		m.refreshProjection()
		m.refreshDetail()
		return m, cmd

	case overlay.SubtaskAddMsg:
		return m.addSubtask(msg)

	case overlay.CommentsLoadedMsg, overlay.ActivitiesLoadedMsg,
		overlay.AttachmentsLoadedMsg, overlay.TimeLogsLoadedMsg,
		overlay.DraftLoadedMsg, overlay.CommentSentMsg:
		if m.detail != nil {
			_, cmd := m.detail.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Detail panel internal messages (idle timers) route to the top overlay.
	if m.detail != nil {
		_, cmd := m.detail.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current state as a string
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.loading && m.store.Len() == 0 {
		return m.renderLoading()
	}

	mainView := m.list.Render()

	sb := statusbar.New(m.mode, m.width, m.styles).
		WithCounts(len(m.store.Selected()), m.store.Total()).
		WithOffline(m.offline)
	view := lipgloss.JoinVertical(lipgloss.Left, mainView, sb.Render())

	if m.mode == ModeSearch {
		searchLine := m.searchInput.View()
		if len(m.searchHits) > 0 {
			hits := make([]string, 0, len(m.searchHits))
			for _, h := range m.searchHits {
				hits = append(hits, h.Code+" "+h.Name)
			}
			if len(hits) > 5 {
				hits = hits[:5]
			}
			searchLine = lipgloss.JoinVertical(lipgloss.Left, append([]string{searchLine}, hits...)...)
		}
		view = lipgloss.JoinVertical(lipgloss.Left, view, searchLine)
	}

	if !m.overlays.IsEmpty() {
		current := m.overlays.Current()
		overlayView := current.View()
		overlayWidth, overlayHeight := current.Size()

		if title := current.Title(); title != "" {
			overlayView = lipgloss.JoinVertical(lipgloss.Left,
				m.styles.OverlayTitle.Render(title), overlayView)
		}
		overlayView = m.styles.Overlay.
			Width(overlayWidth).
			Height(overlayHeight).
			Render(overlayView)

		centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlayView)
		view = lipgloss.JoinVertical(lipgloss.Left, view, centered)
	}

	if len(m.toasts) > 0 {
		toastView := toast.New(m.styles).Render(m.toasts, m.width)
		if toastView != "" {
			view = lipgloss.JoinVertical(lipgloss.Left, view, toastView)
		}
	}

	return view
}

// handleKey processes keyboard input based on current mode
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "ctrl+l":
		return m, tea.ClearScreen
	}

	// An open overlay owns the keyboard.
	if !m.overlays.IsEmpty() {
		return m, m.overlays.Update(msg)
	}

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeSelect:
		return m.handleSelectMode(msg)
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeEdit:
		return m.handleEditMode(msg)
	default:
		return m, nil
	}
}

// handleNormalMode processes keyboard input in normal mode
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "j", "down":
		m.list.SetCursor(m.list.Cursor() + 1)
		return m.maybeFetchMore()

	case "k", "up":
		m.list.SetCursor(m.list.Cursor() - 1)
		return m, nil

	case "g":
		m.list.SetCursor(0)
		return m, nil

	case "G":
		m.list.SetCursor(m.store.Len() - 1)
		return m.maybeFetchMore()

	case "ctrl+d":
		m.list.SetCursor(m.list.Cursor() + m.halfPage())
		return m.maybeFetchMore()

	case "ctrl+u":
		m.list.SetCursor(m.list.Cursor() - m.halfPage())
		return m, nil

	case "enter":
		return m.openDetail(overlay.TabComments)

	case "n":
		return m.newTask()

	case "i", "e":
		if task, ok := m.list.CursorTask(); ok {
			return m.startRename(task)
		}
		return m, nil

	case "s":
		if task, ok := m.list.CursorTask(); ok {
			m.targetID = task.ID
			return m, m.overlays.Push(overlay.NewStatusPicker(m.statusCatalog(), task.Status))
		}
		return m, nil

	case "p":
		if task, ok := m.list.CursorTask(); ok {
			m.targetID = task.ID
			return m, m.overlays.Push(overlay.NewPriorityPicker(task.Priority))
		}
		return m, nil

	case "a":
		if task, ok := m.list.CursorTask(); ok {
			m.targetID = task.ID
			return m, m.overlays.Push(overlay.NewAssigneePicker(m.knownUsers(), task.Assignees))
		}
		return m, nil

	case "t":
		if task, ok := m.list.CursorTask(); ok {
			m.targetID = task.ID
			picker := overlay.NewDueDatePicker(task.DueDate)
			return m, tea.Batch(m.overlays.Push(picker), picker.Init())
		}
		return m, nil

	case "m":
		if task, ok := m.list.CursorTask(); ok {
			m.targetID = task.ID
			return m, m.overlays.Push(overlay.NewProjectPicker(m.knownProjects(), task.Project))
		}
		return m, nil

	case "L":
		if task, ok := m.list.CursorTask(); ok {
			cmd := m.coord.ToggleLike(task.ID, m.viewer)
			m.refreshProjection()
			return m, cmd
		}
		return m, nil

	case ">":
		return m.demoteUnderPrevious()

	case "<":
		if task, ok := m.list.CursorTask(); ok && task.Parent != nil {
			cmd := m.coord.SetParent(task.ID, nil)
			m.refreshProjection()
			return m, cmd
		}
		return m, nil

	case "d":
		if task, ok := m.list.CursorTask(); ok {
			m.pendingDelete = []domain.TaskID{task.ID}
			name := task.Name
			if name == "" {
				name = "(untitled)"
			}
			return m, m.overlays.Push(overlay.NewConfirmDialog("Delete task", "Delete "+name+"?"))
		}
		return m, nil

	case "f":
		return m, m.overlays.Push(overlay.NewFilterMenu(m.filter, m.statusCatalog()))

	case ",":
		return m, m.overlays.Push(overlay.NewSortMenu(m.sort))

	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue(m.filter.Search)
		m.searchHits = nil
		return m, m.searchInput.Focus()

	case "v":
		m.mode = ModeSelect
		return m, nil

	case "r":
		return m.startFetch(1)

	case "1", "2", "3", "4":
		tab := overlay.DetailTab(int(msg.String()[0] - '1'))
		return m.openDetail(tab)
	}

	return m, nil
}

// handleSelectMode processes keyboard input in select mode
func (m Model) handleSelectMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.store.ClearSelection()
		m.list.SetSelected(m.store.Selected())
		return m, nil

	case "j", "down":
		m.list.SetCursor(m.list.Cursor() + 1)
		return m.maybeFetchMore()

	case "k", "up":
		m.list.SetCursor(m.list.Cursor() - 1)
		return m, nil

	case " ":
		if task, ok := m.list.CursorTask(); ok {
			m.store.ToggleSelect(task.ID.Key())
			m.list.SetSelected(m.store.Selected())
		}
		return m, nil

	case "V", "A":
		keys := make([]string, 0, m.store.Len())
		for _, t := range m.visibleTasks() {
			keys = append(keys, t.ID.Key())
		}
		m.store.SelectAll(keys)
		m.list.SetSelected(m.store.Selected())
		return m, nil

	case "x":
		m.store.ClearSelection()
		m.list.SetSelected(m.store.Selected())
		return m, nil

	case "d":
		selected := m.store.Selected()
		if len(selected) == 0 {
			return m, nil
		}
		m.pendingDelete = m.pendingDelete[:0]
		for key := range selected {
			if t, ok := m.store.GetByKey(key); ok {
				m.pendingDelete = append(m.pendingDelete, t.ID)
			}
		}
		return m, m.overlays.Push(overlay.NewConfirmDialog("Delete tasks",
			"Delete "+itoa(len(m.pendingDelete))+" selected tasks?"))
	}

	return m, nil
}

// handleSearchMode processes keyboard input in search mode
func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.searchHits = nil
		return m, nil

	case "enter":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.filter.Search = m.searchInput.Value()
		m.searchHits = nil
		next, cmd := m.startFetch(1)
		return next, tea.Batch(cmd, next.(Model).saveFilterCmd())
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchChan != nil {
		if err := m.searchChan.Query(m.searchInput.Value()); err != nil {
			m.logger.Warn("search query failed", "error", err)
		}
	}
	return m, cmd
}

// handleEditMode processes keyboard input while renaming a task inline
func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "tab":
		id := m.editingID
		m.mode = ModeNormal
		m.nameInput.Blur()
		m.list.SetEditing("", "")
		m.editingID = domain.TaskID{}
		cmd := m.coord.CommitName(id)
		m.refreshProjection()

		// Committing a named placeholder spawns the next blank row, so a
		// run of enters captures a run of tasks.
		if task, ok := m.store.Get(id); ok && !task.ID.Confirmed() && task.Name != "" {
			next, spawn := m.newTask()
			return next, tea.Batch(cmd, spawn)
		}
		return m, cmd

	case "esc":
		m.mode = ModeNormal
		m.nameInput.Blur()
		m.list.SetEditing("", "")
		m.editingID = domain.TaskID{}
		m.refreshProjection()
		return m, nil
	}

	var inputCmd tea.Cmd
	m.nameInput, inputCmd = m.nameInput.Update(msg)
	nameCmd := m.coord.SetName(m.editingID, m.nameInput.Value())
	m.refreshProjection()
	m.list.SetEditing(m.editingID.Key(), m.nameInput.View())
	return m, tea.Batch(inputCmd, nameCmd)
}

// handleSelection handles overlay selection messages
func (m Model) handleSelection(msg overlay.SelectionMsg) (tea.Model, tea.Cmd) {
	m.overlays.Pop()

	switch msg.Key {
	case "sort":
		field := msg.Value.(domain.SortField)
		m.sort.Toggle(field)
		m.list.SetSort(m.sort)
		m.refreshProjection()
		return m, nil

	case "yes":
		ids := m.pendingDelete
		m.pendingDelete = nil
		cmds := make([]tea.Cmd, 0, len(ids))
		for _, id := range ids {
			if cmd := m.coord.Delete(id); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		m.store.ClearSelection()
		if m.mode == ModeSelect {
			m.mode = ModeNormal
		}
		m.refreshProjection()
		return m, tea.Batch(cmds...)

	case "no":
		m.pendingDelete = nil
		return m, nil

	case "status":
		status := msg.Value.(domain.Status)
		cmd := m.coord.SetStatus(m.targetID, status)
		m.refreshProjection()
		return m, cmd

	case "priority":
		p := msg.Value.(domain.Priority)
		cmd := m.coord.SetPriority(m.targetID, p)
		m.refreshProjection()
		return m, cmd

	case "assignees":
		var users []domain.User
		if checked, ok := msg.Value.([]any); ok {
			for _, v := range checked {
				users = append(users, v.(domain.User))
			}
		}
		cmd := m.coord.SetAssignees(m.targetID, users)
		m.refreshProjection()
		return m, cmd

	case "due_date":
		result := msg.Value.(overlay.DueDateResult)
		cmd := m.coord.SetDueDate(m.targetID, result.Date)
		m.refreshProjection()
		return m, cmd

	case "project":
		project, _ := msg.Value.(*string)
		cmd := m.coord.MoveTo(m.targetID, project, nil)
		m.refreshProjection()
		return m, cmd
	}

	return m, nil
}

// openDetail opens the detail panel for the cursor task on the given tab.
func (m Model) openDetail(tab overlay.DetailTab) (tea.Model, tea.Cmd) {
	task, ok := m.list.CursorTask()
	if !ok {
		return m, nil
	}

	m.store.Open(task.ID)
	panel := overlay.NewDetailPanel(task, m.viewer, m.client, m.db, m.logger)
	panel.SetTab(tab)
	panel.SetSubtasks(m.store.Subtasks(task.ID))
	m.detail = panel

	cmds := []tea.Cmd{m.overlays.Push(panel), panel.Init()}
	if task.ID.Confirmed() {
		m.liveBackoff.Reset()
		cmds = append(cmds, m.connectLiveCmd(task.ID.Server))
	}
	return m, tea.Batch(cmds...)
}

// handleOverlayClosed pops the top overlay and tears the detail panel down
// when it was the one closing.
func (m Model) handleOverlayClosed() (tea.Model, tea.Cmd) {
	closing := m.overlays.Current()
	m.overlays.Pop()

	if m.detail != nil && closing == overlay.Overlay(m.detail) {
		if task, ok := m.store.GetByKey(m.detail.TaskKey()); ok {
			// Edits still sitting in a debounce window die with the panel.
			m.coord.CancelPending(task.ID)
		}
		m.detail = nil
		m.store.Close()
		if m.taskChan != nil {
			ch := m.taskChan
			m.taskChan = nil
			return m, func() tea.Msg {
				if err := ch.Close(); err != nil {
					m.logger.Debug("live channel close", "error", err)
				}
				return nil
			}
		}
	}
	return m, nil
}

// newTask inserts a provisional task and begins the inline rename.
func (m Model) newTask() (tea.Model, tea.Cmd) {
	status := domain.DefaultStatuses()[0]
	task := m.coord.NewProvisional(m.viewer, status, nil)
	m.refreshProjection()

	// Provisional rows pin to the top of the list.
	m.list.SetCursor(0)
	return m.startRename(task)
}

// startRename begins inline editing of a task's name.
func (m Model) startRename(task domain.Task) (tea.Model, tea.Cmd) {
	m.mode = ModeEdit
	m.editingID = task.ID
	m.nameInput.SetValue(task.Name)
	m.nameInput.CursorEnd()
	m.list.SetEditing(task.ID.Key(), m.nameInput.View())
	return m, m.nameInput.Focus()
}

// demoteUnderPrevious makes the cursor task a subtask of the row above it.
func (m Model) demoteUnderPrevious() (tea.Model, tea.Cmd) {
	cursor := m.list.Cursor()
	if cursor == 0 {
		return m, nil
	}
	task, ok := m.list.CursorTask()
	if !ok {
		return m, nil
	}
	visible := m.visibleTasks()
	if cursor >= len(visible) {
		return m, nil
	}
	parent := visible[cursor-1]
	if parent.ID.Key() == task.ID.Key() {
		return m, nil
	}
	parentID := parent.ID
	cmd := m.coord.SetParent(task.ID, &parentID)
	m.refreshProjection()
	return m, cmd
}

func (m *Model) handleTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.fetchSeq {
		// A newer fetch superseded this one.
		return *m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.offline = true
		m.addErrorToast("Load failed", msg.err)
		return *m, nil
	}
	m.offline = false
	if msg.page <= 1 {
		m.store.Replace(msg.tasks, msg.total)
	} else {
		m.store.Append(msg.tasks)
	}
	m.refreshProjection()
	m.refreshDetail()

	var newlyImported []string
	for _, t := range msg.tasks {
		if t.Imported && t.ID.Confirmed() && !m.seenImported[t.ID.Server] {
			m.seenImported[t.ID.Server] = true
			newlyImported = append(newlyImported, t.ID.Server)
		}
	}
	return *m, m.refreshHighlightsCmd(newlyImported)
}

func (m *Model) handleCreateResult(msg taskwiresync.CreateResultMsg) (tea.Model, tea.Cmd) {
	detailWasLocal := m.detail != nil && m.detail.TaskKey() == msg.LocalKey

	if err := m.coord.HandleCreate(msg); err != nil {
		m.addErrorToast("Create failed", err)
		m.refreshProjection()
		if detailWasLocal {
			// The placeholder is gone; close the panel over it.
			return m.handleOverlayClosed()
		}
		return *m, nil
	}

	m.refreshProjection()
	if detailWasLocal {
		if task, ok := m.store.GetByKey(msg.Task.ID.Server); ok {
			m.detail.SetTask(task)
			m.liveBackoff.Reset()
			return *m, tea.Batch(m.detail.Init(), m.connectLiveCmd(task.ID.Server))
		}
	}
	m.refreshDetail()
	return *m, nil
}

func (m *Model) handleLiveConnected(msg liveConnectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.detail != nil && m.detail.TaskKey() == msg.taskID {
			delay := m.liveBackoff.Next()
			m.logger.Warn("live connect failed", "task", msg.taskID, "delay", delay, "error", msg.err)
			return *m, liveRetryAfter(delay, msg.taskID)
		}
		return *m, nil
	}
	if m.detail == nil || m.detail.TaskKey() != msg.taskID {
		// Panel closed while dialing.
		return *m, func() tea.Msg {
			msg.ch.Close()
			return nil
		}
	}
	m.liveBackoff.Reset()
	m.taskChan = msg.ch
	return *m, m.taskChan.Listen()
}

// quit tears down channels and leaves the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	if m.taskChan != nil {
		m.taskChan.Close()
	}
	if m.searchChan != nil {
		m.searchChan.Close()
	}
	return m, tea.Quit
}

// refreshProjection rebuilds the list rows from the store through the
// filter and sort.
func (m *Model) refreshProjection() {
	m.list.SetTasks(m.visibleTasks())
	m.list.SetSelected(m.store.Selected())
}

// refreshDetail pushes the store's current task snapshot into an open panel.
func (m *Model) refreshDetail() {
	if m.detail == nil {
		return
	}
	if task, ok := m.store.GetByKey(m.detail.TaskKey()); ok {
		m.detail.SetTask(task)
		m.detail.SetSubtasks(m.store.Subtasks(task.ID))
	}
}

// visibleTasks is the filtered, sorted projection of the store.
func (m Model) visibleTasks() []domain.Task {
	tasks := m.filter.Apply(m.store.Tasks(), m.viewer.ID)
	return m.sort.Apply(tasks)
}

// maybeFetchMore fetches the next page when the cursor reaches the end of
// the loaded window.
func (m Model) maybeFetchMore() (tea.Model, tea.Cmd) {
	if m.loading || !m.store.HasMore() {
		return m, nil
	}
	if m.list.Cursor() < m.store.Len()-1 {
		return m, nil
	}
	return m.startFetch(m.store.Page() + 1)
}

// statusCatalog returns the statuses seen in loaded tasks, falling back to
// the defaults.
func (m Model) statusCatalog() []domain.Status {
	seen := make(map[string]bool)
	var catalog []domain.Status
	for _, s := range domain.DefaultStatuses() {
		seen[s.Name] = true
		catalog = append(catalog, s)
	}
	for _, t := range m.store.Tasks() {
		if t.Status.Name != "" && !seen[t.Status.Name] {
			seen[t.Status.Name] = true
			catalog = append(catalog, t.Status)
		}
	}
	return catalog
}

// statusFor picks the status a subtask checkbox toggles to: the first
// catalog entry whose canonical class matches the requested done state.
func (m Model) statusFor(done bool) domain.Status {
	for _, s := range m.statusCatalog() {
		if s.Done() == done {
			return s
		}
	}
	return domain.DefaultStatuses()[0]
}

// addSubtask inserts a provisional child under the panel's task.
func (m *Model) addSubtask(msg overlay.SubtaskAddMsg) (tea.Model, tea.Cmd) {
	parent, ok := m.store.GetByKey(msg.TaskKey)
	if !ok {
		return *m, nil
	}
	sub := m.coord.NewProvisional(m.viewer, domain.DefaultStatuses()[0], parent.Project)
	parentID := parent.ID
	nameCmd := m.coord.SetName(sub.ID, msg.Name)
	parentCmd := m.coord.SetParent(sub.ID, &parentID)
	m.refreshProjection()
	m.refreshDetail()
	return *m, tea.Batch(nameCmd, parentCmd)
}

// knownUsers returns every user referenced by loaded tasks, viewer first.
func (m Model) knownUsers() []domain.User {
	seen := map[string]bool{m.viewer.ID: true}
	users := []domain.User{m.viewer}
	add := func(u domain.User) {
		if u.ID != "" && !seen[u.ID] {
			seen[u.ID] = true
			users = append(users, u)
		}
	}
	for _, t := range m.store.Tasks() {
		add(t.Creator)
		for _, u := range t.Assignees {
			add(u)
		}
		for _, u := range t.LikedBy {
			add(u)
		}
	}
	sort.Slice(users[1:], func(i, j int) bool { return users[i+1].Name < users[j+1].Name })
	return users
}

// knownProjects returns the distinct projects of loaded tasks.
func (m Model) knownProjects() []string {
	seen := make(map[string]bool)
	var projects []string
	for _, t := range m.store.Tasks() {
		if t.Project != nil && *t.Project != "" && !seen[*t.Project] {
			seen[*t.Project] = true
			projects = append(projects, *t.Project)
		}
	}
	sort.Strings(projects)
	return projects
}

// halfPage calculates half-page scroll distance based on terminal height
func (m Model) halfPage() int {
	half := (m.height - 3) / 2
	if half < 1 {
		return 1
	}
	return half
}

// renderLoading renders a centered loading spinner with message
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.spinner.View(),
		"Loading tasks...",
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// addToast adds a toast notification to the list
func (m *Model) addToast(level ToastLevel, message string, ttl time.Duration) {
	m.toasts = append(m.toasts, types.NewToast(level, message, ttl))
}

// addErrorToast classifies an error and shows it.
func (m *Model) addErrorToast(prefix string, err error) {
	m.addToast(ToastError, prefix+": "+errorText(err), 5*time.Second)
}

// expireToasts removes expired toasts from the list
func (m *Model) expireToasts() {
	now := time.Now()
	filtered := make([]Toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if !t.Expired(now) {
			filtered = append(filtered, t)
		}
	}
	m.toasts = filtered
}
