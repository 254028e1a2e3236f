package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/api"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/live"
)

// Message types for async operations

type filterLoadedMsg struct {
	filter *domain.Filter
}

type tasksLoadedMsg struct {
	seq   int
	page  int
	tasks []domain.Task
	total int
	err   error
}

type liveConnectedMsg struct {
	taskID string
	ch     *live.Channel
	err    error
}

type liveRetryMsg struct {
	taskID string
}

type searchConnectedMsg struct {
	ch  *live.SearchChannel
	err error
}

type searchRetryMsg struct{}

type tickMsg time.Time

type highlightsMsg struct {
	keys map[string]bool
}

type highlightRefreshMsg struct{}

// Commands

// loadFilterCmd restores the persisted filter set.
func (m Model) loadFilterCmd() tea.Cmd {
	return func() tea.Msg {
		filter, err := m.db.LoadFilter()
		if err != nil {
			m.logger.Warn("failed to load saved filter", "error", err)
			filter = domain.NewFilter()
		}
		return filterLoadedMsg{filter: filter}
	}
}

// saveFilterCmd persists the active filter set. Failures are logged, never
// surfaced.
func (m Model) saveFilterCmd() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		if err := m.db.SaveFilter(filter); err != nil {
			m.logger.Warn("failed to save filter", "error", err)
		}
		return nil
	}
}

// startFetch begins a page fetch, aborting any fetch still in flight. A
// superseded fetch's results are dropped by sequence, so they can never
// clobber the store or the loading state.
func (m Model) startFetch(page int) (tea.Model, tea.Cmd) {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.fetchCancel = cancel
	m.fetchSeq++
	if page <= 1 {
		m.loading = true
	}
	return m, m.loadTasksCmd(ctx, m.fetchSeq, page)
}

func (m Model) loadTasksCmd(ctx context.Context, seq, page int) tea.Cmd {
	query := m.buildQuery(page)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		result, err := m.client.ListTasks(ctx, query)
		if err != nil {
			return tasksLoadedMsg{seq: seq, page: page, err: err}
		}
		return tasksLoadedMsg{seq: seq, page: page, tasks: result.Items, total: result.Total}
	}
}

// buildQuery translates the filter set into the list query.
func (m Model) buildQuery(page int) api.Query {
	q := api.Query{
		Page:     page,
		PageSize: m.config.Sync.PageSize,
		Search:   m.filter.Search,
		Tab:      m.filter.Tab,
		DueFrom:  m.filter.DueFrom,
		DueTo:    m.filter.DueTo,
	}
	for p := range m.filter.Project {
		q.Projects = append(q.Projects, p)
	}
	for s := range m.filter.Status {
		q.Statuses = append(q.Statuses, s)
	}
	for p := range m.filter.Priority {
		q.Priorities = append(q.Priorities, string(p))
	}
	for a := range m.filter.Assignee {
		q.Assignees = append(q.Assignees, a)
	}
	return q
}

// refreshHighlightsCmd records newly imported tasks and returns the live
// highlight set. Storage failures are logged; highlighting is cosmetic.
func (m Model) refreshHighlightsCmd(newlyImported []string) tea.Cmd {
	db := m.db
	logger := m.logger
	return func() tea.Msg {
		now := time.Now()
		if len(newlyImported) > 0 {
			if err := db.MarkImported(newlyImported, now); err != nil {
				logger.Warn("failed to record imported tasks", "error", err)
			}
		}
		keys, err := db.ImportedHighlights(now)
		if err != nil {
			logger.Warn("failed to load import highlights", "error", err)
			return nil
		}
		return highlightsMsg{keys: keys}
	}
}

func highlightRefreshAfter(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return highlightRefreshMsg{}
	})
}

// connectLiveCmd dials the per-task live channel.
func (m Model) connectLiveCmd(taskID string) tea.Cmd {
	baseURL := m.config.Server.LiveURL
	logger := m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := live.Dial(ctx, baseURL, taskID, logger)
		return liveConnectedMsg{taskID: taskID, ch: ch, err: err}
	}
}

// connectSearchCmd dials the per-user search channel.
func (m Model) connectSearchCmd() tea.Cmd {
	baseURL := m.config.Server.LiveURL
	logger := m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := live.DialSearch(ctx, baseURL, logger)
		return searchConnectedMsg{ch: ch, err: err}
	}
}

func liveRetryAfter(delay time.Duration, taskID string) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return liveRetryMsg{taskID: taskID}
	})
}

func searchRetryAfter(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchRetryMsg{}
	})
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// errorText renders an error for a toast, preferring the compact forms of
// the known error kinds.
func errorText(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	switch {
	case errors.Is(err, domain.ErrOffline):
		return "offline"
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrValidation):
		return "rejected by server"
	}
	return err.Error()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
