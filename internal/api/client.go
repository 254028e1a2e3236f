// Package api is the REST client for the task backend. It is a consumer of
// the remote interface only; every call takes a context and is cancellable.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskwire/taskwire/internal/domain"
)

// Client talks to the task backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a new API client with dependency injection.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		logger:  logger,
	}
}

// Query carries the task list parameters.
type Query struct {
	Page         int
	PageSize     int
	Search       string
	Tab          domain.Tab
	Projects     []string
	Statuses     []string
	Priorities   []string
	Assignees    []string
	Collaborator string
	DueFrom      *time.Time
	DueTo        *time.Time
}

// TaskPage is one page of a task list response.
type TaskPage struct {
	Items []domain.Task `json:"items"`
	Total int           `json:"total"`
}

// ListTasks fetches one page of tasks matching the query.
func (c *Client) ListTasks(ctx context.Context, q Query) (TaskPage, error) {
	c.logger.Debug("listing tasks", "page", q.Page, "search", q.Search)

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Tab != "" && q.Tab != domain.TabAll {
		params.Set("tab", string(q.Tab))
	}
	for _, p := range q.Projects {
		params.Add("project", p)
	}
	for _, s := range q.Statuses {
		params.Add("status", s)
	}
	for _, p := range q.Priorities {
		params.Add("priority", p)
	}
	for _, a := range q.Assignees {
		params.Add("assignee", a)
	}
	if q.Collaborator != "" {
		params.Set("collaborator", q.Collaborator)
	}
	if q.DueFrom != nil {
		params.Set("due_from", q.DueFrom.Format("2006-01-02"))
	}
	if q.DueTo != nil {
		params.Set("due_to", q.DueTo.Format("2006-01-02"))
	}

	var page taskPageDTO
	if err := c.do(ctx, http.MethodGet, "/tasks?"+params.Encode(), nil, &page); err != nil {
		return TaskPage{}, &domain.APIError{Op: "list", Err: err}
	}

	c.logger.Debug("fetched tasks", "count", len(page.Items), "total", page.Total)
	return TaskPage{Items: toDomainTasks(page.Items), Total: page.Total}, nil
}

// CreateTaskInput carries the accumulated fields of a provisional task.
type CreateTaskInput struct {
	Name          string        `json:"name"`
	Assignees     []string      `json:"assignees,omitempty"`
	Project       *string       `json:"project,omitempty"`
	Section       *string       `json:"section,omitempty"`
	Status        string        `json:"status,omitempty"`
	Priority      string        `json:"priority,omitempty"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	Collaborators []string      `json:"collaborators,omitempty"`
	Parent        string        `json:"parent,omitempty"`
}

// CreateTask exchanges a provisional task for a server-identified one.
func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	c.logger.Debug("creating task", "name", in.Name)

	var created taskDTO
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &created); err != nil {
		return domain.Task{}, &domain.APIError{Op: "create", Err: err}
	}

	c.logger.Debug("task created", "id", created.ID, "code", created.Code)
	return created.toDomain(), nil
}

// UpdateTask sends a partial update carrying just the changed fields and
// returns the authoritative task snapshot the server echoes back.
func (c *Client) UpdateTask(ctx context.Context, serverID string, fields map[string]any) (domain.Task, error) {
	c.logger.Debug("updating task", "id", serverID, "fields", len(fields))

	var updated taskDTO
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+serverID, fields, &updated); err != nil {
		return domain.Task{}, &domain.APIError{Op: "update", TaskID: serverID, Err: err}
	}
	return updated.toDomain(), nil
}

// DeleteTask removes a task. A task the server no longer knows about counts
// as successfully deleted.
func (c *Client) DeleteTask(ctx context.Context, serverID string) error {
	c.logger.Debug("deleting task", "id", serverID)

	err := c.do(ctx, http.MethodDelete, "/tasks/"+serverID, nil, nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.logger.Debug("task already gone", "id", serverID)
			return nil
		}
		return &domain.APIError{Op: "delete", TaskID: serverID, Err: err}
	}
	return nil
}

// statusError preserves the HTTP status for call sites that branch on it.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return fmt.Sprintf("status %d: %s", e.code, e.body)
	}
	return fmt.Sprintf("status %d", e.code)
}

// do executes one request. A non-2xx response becomes a statusError; 404 and
// 400/422 additionally wrap the matching sentinel so callers can errors.Is on
// them. Transport failures wrap domain.ErrOffline unless the context ended
// the call.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		se := &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(data))}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", domain.ErrNotFound, se)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %w", domain.ErrValidation, se)
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
