package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/taskwire/taskwire/internal/domain"
)

// ListComments fetches the full comment list for a task. Callers refetch
// rather than merging single items so server-side enrichment (mention
// resolution, sanitization) stays authoritative.
func (c *Client) ListComments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	c.logger.Debug("listing comments", "task", taskID)

	var comments []domain.Comment
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID+"/comments", nil, &comments); err != nil {
		return nil, &domain.APIError{Op: "list comments", TaskID: taskID, Err: err}
	}
	return comments, nil
}

// CreateCommentInput carries a new comment.
type CreateCommentInput struct {
	Body     string `json:"body"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateComment posts a comment to a task.
func (c *Client) CreateComment(ctx context.Context, taskID string, in CreateCommentInput) (domain.Comment, error) {
	c.logger.Debug("creating comment", "task", taskID)

	var created domain.Comment
	if err := c.do(ctx, http.MethodPost, "/tasks/"+taskID+"/comments", in, &created); err != nil {
		return domain.Comment{}, &domain.APIError{Op: "create comment", TaskID: taskID, Err: err}
	}
	return created, nil
}

// UpdateComment edits a comment's body.
func (c *Client) UpdateComment(ctx context.Context, taskID, commentID, body string) (domain.Comment, error) {
	c.logger.Debug("updating comment", "task", taskID, "comment", commentID)

	in := map[string]string{"body": body}
	var updated domain.Comment
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+taskID+"/comments/"+commentID, in, &updated); err != nil {
		return domain.Comment{}, &domain.APIError{Op: "update comment", TaskID: taskID, Err: err}
	}
	return updated, nil
}

// DeleteComment removes a comment. An already-deleted comment is success.
func (c *Client) DeleteComment(ctx context.Context, taskID, commentID string) error {
	c.logger.Debug("deleting comment", "task", taskID, "comment", commentID)

	err := c.do(ctx, http.MethodDelete, "/tasks/"+taskID+"/comments/"+commentID, nil, nil)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return &domain.APIError{Op: "delete comment", TaskID: taskID, Err: err}
	}
	return nil
}

// ListActivities fetches a task's immutable activity journal.
func (c *Client) ListActivities(ctx context.Context, taskID string) ([]domain.Activity, error) {
	c.logger.Debug("listing activities", "task", taskID)

	var entries []domain.Activity
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID+"/activities", nil, &entries); err != nil {
		return nil, &domain.APIError{Op: "list activities", TaskID: taskID, Err: err}
	}
	return entries, nil
}

// ListTimeEntries fetches the per-person time-tracking breakdown.
func (c *Client) ListTimeEntries(ctx context.Context, taskID string) ([]domain.TimeEntry, error) {
	c.logger.Debug("listing time entries", "task", taskID)

	var entries []domain.TimeEntry
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID+"/time", nil, &entries); err != nil {
		return nil, &domain.APIError{Op: "list time", TaskID: taskID, Err: err}
	}
	return entries, nil
}
