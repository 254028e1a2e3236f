package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/taskwire/taskwire/internal/domain"
)

// ListAttachments fetches a task's attachments, optionally scoped to one
// folder context.
func (c *Client) ListAttachments(ctx context.Context, taskID string, folder domain.Folder) ([]domain.Attachment, error) {
	c.logger.Debug("listing attachments", "task", taskID, "folder", folder)

	path := "/tasks/" + taskID + "/attachments"
	if folder != "" {
		path += "?folder=" + url.QueryEscape(string(folder))
	}

	var attachments []domain.Attachment
	if err := c.do(ctx, http.MethodGet, path, nil, &attachments); err != nil {
		return nil, &domain.APIError{Op: "list attachments", TaskID: taskID, Err: err}
	}
	return attachments, nil
}

// CreateAttachmentInput registers an uploaded file against a task.
type CreateAttachmentInput struct {
	URL    string                `json:"url"`
	Type   domain.AttachmentType `json:"type"`
	Folder domain.Folder         `json:"folder"`
	Name   string                `json:"name"`
}

// CreateAttachment attaches an uploaded file to a task.
func (c *Client) CreateAttachment(ctx context.Context, taskID string, in CreateAttachmentInput) (domain.Attachment, error) {
	c.logger.Debug("creating attachment", "task", taskID, "name", in.Name)

	var created domain.Attachment
	if err := c.do(ctx, http.MethodPost, "/tasks/"+taskID+"/attachments", in, &created); err != nil {
		return domain.Attachment{}, &domain.APIError{Op: "create attachment", TaskID: taskID, Err: err}
	}
	return created, nil
}

// DeleteAttachment removes an attachment. Deleting an attachment the server
// no longer knows about is success.
func (c *Client) DeleteAttachment(ctx context.Context, taskID, attachmentID string) error {
	c.logger.Debug("deleting attachment", "task", taskID, "attachment", attachmentID)

	err := c.do(ctx, http.MethodDelete, "/tasks/"+taskID+"/attachments/"+attachmentID, nil, nil)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return &domain.APIError{Op: "delete attachment", TaskID: taskID, Err: err}
	}
	return nil
}
