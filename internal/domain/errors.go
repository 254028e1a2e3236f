package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrOffline    = errors.New("offline")
)

// APIError represents an error from the remote backend.
type APIError struct {
	Op         string // Operation: "list", "create", "update", etc.
	TaskID     string // Optional: specific task id
	StatusCode int    // HTTP status, 0 when the request never completed
	Message    string // Human-readable context
	Err        error  // Underlying error
}

func (e *APIError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("api %s [%s]: %s", e.Op, e.TaskID, e.text())
	}
	return fmt.Sprintf("api %s: %s", e.Op, e.text())
}

func (e *APIError) text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// LiveError represents an error on a live push channel.
type LiveError struct {
	Op     string
	TaskID string
	Err    error
}

func (e *LiveError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("live %s [%s]: %v", e.Op, e.TaskID, e.Err)
	}
	return fmt.Sprintf("live %s: %v", e.Op, e.Err)
}

func (e *LiveError) Unwrap() error {
	return e.Err
}
