package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwire/taskwire/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_ListTasks(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("page_size"))
		assert.Equal(t, "ship", q.Get("search"))
		assert.Equal(t, []string{"todo", "active"}, q["status"])

		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "t-1", "name": "Ship v2", "priority": "high"},
			},
			"total": 41,
		})
	})

	page, err := client.ListTasks(context.Background(), Query{
		Page:     2,
		PageSize: 25,
		Search:   "ship",
		Statuses: []string{"todo", "active"},
	})

	require.NoError(t, err)
	assert.Equal(t, 41, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "t-1", page.Items[0].ID.Server)
	assert.True(t, page.Items[0].ID.Confirmed())
	assert.Equal(t, domain.PriorityHigh, page.Items[0].Priority)
}

func TestClient_CreateTask_EchoesServerIdentity(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var in CreateTaskInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Ship v2", in.Name)
		assert.Equal(t, "high", in.Priority)

		json.NewEncoder(w).Encode(map[string]any{
			"id":   "srv-7",
			"code": "TW-7",
			"name": in.Name,
		})
	})

	created, err := client.CreateTask(context.Background(), CreateTaskInput{
		Name:     "Ship v2",
		Priority: "high",
	})

	require.NoError(t, err)
	assert.Equal(t, "srv-7", created.ID.Server)
	assert.Equal(t, "TW-7", created.Code)
}

func TestClient_UpdateTask_SendsOnlyChangedFields(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/tasks/t-1", r.URL.Path)

		var fields map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Len(t, fields, 1)
		assert.Equal(t, "high", fields["priority"])

		json.NewEncoder(w).Encode(map[string]any{"id": "t-1", "priority": "high"})
	})

	updated, err := client.UpdateTask(context.Background(), "t-1", map[string]any{"priority": "high"})

	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
}

func TestClient_UpdateTask_ErrorCarriesContext(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.UpdateTask(context.Background(), "t-1", map[string]any{"priority": "high"})

	require.Error(t, err)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "update", apiErr.Op)
	assert.Equal(t, "t-1", apiErr.TaskID)
}

func TestClient_DeleteTask_NotFoundIsSuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	err := client.DeleteTask(context.Background(), "t-gone")
	assert.NoError(t, err, "delete of an absent task is idempotent success")
}

func TestClient_DeleteTask_OtherErrorsPropagate(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	err := client.DeleteTask(context.Background(), "t-1")
	require.Error(t, err)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "delete", apiErr.Op)
}

func TestClient_UpdateTask_ValidationSentinel(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"name too long"}`, http.StatusUnprocessableEntity)
	})

	_, err := client.UpdateTask(context.Background(), "t-1", map[string]any{"name": "..."})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "update", apiErr.Op)
}

func TestClient_ListTasks_TransportErrorIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.ListTasks(context.Background(), Query{Page: 1, PageSize: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOffline)
}

func TestClient_ListTasks_Cancelled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListTasks(ctx, Query{Page: 1, PageSize: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Comments(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "c-1", "body": "hello"},
			})
		case r.Method == http.MethodPost:
			var in CreateCommentInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			json.NewEncoder(w).Encode(map[string]any{"id": "c-2", "body": in.Body})
		}
	})

	comments, err := client.ListComments(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Body)

	created, err := client.CreateComment(context.Background(), "t-1", CreateCommentInput{Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "c-2", created.ID)
}

func TestClient_DeleteAttachment_NotFoundIsSuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	err := client.DeleteAttachment(context.Background(), "t-1", "at-1")
	assert.NoError(t, err)
}
