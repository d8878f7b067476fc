package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Today(t *testing.T) {
	due := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tasks/today", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tasks": []map[string]any{{"id": "t1", "task_type": "call", "status": "pending", "due_at": due}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", "tok")
	require.NoError(t, err)

	tasks, err := c.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.True(t, tasks[0].DueAt.Equal(due))
}

func TestClient_Complete(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		if r.URL.Path == "/v1/tasks/missing/complete" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"task not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"task_id":"t1"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "tok")
	require.NoError(t, err)

	require.NoError(t, c.Complete(context.Background(), "t1"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/tasks/t1/complete", gotPath)

	err = c.Complete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "task not found")
}

func TestClient_ErrorWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.Today(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not a url", "tok")
	assert.Error(t, err)
}
