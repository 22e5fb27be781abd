package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
	"github.com/BuzzLyutic/task-tracker-api/internal/testutil"
)

func setupE2EServer(t *testing.T) *httptest.Server {
	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	logger := zap.NewNop()
	taskHandler := NewTaskHandler(service.NewTaskService(repo.NewTaskRepo(db)), logger)
	router := NewRouter(taskHandler, RouterConfig{Environment: "test"}, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestE2E_FullWorkflow(t *testing.T) {
	server := setupE2EServer(t)
	base := server.URL + TasksPath

	// 1. Create task
	resp := doJSON(t, http.MethodPost, base+"/", map[string]string{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusTodo, created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// 2. Get it back
	resp = doJSON(t, http.MethodGet, base+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	// 3. Mark done
	time.Sleep(5 * time.Millisecond)
	resp = doJSON(t, http.MethodPut, base+"/"+created.ID, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, model.StatusDone, updated.Status)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	// 4. Listing by status sees it
	resp = doJSON(t, http.MethodGet, base+"/?status=done", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var done []model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&done))
	require.Len(t, done, 1)
	assert.Equal(t, created.ID, done[0].ID)

	// 5. Unknown id
	resp = doJSON(t, http.MethodGet, base+"/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// 6. Rejected input is not persisted
	resp = doJSON(t, http.MethodPost, base+"/", map[string]string{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base+"/", nil)
	var all []model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Len(t, all, 1)
}
