package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/server"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/tests/testutil"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()

	st := testutil.NewTestStore(t)
	srv := server.New(st, listing.NewService(st, 5, 5, nil), nil, server.NewMetrics())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seed(t *testing.T, st store.Store, n int) {
	t.Helper()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{
			Title:       "Task " + string(rune('A'+i)),
			IsCompleted: i%2 == 0,
			CreatedDate: base.Add(time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, st.ImportTasks(context.Background(), tasks))
}

func TestListTasks(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, 12)

	resp := do(t, http.MethodGet, ts.URL+"/tasks?filter=completed&pageNumber=9&pageSize=4", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[listing.Result](t, resp)
	assert.Equal(t, 6, res.TotalItems)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.PageNumber)
	assert.Equal(t, "completed", res.Filter)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, "Task C", res.Tasks[0].Title)
	assert.Equal(t, "Task A", res.Tasks[1].Title)
}

func TestListTasksMalformedParamsUseDefaults(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, 7)

	resp := do(t, http.MethodGet, ts.URL+"/tasks?pageNumber=abc&pageSize=", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[listing.Result](t, resp)
	assert.Equal(t, 1, res.PageNumber)
	assert.Equal(t, 5, res.PageSize)
	assert.Equal(t, "all", res.Filter)
	assert.Len(t, res.Tasks, 5)
}

func TestListTasksEmptyClampsToFirstPage(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, 3)

	resp := do(t, http.MethodGet, ts.URL+"/tasks?searchString=nothing&pageNumber=7", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[listing.Result](t, resp)
	assert.Equal(t, 0, res.TotalItems)
	assert.Equal(t, 0, res.TotalPages)
	assert.Equal(t, 1, res.PageNumber)
	assert.Empty(t, res.Tasks)
}

func TestListTasksHugePageSize(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, 3)

	resp := do(t, http.MethodGet, ts.URL+"/tasks?pageSize=9223372036854775807&pageNumber=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[listing.Result](t, resp)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.PageNumber)
	assert.Len(t, res.Tasks, 3)
}

func TestCreateAndGetTask(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/tasks",
		`{"title":"Buy milk","description":"2 liters","priority":"high"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/tasks/1", resp.Header.Get("Location"))

	created := decode[model.Task](t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, model.PriorityHigh, created.Priority)

	resp = do(t, http.MethodGet, ts.URL+"/tasks/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[model.Task](t, resp)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2 liters", got.DescriptionText())
}

func TestCreateTaskValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/tasks", `{"title":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/tasks", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTaskNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/tasks/5", ""},
		{http.MethodGet, "/tasks/abc", ""},
		{http.MethodPut, "/tasks/5", `{"title":"x"}`},
		{http.MethodPost, "/tasks/5/toggle", ""},
	} {
		resp := do(t, tc.method, ts.URL+tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestUpdateAndToggleTask(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, http.MethodPost, ts.URL+"/tasks", `{"title":"Draft"}`)

	resp := do(t, http.MethodPut, ts.URL+"/tasks/1", `{"title":"Final","description":"  "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[model.Task](t, resp)
	assert.Equal(t, "Final", updated.Title)
	assert.Nil(t, updated.Description)

	resp = do(t, http.MethodPost, ts.URL+"/tasks/1/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[model.Task](t, resp).IsCompleted)
}

func TestDeleteTask(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, http.MethodPost, ts.URL+"/tasks", `{"title":"Temporary"}`)

	resp := do(t, http.MethodDelete,
		ts.URL+"/tasks/1?filter=active&searchString=tmp&pageNumber=3&pageSize=10", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/tasks?filter=active&pageNumber=3&pageSize=10&searchString=tmp",
		resp.Header.Get("Location"))

	// Deleting a missing task still succeeds.
	resp = do(t, http.MethodDelete, ts.URL+"/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/tasks", resp.Header.Get("Location"))

	resp = do(t, http.MethodGet, ts.URL+"/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthzAndRequestID(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(server.RequestIDHeader))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "abc-123", resp2.Header.Get(server.RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, http.MethodGet, ts.URL+"/tasks", "")

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "taskboard_http_requests_total")
	assert.Contains(t, string(body), "taskboard_listing_matched_tasks")
}
