package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/taskflow/internal/storage"
	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/internal/theme"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type testServer struct {
	server *Server
	store  *store.Store
	kv     *storage.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	kv := storage.NewMemory()
	n := 0
	st, err := store.Open(ctx, kv, store.Options{
		Now: func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	require.NoError(t, err)

	th, err := theme.Load(ctx, kv, models.ThemeLight)
	require.NoError(t, err)

	return &testServer{
		server: NewServer(st, th, Options{Now: func() time.Time { return fixedNow }}),
		store:  st,
		kv:     kv,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   int             `json:"count"`
	Total   int             `json:"total"`
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (ts *testServer) add(t *testing.T, input models.TaskInput) models.Task {
	t.Helper()
	task, err := ts.store.Add(context.Background(), input)
	require.NoError(t, err)
	return task
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCreateTask(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Write tests",
		"priority": "high",
		"category": "Work",
		"dueDate":  "2026-10-20",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	task := decode[models.Task](t, env.Data)
	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, "2026-10-20", task.Due())
	assert.Equal(t, "2026-10-16T09:30:00.000Z", task.CreatedAt)
	assert.Equal(t, 1, ts.store.Len())
}

func TestCreateTask_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"empty title", map[string]any{"title": "   "}},
		{"malformed json", "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := ts.do(t, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
	assert.Equal(t, 0, ts.store.Len())
}

func TestInvalidPriorityRejected(t *testing.T) {
	ts := newTestServer(t)
	task := ts.add(t, models.TaskInput{Title: "Important", Priority: models.PriorityHigh})

	w, env := ts.do(t, http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{"priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	got, err := ts.store.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, got.Priority)

	w, _ = ts.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "x", "priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, ts.store.Len())

	// An empty priority still defaults to medium.
	w, env = ts.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "y", "priority": ""})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.PriorityMedium, decode[models.Task](t, env.Data).Priority)
}

func TestCreateTask_StorageFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.kv.FailWrites = errors.New("disk full")

	w, env := ts.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, 0, ts.store.Len())
}

func TestListTasks_Filters(t *testing.T) {
	ts := newTestServer(t)
	ts.add(t, models.TaskInput{Title: "Buy milk", Priority: models.PriorityLow, Category: "Home"})
	ts.add(t, models.TaskInput{Title: "Ship release", Priority: models.PriorityHigh, Category: "Work"})
	done := ts.add(t, models.TaskInput{Title: "Review PR", Description: "release notes", Category: "Work"})
	_, err := ts.store.Toggle(context.Background(), done.ID)
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Review PR", "Ship release", "Buy milk"}},
		{"?status=active", []string{"Ship release", "Buy milk"}},
		{"?status=completed", []string{"Review PR"}},
		{"?priority=high", []string{"Ship release"}},
		{"?category=Work", []string{"Review PR", "Ship release"}},
		{"?category=work", []string{}},
		{"?search=RELEASE", []string{"Review PR", "Ship release"}},
		{"?status=active&category=Work", []string{"Ship release"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w, env := ts.do(t, http.MethodGet, "/api/tasks"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			tasks := decode[[]models.Task](t, env.Data)
			titles := make([]string, 0, len(tasks))
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.Equal(t, len(tt.want), env.Count)
			assert.Equal(t, 3, env.Total)
		})
	}
}

func TestListTasks_InvalidFilter(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(t, http.MethodGet, "/api/tasks?status=pending", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(t, http.MethodGet, "/api/tasks?priority=urgent", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUpdateDeleteTask(t *testing.T) {
	ts := newTestServer(t)
	task := ts.add(t, models.TaskInput{Title: "Original", DueDate: strPtr("2026-10-30")})

	w, env := ts.do(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Original", decode[models.Task](t, env.Data).Title)

	w, env = ts.do(t, http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{
		"title":        "Renamed",
		"clearDueDate": true,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Task](t, env.Data)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, task.ID, updated.ID)

	w, _ = ts.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, ts.store.Len())
}

func TestUnknownTask(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/tasks/missing", nil},
		{http.MethodPatch, "/api/tasks/missing", map[string]any{"title": "x"}},
		{http.MethodDelete, "/api/tasks/missing", nil},
		{http.MethodPost, "/api/tasks/missing/toggle", nil},
		{http.MethodPost, "/api/tasks/missing/move", map[string]any{"index": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w, env := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestToggleTask(t *testing.T) {
	ts := newTestServer(t)
	task := ts.add(t, models.TaskInput{Title: "Toggle me"})

	w, env := ts.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Task](t, env.Data).Completed)

	_, env = ts.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	assert.False(t, decode[models.Task](t, env.Data).Completed)
}

func TestReorder(t *testing.T) {
	ts := newTestServer(t)
	a := ts.add(t, models.TaskInput{Title: "A"})
	b := ts.add(t, models.TaskInput{Title: "B"})
	c := ts.add(t, models.TaskInput{Title: "C"})

	w, env := ts.do(t, http.MethodPut, "/api/tasks/order", map[string]any{
		"ids": []string{a.ID, b.ID, c.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode[[]models.Task](t, env.Data)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})

	w, _ = ts.do(t, http.MethodPut, "/api/tasks/order", map[string]any{
		"ids": []string{a.ID, b.ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMoveTask(t *testing.T) {
	ts := newTestServer(t)
	a := ts.add(t, models.TaskInput{Title: "A"})
	ts.add(t, models.TaskInput{Title: "B"})

	w, _ := ts.do(t, http.MethodPost, "/api/tasks/"+a.ID+"/move", map[string]any{"index": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", ts.store.Tasks()[0].Title)

	w, _ = ts.do(t, http.MethodPost, "/api/tasks/"+a.ID+"/move", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestView(t *testing.T) {
	ts := newTestServer(t)
	ts.add(t, models.TaskInput{Title: "Home chore", Category: "Home"})
	ts.add(t, models.TaskInput{Title: "Work item", Category: "Work"})

	type view struct {
		Filters   models.Filter `json:"filters"`
		Filtering bool          `json:"filtering"`
		Tasks     []models.Task `json:"tasks"`
	}

	_, env := ts.do(t, http.MethodPatch, "/api/view", map[string]any{"category": "Home"})
	v := decode[view](t, env.Data)
	assert.True(t, v.Filtering)
	assert.Equal(t, models.StatusAll, v.Filters.Status)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, "Home chore", v.Tasks[0].Title)

	_, env = ts.do(t, http.MethodPatch, "/api/view", map[string]any{"search": "chore"})
	v = decode[view](t, env.Data)
	assert.Equal(t, "Home", v.Filters.Category)
	assert.Equal(t, "chore", v.Filters.Search)

	_, env = ts.do(t, http.MethodDelete, "/api/view", nil)
	v = decode[view](t, env.Data)
	assert.False(t, v.Filtering)
	assert.Len(t, v.Tasks, 2)
}

func TestCategoriesAndStats(t *testing.T) {
	ts := newTestServer(t)
	ts.add(t, models.TaskInput{Title: "a", Category: "Work"})
	ts.add(t, models.TaskInput{Title: "b", Category: "Home"})
	ts.add(t, models.TaskInput{Title: "c", Category: "Work"})
	ts.add(t, models.TaskInput{Title: "d"})
	late := ts.add(t, models.TaskInput{Title: "late", DueDate: strPtr("2026-10-01")})
	require.NotEmpty(t, late.ID)

	_, env := ts.do(t, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, []string{"Home", "Work"}, decode[[]string](t, env.Data))

	_, env = ts.do(t, http.MethodGet, "/api/stats", nil)
	stats := decode[models.Stats](t, env.Data)
	assert.Equal(t, models.Stats{Total: 5, Active: 5, Completed: 0, Overdue: 1}, stats)
}

func TestCategories_EmptyIsArray(t *testing.T) {
	ts := newTestServer(t)
	w, _ := ts.do(t, http.MethodGet, "/api/categories", nil)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestTheme(t *testing.T) {
	ts := newTestServer(t)

	_, env := ts.do(t, http.MethodGet, "/api/theme", nil)
	assert.JSONEq(t, `{"theme":"light"}`, string(env.Data))

	_, env = ts.do(t, http.MethodPost, "/api/theme/toggle", nil)
	assert.JSONEq(t, `{"theme":"dark"}`, string(env.Data))

	saved, ok, err := ts.kv.GetItem(context.Background(), storage.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", saved)

	_, env = ts.do(t, http.MethodPut, "/api/theme", map[string]any{"theme": "light"})
	assert.JSONEq(t, `{"theme":"light"}`, string(env.Data))

	w, _ := ts.do(t, http.MethodPut, "/api/theme", map[string]any{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	ts.add(t, models.TaskInput{Title: "Exported"})

	req := httptest.NewRequest(http.MethodGet, "/api/export?format=yaml", nil)
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "title: Exported")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "tasks.yaml")

	w, _ = ts.do(t, http.MethodGet, "/api/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport(t *testing.T) {
	ts := newTestServer(t)
	existing := ts.add(t, models.TaskInput{Title: "Existing"})

	body := fmt.Sprintf(`[{"id":%q,"title":"Existing (edited)"},{"title":"Brand new"}]`, existing.ID)
	w, env := ts.do(t, http.MethodPost, "/api/import", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"added":1,"updated":1}`, string(env.Data))
	assert.Equal(t, 2, ts.store.Len())

	w, _ = ts.do(t, http.MethodPost, "/api/import?format=pdf", "[]")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/import", `[{"title":""}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/import?replace=yes", `[{"title":"only"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 2, ts.store.Len())

	w, _ = ts.do(t, http.MethodPost, "/api/import?replace=true", `[{"title":"only"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ts.store.Len())
}

func TestPatchView_InvalidFilter(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPatch, "/api/view", map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, _ = ts.do(t, http.MethodPatch, "/api/view", map[string]any{"priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(t, http.MethodPatch, "/api/view", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusCompleted, ts.store.Filters().Status)
}

func strPtr(s string) *string { return &s }
