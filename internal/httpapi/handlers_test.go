package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/config"
	"tasktrack/internal/form"
	"tasktrack/internal/session"
	"tasktrack/internal/task"
	"tasktrack/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	settings := config.DefaultSettings()
	settings.Timezone = "UTC"
	sess, err := session.New(testutil.DefaultUser, settings,
		session.WithClock(func() time.Time { return fixedNow }),
		session.WithIDGenerator(testutil.SeqIDs()),
	)
	require.NoError(t, err)
	return New(sess)
}

func do(t *testing.T, s *Server, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func createMilk(t *testing.T, s *Server) task.Task {
	t.Helper()
	code, body := do(t, s, http.MethodPost, "/tasks",
		`{"title":"Buy milk","description":"Get 2% milk from store","priority":"low"}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	var got task.Task
	require.NoError(t, json.Unmarshal(body, &got))
	return got
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok","tasks":0}`, string(body))
}

func TestCreateTask(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s, http.MethodPost, "/tasks",
		`{"title":"Buy milk","description":"Get 2% milk from store","priority":"low"}`)
	require.Equal(t, http.StatusCreated, code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "id-0001", raw["id"])
	assert.Equal(t, "pending", raw["status"])
	assert.Equal(t, "low", raw["priority"])
	assert.Nil(t, raw["dueDate"])
	assert.Equal(t, raw["createdAt"], raw["updatedAt"])
	assert.Equal(t, testutil.DefaultUser.Subject, raw["userId"])
}

func TestCreateTask_DefaultPriority(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s, http.MethodPost, "/tasks",
		`{"title":"Buy milk","description":"Get 2% milk from store","dueDate":"2026-03-10"}`)
	require.Equal(t, http.StatusCreated, code)

	var got task.Task
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Equal(t, "2026-03-10", got.DueDate)
}

func TestCreateTask_Invalid(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s, http.MethodPost, "/tasks",
		`{"title":"ab","description":"Get 2% milk from store","dueDate":"2026-03-09"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, form.Errors{
		form.FieldTitle:   form.MsgTitleTooShort,
		form.FieldDueDate: form.MsgDueDateInPast,
	}, resp.Errors)
	assert.Empty(t, s.sess.Store.All())
}

func TestCreateTask_BadRequest(t *testing.T) {
	s := newTestServer(t)

	code, _ := do(t, s, http.MethodPost, "/tasks", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodPost, "/tasks",
		`{"title":"Buy milk","description":"Get 2% milk from store","priority":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListTasks(t *testing.T) {
	s := newTestServer(t)
	first := createMilk(t, s)
	second := createMilk(t, s)

	code, body := do(t, s, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, code)

	var got []task.Task
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestListTasks_Filters(t *testing.T) {
	s := newTestServer(t)
	createMilk(t, s)
	done := createMilk(t, s)

	code, _ := do(t, s, http.MethodPatch, "/tasks/"+done.ID, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, s, http.MethodGet, "/tasks?status=completed", "")
	require.Equal(t, http.StatusOK, code)

	var got []task.Task
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, done.ID, got[0].ID)

	code, body = do(t, s, http.MethodGet, "/tasks?priority=high", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	code, _ = do(t, s, http.MethodGet, "/tasks?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetTask(t *testing.T) {
	s := newTestServer(t)
	created := createMilk(t, s)

	code, body := do(t, s, http.MethodGet, "/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, code)

	var got task.Task
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.Title, got.Title)

	code, _ = do(t, s, http.MethodGet, "/tasks/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateTask(t *testing.T) {
	s := newTestServer(t)
	created := createMilk(t, s)

	code, body := do(t, s, http.MethodPatch, "/tasks/"+created.ID,
		`{"title":"Buy oat milk","dueDate":"2026-03-20","status":"in-progress"}`)
	require.Equal(t, http.StatusOK, code, string(body))

	var got task.Task
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, "2026-03-20", got.DueDate)
	assert.Equal(t, task.StatusInProgress, got.Status)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateTask_Invalid(t *testing.T) {
	s := newTestServer(t)
	created := createMilk(t, s)

	code, body := do(t, s, http.MethodPatch, "/tasks/"+created.ID, `{"description":"too short"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.JSONEq(t, `{"errors":{"description":"Description must be at least 10 characters"}}`, string(body))

	stored, ok := s.sess.Store.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Description, stored.Description)
}

func TestUpdateTask_NotFound(t *testing.T) {
	s := newTestServer(t)

	code, _ := do(t, s, http.MethodPatch, "/tasks/missing", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(t)
	created := createMilk(t, s)

	code, _ := do(t, s, http.MethodDelete, "/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, s.sess.Store.All())

	code, _ = do(t, s, http.MethodDelete, "/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestState(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"busy":false}`, string(body))
}

func TestUpdateTask_DueDate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "absent keeps", body: `{"title":"Buy oat milk"}`, expected: "2026-03-20"},
		{name: "null clears", body: `{"dueDate":null}`, expected: ""},
		{name: "empty clears", body: `{"dueDate":""}`, expected: ""},
		{name: "value replaces", body: `{"dueDate":"2026-04-01"}`, expected: "2026-04-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			code, body := do(t, s, http.MethodPost, "/tasks",
				`{"title":"Buy milk","description":"Get 2% milk from store","dueDate":"2026-03-20"}`)
			require.Equal(t, http.StatusCreated, code, string(body))
			var created task.Task
			require.NoError(t, json.Unmarshal(body, &created))

			code, body = do(t, s, http.MethodPatch, "/tasks/"+created.ID, tt.body)
			require.Equal(t, http.StatusOK, code, string(body))

			stored, ok := s.sess.Store.Get(created.ID)
			require.True(t, ok)
			assert.Equal(t, tt.expected, stored.DueDate)
		})
	}
}

func TestNullableDate(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &req))
	assert.False(t, req.DueDate.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":null}`), &req))
	assert.Equal(t, NullableDate{Set: true}, req.DueDate)

	require.Error(t, json.Unmarshal([]byte(`{"dueDate":7}`), &req))
}
