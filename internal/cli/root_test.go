package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/taskdeck/internal/update"
)

// backend is a small in-memory stand-in for the task API.
type backend struct {
	mu      sync.Mutex
	tasks   []map[string]any
	nextID  int
	deleted []int
	queries []string
}

func newBackend() *backend {
	return &backend{nextID: 3, tasks: []map[string]any{
		{"id": 1, "title": "Buy milk", "status": "todo", "priority": 3, "due_date": "2024-01-10T18:00"},
		{"id": 2, "title": "Write report", "status": "done", "priority": 2, "due_date": nil},
	}}
}

func (b *backend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer abc"
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	writeJSON := func(status int, v any) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.URL.Path == "/users/login":
		var body struct{ Mail, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Mail != "a@b.com" || body.Password != "pw123" {
			writeJSON(http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		writeJSON(http.StatusOK, map[string]string{"session_id": "abc"})
		return
	case r.URL.Path == "/users/register":
		writeJSON(http.StatusCreated, map[string]any{"id": 7, "name": "Bob", "mail": "bob@b.com"})
		return
	}

	if !b.authorized(r) {
		writeJSON(http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return
	}

	switch {
	case r.URL.Path == "/users/me" && r.Method == http.MethodGet:
		writeJSON(http.StatusOK, map[string]any{"id": 1, "name": "Alice", "mail": "a@b.com"})
	case r.URL.Path == "/users/me" && r.Method == http.MethodPatch:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(http.StatusOK, map[string]any{"id": 1, "name": body["name"], "mail": "a@b.com"})
	case r.URL.Path == "/users/logout":
		writeJSON(http.StatusOK, map[string]string{"message": "ok"})
	case r.URL.Path == "/tasks/" && r.Method == http.MethodGet:
		b.queries = append(b.queries, r.URL.RawQuery)
		q := r.URL.Query().Get("q")
		out := make([]map[string]any, 0, len(b.tasks))
		for _, t := range b.tasks {
			if q == "" || strings.Contains(t["title"].(string), q) {
				out = append(out, t)
			}
		}
		writeJSON(http.StatusOK, out)
	case r.URL.Path == "/tasks/" && r.Method == http.MethodPost:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = b.nextID
		b.nextID++
		b.tasks = append([]map[string]any{body}, b.tasks...)
		writeJSON(http.StatusCreated, body)
	case strings.HasPrefix(r.URL.Path, "/tasks/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/tasks/"))
		i := b.index(id)
		if i < 0 {
			writeJSON(http.StatusNotFound, map[string]string{"detail": "Task not found"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(http.StatusOK, b.tasks[i])
		case http.MethodPatch:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			for k, v := range body {
				b.tasks[i][k] = v
			}
			writeJSON(http.StatusOK, b.tasks[i])
		case http.MethodDelete:
			b.deleted = append(b.deleted, id)
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		}
	case r.URL.Path == "/chat/history":
		writeJSON(http.StatusOK, []map[string]any{
			{"id": 1, "user_id": 1, "user_name": "Alice", "message": "hello", "timestamp": "2024-01-10T09:00:00"},
		})
	case r.URL.Path == "/chat/":
		writeJSON(http.StatusCreated, map[string]any{"id": 2, "user_id": 1, "message": "hi", "timestamp": nil})
	default:
		writeJSON(http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (b *backend) index(id int) int {
	for i, t := range b.tasks {
		if n, ok := t["id"].(int); ok && n == id {
			return i
		}
		if f, ok := t["id"].(float64); ok && int(f) == id {
			return i
		}
	}
	return -1
}

type testEnv struct {
	url   string
	state string
	be    *backend
}

func setup(t *testing.T) testEnv {
	t.Helper()
	be := newBackend()
	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TASKDECK_LOGIN_RETRY_ATTEMPTS", "1")

	origNow := now
	now = func() time.Time { return time.Date(2024, 1, 10, 10, 0, 0, 0, time.Local) }
	t.Cleanup(func() { now = origNow })

	return testEnv{url: srv.URL, state: filepath.Join(dir, "state.db"), be: be}
}

func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRoot()
	full := append([]string{"--backend-url", e.url, "--state", e.state}, args...)
	cmd.SetArgs(full)
	out := bytes.NewBuffer(nil)
	cmd.SetOut(out)
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func (e testEnv) login(t *testing.T) {
	t.Helper()
	out, err := e.run(t, "", "login", "--email", "a@b.com", "--password", "pw123")
	require.NoError(t, err)
	require.Contains(t, out, "logged in as Alice")
}

func TestRootCommandTree(t *testing.T) {
	cmd := NewRoot()
	require.Equal(t, "taskdeck", cmd.Use)
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"login", "guest", "logout", "whoami", "register", "passwd", "profile", "tasks", "chat"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestRootRunsTUIWithRestoredTheme(t *testing.T) {
	env := setup(t)
	var got tea.Model
	orig := runTUI
	runTUI = func(m tea.Model) error {
		got = m
		return nil
	}
	defer func() { runTUI = orig }()

	_, err := env.run(t, "")
	require.NoError(t, err)
	m, ok := got.(update.Model)
	require.True(t, ok, "expected update.Model, got %T", got)
	assert.Equal(t, update.ScreenAuth, m.Screen)
	assert.Equal(t, "dark", m.Theme.Name)
}

func TestLoginWhoamiLogout(t *testing.T) {
	env := setup(t)

	_, err := env.run(t, "", "whoami")
	require.ErrorIs(t, err, errNotLoggedIn)

	_, err = env.run(t, "", "login", "--email", "a@b.com", "--password", "nope")
	require.Error(t, err)

	env.login(t)

	out, err := env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "a@b.com")

	out, err = env.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, err = env.run(t, "", "whoami")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	env := setup(t)
	out, err := env.run(t, "pw123\n", "login", "--email", "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as Alice")
}

func TestTasksListSearchAndUrgent(t *testing.T) {
	env := setup(t)
	env.login(t)

	out, err := env.run(t, "", "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "8 hours left")
	assert.Contains(t, out, "todo 1 | in progress 0 | done 1")

	out, err = env.run(t, "", "tasks", "list", "-q", "milk", "--status", "todo", "--sort", "due_asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "Write report")
	last := env.be.queries[len(env.be.queries)-1]
	assert.Contains(t, last, "q=milk")
	assert.Contains(t, last, "sort=due_asc")
	assert.Contains(t, last, "status_in=todo")

	out, err = env.run(t, "", "tasks", "list", "--urgent")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "Write report")

	_, err = env.run(t, "", "tasks", "list", "--sort", "sideways")
	require.Error(t, err)
}

func TestTasksAddShowStatusRemove(t *testing.T) {
	env := setup(t)
	env.login(t)

	_, err := env.run(t, "", "tasks", "add", "   ")
	require.Error(t, err)

	out, err := env.run(t, "", "tasks", "add", "Call", "mom", "-p", "9", "-d", "ring **twice**")
	require.NoError(t, err)
	assert.Contains(t, out, `created #3 "Call mom"`)
	created := env.be.tasks[0]
	assert.Equal(t, float64(3), created["priority"], "out of range priority falls back to the default")
	assert.Equal(t, "todo", created["status"])

	out, err = env.run(t, "", "tasks", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Call mom")
	assert.Contains(t, out, "ring **twice**")

	out, err = env.run(t, "", "tasks", "start", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"Call mom" is now in progress`)

	out, err = env.run(t, "n\n", "tasks", "rm", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "delete cancelled")
	assert.Empty(t, env.be.deleted)

	out, err = env.run(t, "y\n", "tasks", "rm", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted #3")
	assert.Equal(t, []int{3}, env.be.deleted)

	_, err = env.run(t, "", "tasks", "show", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Task not found")
}

func TestTasksRequireLogin(t *testing.T) {
	env := setup(t)
	_, err := env.run(t, "", "tasks", "list")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestProfileSetAndChat(t *testing.T) {
	env := setup(t)
	env.login(t)

	_, err := env.run(t, "", "profile", "set")
	require.Error(t, err)

	out, err := env.run(t, "", "profile", "set", "--name", "Alicia")
	require.NoError(t, err)
	assert.Contains(t, out, "profile saved for Alicia")

	out, err = env.run(t, "", "chat", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice:")
	assert.Contains(t, out, "hello")

	out, err = env.run(t, "", "chat", "send", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "sent #2")
}

func TestRegister(t *testing.T) {
	env := setup(t)
	out, err := env.run(t, "", "register", "--name", "Bob", "--email", "bob@b.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("account created for %s", "Bob"))
}
