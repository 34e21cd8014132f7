package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/repositories"
	"github.com/desertthunder/tmx/internal/services"
	"github.com/desertthunder/tmx/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

func setupAPI(t *testing.T) (*httptest.Server, *services.HTTPClient) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	users := repositories.NewUserRepository(db).WithHashCost(bcrypt.MinCost)
	tasks := repositories.NewTaskRepository(db)
	logger := shared.NewLogger(&strings.Builder{})

	srv := httptest.NewServer(NewAPI(users, tasks, logger))
	t.Cleanup(srv.Close)

	return srv, services.NewHTTPClient(srv.URL)
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func apiStatus(err error) int {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func TestUsersAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("CRUD through the client", func(t *testing.T) {
		_, client := setupAPI(t)

		created, err := client.CreateUser(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com", Password: "secret"})
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		if created.ID == 0 || created.Password != "" {
			t.Errorf("expected id and no password, got %+v", created)
		}

		users, err := client.ListUsers(ctx)
		if err != nil || len(users) != 1 {
			t.Fatalf("expected 1 user, got %v, %v", users, err)
		}

		updated, err := client.UpdateUser(ctx, created.ID, models.UserUpdate{Email: models.Ptr("alice@work.example")})
		if err != nil {
			t.Fatalf("failed to update user: %v", err)
		}
		if updated.Username != "alice" || updated.Email != "alice@work.example" {
			t.Errorf("unexpected updated user %+v", updated)
		}

		got, err := client.GetUser(ctx, created.ID)
		if err != nil || got.Email != "alice@work.example" {
			t.Errorf("expected persisted update, got %+v, %v", got, err)
		}

		if err := client.DeleteUser(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if _, err := client.GetUser(ctx, created.ID); !services.IsNotFound(err) {
			t.Errorf("expected 404 after delete, got %v", err)
		}
	})

	t.Run("Validation messages", func(t *testing.T) {
		srv, _ := setupAPI(t)

		tests := []struct {
			name string
			body string
			want string
		}{
			{"missing username", `{"email":"a@b.c"}`, "username is required."},
			{"missing email", `{"username":"alice"}`, "email is required."},
			{"short username", `{"username":"al","email":"a@b.c"}`, "Username must be at least 3 characters long."},
			{"bad email", `{"username":"alice","email":"nope"}`, "Invalid email format."},
			{"malformed", `{"username":`, "Malformed JSON"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, body := do(t, http.MethodPost, srv.URL+"/users", tt.body)
				if resp.StatusCode != http.StatusBadRequest {
					t.Errorf("expected 400, got %d", resp.StatusCode)
				}
				if body["error"] != tt.want {
					t.Errorf("expected %q, got %v", tt.want, body["error"])
				}
			})
		}
	})

	t.Run("Duplicate username", func(t *testing.T) {
		srv, client := setupAPI(t)
		if _, err := client.CreateUser(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com"}); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		resp, body := do(t, http.MethodPost, srv.URL+"/users", `{"username":"alice","email":"other@example.com"}`)
		if resp.StatusCode != http.StatusBadRequest || body["error"] != "Database integrity error" {
			t.Errorf("expected integrity error, got %d %v", resp.StatusCode, body)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		srv, _ := setupAPI(t)

		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			resp, body := do(t, method, srv.URL+"/users/42", `{"username":"ghost"}`)
			if resp.StatusCode != http.StatusNotFound || body["error"] != "User not found" {
				t.Errorf("%s: expected 404 User not found, got %d %v", method, resp.StatusCode, body)
			}
		}
	})

	t.Run("Delete message", func(t *testing.T) {
		srv, client := setupAPI(t)
		user, _ := client.CreateUser(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com"})

		resp, body := do(t, http.MethodDelete, srv.URL+"/users/"+strconv.Itoa(user.ID), "")
		if resp.StatusCode != http.StatusOK || body["message"] != "User deleted successfully." {
			t.Errorf("unexpected delete response %d %v", resp.StatusCode, body)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		srv, client := setupAPI(t)
		for _, name := range []string{"user1", "user2", "user3"} {
			if _, err := client.CreateUser(ctx, models.UserCreate{Username: name, Email: name + "@example.com"}); err != nil {
				t.Fatalf("failed to create %s: %v", name, err)
			}
		}

		resp, err := http.Get(srv.URL + "/users?limit=2&offset=1")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var users []models.User
		if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(users) != 2 || users[0].Username != "user2" {
			t.Errorf("expected user2 and user3, got %+v", users)
		}
	})
}

func TestTasksAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("CRUD through the client", func(t *testing.T) {
		_, client := setupAPI(t)
		user, err := client.CreateUser(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com"})
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		task, err := client.CreateTask(ctx, models.TaskCreate{Title: "Write tests", UserID: user.ID})
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		if task.ID == 0 || task.Completed || task.Description != "" {
			t.Errorf("unexpected new task %+v", task)
		}

		updated, err := client.UpdateTask(ctx, task.ID, models.TaskUpdate{Completed: models.Ptr(true)})
		if err != nil {
			t.Fatalf("failed to update task: %v", err)
		}
		if !updated.Completed || updated.Title != "Write tests" {
			t.Errorf("unexpected updated task %+v", updated)
		}

		tasks, err := client.ListTasks(ctx)
		if err != nil || len(tasks) != 1 {
			t.Fatalf("expected 1 task, got %v, %v", tasks, err)
		}

		if err := client.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("failed to delete task: %v", err)
		}
		if _, err := client.GetTask(ctx, task.ID); !services.IsNotFound(err) {
			t.Errorf("expected 404 after delete, got %v", err)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		_, client := setupAPI(t)
		user, _ := client.CreateUser(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com"})

		_, err := client.CreateTask(ctx, models.TaskCreate{Title: "", UserID: user.ID})
		if apiStatus(err) != http.StatusBadRequest || !strings.Contains(err.Error(), "title is required.") {
			t.Errorf("expected title required, got %v", err)
		}

		_, err = client.CreateTask(ctx, models.TaskCreate{Title: "Tiny", UserID: user.ID})
		if !strings.Contains(err.Error(), "Title must be at least 5 characters long.") {
			t.Errorf("expected short title error, got %v", err)
		}

		_, err = client.CreateTask(ctx, models.TaskCreate{Title: "Write tests", UserID: 999})
		if apiStatus(err) != http.StatusNotFound || !strings.Contains(err.Error(), "User ID does not exist.") {
			t.Errorf("expected unknown user error, got %v", err)
		}

		_, err = client.CreateTask(ctx, models.TaskCreate{Title: "Write tests"})
		if apiStatus(err) != http.StatusNotFound {
			t.Errorf("expected unselected user to be rejected, got %v", err)
		}
	})

	t.Run("Tasks survive their owner", func(t *testing.T) {
		_, client := setupAPI(t)
		user, _ := client.CreateUser(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com"})
		task, _ := client.CreateTask(ctx, models.TaskCreate{Title: "Write tests", UserID: user.ID})

		if err := client.DeleteUser(ctx, user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if _, err := client.GetTask(ctx, task.ID); err != nil {
			t.Errorf("expected task to remain, got %v", err)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		srv, _ := setupAPI(t)
		resp, body := do(t, http.MethodPut, srv.URL+"/tasks/7", `{"completed":true}`)
		if resp.StatusCode != http.StatusNotFound || body["error"] != "Task not found" {
			t.Errorf("expected 404 Task not found, got %d %v", resp.StatusCode, body)
		}

		resp, body = do(t, http.MethodDelete, srv.URL+"/tasks/7", "")
		if resp.StatusCode != http.StatusNotFound || body["error"] != "Task not found" {
			t.Errorf("expected 404 Task not found, got %d %v", resp.StatusCode, body)
		}
	})

	t.Run("Unknown id wins over an invalid title", func(t *testing.T) {
		srv, client := setupAPI(t)

		resp, body := do(t, http.MethodPut, srv.URL+"/tasks/7", `{"title":"abc"}`)
		if resp.StatusCode != http.StatusNotFound || body["error"] != "Task not found" {
			t.Errorf("expected 404 Task not found, got %d %v", resp.StatusCode, body)
		}

		user, _ := client.CreateUser(ctx, models.UserCreate{Username: "alice", Email: "alice@example.com"})
		task, _ := client.CreateTask(ctx, models.TaskCreate{Title: "Write tests", UserID: user.ID})

		resp, body = do(t, http.MethodPut, srv.URL+"/tasks/"+strconv.Itoa(task.ID), `{"title":"abc"}`)
		if resp.StatusCode != http.StatusBadRequest || body["error"] != "Title must be at least 5 characters long." {
			t.Errorf("expected short title error, got %d %v", resp.StatusCode, body)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Request id is echoed", func(t *testing.T) {
		srv, _ := setupAPI(t)

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/users", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("expected echoed request id, got %q", got)
		}
	})

	t.Run("Request id is generated", func(t *testing.T) {
		srv, _ := setupAPI(t)
		resp, _ := do(t, http.MethodGet, srv.URL+"/tasks", "")
		if resp.Header.Get(RequestIDHeader) == "" {
			t.Error("expected a generated request id")
		}
	})

	t.Run("Recover", func(t *testing.T) {
		var buf strings.Builder
		logger := log.New(&buf)

		r := NewMuxRouter()
		r.Use(RequestID(), Recover(logger))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "handler panic") {
			t.Error("expected the panic to be logged")
		}
	})

	t.Run("Unknown routes", func(t *testing.T) {
		r := NewMuxRouter()
		r.Handle(http.MethodGet, "/users", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []models.User{})
	})
	srv := New(ln.Addr().String(), handler, log.New(&strings.Builder{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	users, err := services.NewHTTPClient("http://" + ln.Addr().String()).ListUsers(context.Background())
	if err != nil || len(users) != 0 {
		t.Fatalf("expected empty user list, got %v, %v", users, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
