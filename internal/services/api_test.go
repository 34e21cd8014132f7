package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/shared"
	tu "github.com/desertthunder/tmx/internal/testing"
)

func TestHTTPClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewHTTPClient("http://example.com/", WithHTTPClient(customClient))

			if c.BaseURL() != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", c.BaseURL())
			}
			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewHTTPClient("")

			if c.baseURL != defaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", defaultBaseURL, c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("With Timeout", func(t *testing.T) {
			c := NewHTTPClient("http://example.com", WithTimeout(3*time.Second))

			if c.httpClient.Timeout != 3*time.Second {
				t.Errorf("expected 3s timeout, got %s", c.httpClient.Timeout)
			}
			if http.DefaultClient.Timeout != 0 {
				t.Error("default client must not be modified")
			}
		})

		t.Run("With Rate Limit", func(t *testing.T) {
			if c := NewHTTPClient("", WithRateLimit(0, 1)); c.limiter != nil {
				t.Error("expected zero rate to disable limiting")
			}
			if c := NewHTTPClient("", WithRateLimit(2, 0)); c.limiter == nil || c.limiter.Burst() != 1 {
				t.Error("expected limiter with burst clamped to 1")
			}
		})
	})

	t.Run("Users", func(t *testing.T) {
		t.Run("ListUsers", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/users" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get(RequestIDHeader) == "" {
					t.Error("expected request id header")
				}
				json.NewEncoder(w).Encode([]models.User{
					{ID: 1, Username: "Alice", Email: "alice@example.com"},
					{ID: 2, Username: "Bob", Email: "bob@example.com"},
				})
			}))
			defer server.Close()

			users, err := NewHTTPClient(server.URL).ListUsers(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(users) != 2 || users[1].Username != "Bob" {
				t.Errorf("unexpected users %+v", users)
			}
		})

		t.Run("ListUsers Null Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("null"))
			}))
			defer server.Close()

			users, err := NewHTTPClient(server.URL).ListUsers(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if users == nil || len(users) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", users)
			}
		})

		t.Run("CreateUser", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/users" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
				}

				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["username"] != "carol" || body["email"] != "carol@example.com" || body["password"] != "secret" {
					t.Errorf("unexpected body %v", body)
				}

				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(models.User{ID: 3, Username: "carol", Email: "carol@example.com"})
			}))
			defer server.Close()

			user, err := NewHTTPClient(server.URL).CreateUser(context.Background(), models.UserCreate{
				Username: "carol", Email: "carol@example.com", Password: "secret",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != 3 {
				t.Errorf("expected server-assigned id 3, got %d", user.ID)
			}
		})

		t.Run("UpdateUser Sends Only Set Fields", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/users/7" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				body, _ := io.ReadAll(r.Body)
				if strings.Contains(string(body), "password") {
					t.Errorf("password must not be sent: %s", body)
				}
				json.NewEncoder(w).Encode(models.User{ID: 7, Username: "renamed", Email: "x@example.com"})
			}))
			defer server.Close()

			user, err := NewHTTPClient(server.URL).UpdateUser(context.Background(), 7, models.UserUpdate{
				Username: models.Ptr("renamed"), Email: models.Ptr("x@example.com"),
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.Username != "renamed" {
				t.Errorf("expected renamed, got %s", user.Username)
			}
		})

		t.Run("DeleteUser Not Found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/users/9" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error": "User not found"}`))
			}))
			defer server.Close()

			err := NewHTTPClient(server.URL).DeleteUser(context.Background(), 9)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsNotFound(err) {
				t.Errorf("expected not found error, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Message != "User not found" {
				t.Errorf("expected backend message, got %v", err)
			}
		})
	})

	t.Run("Tasks", func(t *testing.T) {
		t.Run("CreateTask", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)
				if body["title"] != "Write docs" || body["user_id"] != float64(2) {
					t.Errorf("unexpected body %v", body)
				}
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(models.Task{ID: 5, Title: "Write docs", UserID: 2})
			}))
			defer server.Close()

			task, err := NewHTTPClient(server.URL).CreateTask(context.Background(), models.TaskCreate{Title: "Write docs", UserID: 2})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if task.ID != 5 || task.UserID != 2 {
				t.Errorf("unexpected task %+v", task)
			}
		})

		t.Run("UpdateTask Omits UserID", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/tasks/5" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)
				if _, ok := body["user_id"]; ok {
					t.Errorf("user_id must not be sent on update: %v", body)
				}
				if body["completed"] != true {
					t.Errorf("expected completed true, got %v", body["completed"])
				}
				json.NewEncoder(w).Encode(models.Task{ID: 5, Title: "Write docs", Completed: true, UserID: 2})
			}))
			defer server.Close()

			task, err := NewHTTPClient(server.URL).UpdateTask(context.Background(), 5, models.TaskUpdate{
				Title: models.Ptr("Write docs"), Description: models.Ptr(""), Completed: models.Ptr(true),
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !task.Completed {
				t.Error("expected completed task")
			}
		})

		t.Run("ListTasks Server Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("boom"))
			}))
			defer server.Close()

			_, err := NewHTTPClient(server.URL).ListTasks(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "" {
				t.Errorf("unexpected error %+v", apiErr)
			}
		})

		t.Run("GetTask", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/tasks/1" {
					t.Errorf("expected /tasks/1, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(models.Task{ID: 1, Title: "Task 1", UserID: 1})
			}))
			defer server.Close()

			task, err := NewHTTPClient(server.URL).GetTask(context.Background(), 1)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if task.Title != "Task 1" {
				t.Errorf("unexpected task %+v", task)
			}
		})
	})

	t.Run("Failures", func(t *testing.T) {
		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewHTTPClient("http://example.com\x00").ListUsers(context.Background())

			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			_, err := NewHTTPClient("http://example.com", WithHTTPClient(client)).ListUsers(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewHTTPClient("http://example.com", WithHTTPClient(client)).ListTasks(context.Background())
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("Invalid JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			_, err := NewHTTPClient(server.URL).GetUser(context.Background(), 1)
			if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if err := NewHTTPClient(server.URL).DeleteTask(ctx, 1); err == nil {
				t.Error("expected error for canceled context")
			}
		})

		t.Run("Rate Limiter Honors Context", func(t *testing.T) {
			c := NewHTTPClient("http://example.com", WithRateLimit(0.001, 1))
			c.limiter.Allow()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := c.DeleteTask(ctx, 1)
			if err == nil || !strings.Contains(err.Error(), "rate limiter") {
				t.Errorf("expected rate limiter error, got %v", err)
			}
		})
	})
}
