// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/desertthunder/tmx/internal/models"
)

// ErrMock is the default failure returned by [MockClient] when a Fail* flag is set.
var ErrMock = errors.New("mock failure")

// Call records a single invocation on [MockClient].
type Call struct {
	Method string
	ID     int
	Body   any
}

// MockClient is a test double for [services.Client].
//
// Users and Tasks back the list/get calls; the Fail* flags make the corresponding call return [ErrMock].
// Create/Update results can be overridden with the *Result fields.
type MockClient struct {
	mu sync.Mutex

	Users []models.User
	Tasks []models.Task

	FailList   bool
	FailGet    bool
	FailCreate bool
	FailUpdate bool
	FailDelete bool

	UserResult *models.User
	TaskResult *models.Task

	calls []Call
}

func (m *MockClient) record(method string, id int, body any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, ID: id, Body: body})
}

// Calls returns a copy of the invocations made so far.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsTo returns the invocations of a single method.
func (m *MockClient) CallsTo(method string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockClient) ListUsers(ctx context.Context) ([]models.User, error) {
	m.record("ListUsers", 0, nil)
	if m.FailList {
		return nil, ErrMock
	}
	return append([]models.User{}, m.Users...), nil
}

func (m *MockClient) GetUser(ctx context.Context, id int) (*models.User, error) {
	m.record("GetUser", id, nil)
	if m.FailGet {
		return nil, ErrMock
	}
	for _, u := range m.Users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrMock
}

func (m *MockClient) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	m.record("CreateUser", 0, in)
	if m.FailCreate {
		return nil, ErrMock
	}
	if m.UserResult != nil {
		return m.UserResult, nil
	}
	return &models.User{ID: len(m.Users) + 100, Username: in.Username, Email: in.Email}, nil
}

func (m *MockClient) UpdateUser(ctx context.Context, id int, in models.UserUpdate) (*models.User, error) {
	m.record("UpdateUser", id, in)
	if m.FailUpdate {
		return nil, ErrMock
	}
	if m.UserResult != nil {
		return m.UserResult, nil
	}
	u := models.User{ID: id}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	return &u, nil
}

func (m *MockClient) DeleteUser(ctx context.Context, id int) error {
	m.record("DeleteUser", id, nil)
	if m.FailDelete {
		return ErrMock
	}
	return nil
}

func (m *MockClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	m.record("ListTasks", 0, nil)
	if m.FailList {
		return nil, ErrMock
	}
	return append([]models.Task{}, m.Tasks...), nil
}

func (m *MockClient) GetTask(ctx context.Context, id int) (*models.Task, error) {
	m.record("GetTask", id, nil)
	if m.FailGet {
		return nil, ErrMock
	}
	for _, t := range m.Tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrMock
}

func (m *MockClient) CreateTask(ctx context.Context, in models.TaskCreate) (*models.Task, error) {
	m.record("CreateTask", 0, in)
	if m.FailCreate {
		return nil, ErrMock
	}
	if m.TaskResult != nil {
		return m.TaskResult, nil
	}
	return &models.Task{ID: len(m.Tasks) + 100, Title: in.Title, Description: in.Description, UserID: in.UserID}, nil
}

func (m *MockClient) UpdateTask(ctx context.Context, id int, in models.TaskUpdate) (*models.Task, error) {
	m.record("UpdateTask", id, in)
	if m.FailUpdate {
		return nil, ErrMock
	}
	if m.TaskResult != nil {
		return m.TaskResult, nil
	}
	t := models.Task{ID: id}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	return &t, nil
}

func (m *MockClient) DeleteTask(ctx context.Context, id int) error {
	m.record("DeleteTask", id, nil)
	if m.FailDelete {
		return ErrMock
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}
