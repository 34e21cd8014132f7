package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tmx/internal/models"
)

func taskPath(id int) string {
	return fmt.Sprintf("/tasks/%d", id)
}

// ListTasks calls GET /tasks.
func (c *HTTPClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.doRequest(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// GetTask calls GET /tasks/:id.
func (c *HTTPClient) GetTask(ctx context.Context, id int) (*models.Task, error) {
	var task models.Task
	if err := c.doRequest(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask calls POST /tasks.
func (c *HTTPClient) CreateTask(ctx context.Context, in models.TaskCreate) (*models.Task, error) {
	var task models.Task
	if err := c.doRequest(ctx, http.MethodPost, "/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask calls PUT /tasks/:id.
func (c *HTTPClient) UpdateTask(ctx context.Context, id int, in models.TaskUpdate) (*models.Task, error) {
	var task models.Task
	if err := c.doRequest(ctx, http.MethodPut, taskPath(id), in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask calls DELETE /tasks/:id. The response body is ignored.
func (c *HTTPClient) DeleteTask(ctx context.Context, id int) error {
	return c.doRequest(ctx, http.MethodDelete, taskPath(id), nil, nil)
}
