// package services defines interface Client for interacting with the users/tasks HTTP API
package services

import (
	"context"

	"github.com/desertthunder/tmx/internal/models"
)

// UserClient is the subset of [Client] that manages users.
type UserClient interface {
	// ListUsers retrieves every user. (GET /users)
	ListUsers(ctx context.Context) ([]models.User, error)

	// GetUser retrieves a single user. (GET /users/:id)
	GetUser(ctx context.Context, id int) (*models.User, error)

	// CreateUser persists a new user and returns it with its server-assigned ID. (POST /users)
	CreateUser(ctx context.Context, user models.UserCreate) (*models.User, error)

	// UpdateUser applies a partial update and returns the persisted user. (PUT /users/:id)
	UpdateUser(ctx context.Context, id int, user models.UserUpdate) (*models.User, error)

	// DeleteUser removes a user. Tasks owned by the user are left in place. (DELETE /users/:id)
	DeleteUser(ctx context.Context, id int) error
}

// TaskClient is the subset of [Client] that manages tasks.
type TaskClient interface {
	ListTasks(ctx context.Context) ([]models.Task, error)                               // GET /tasks
	GetTask(ctx context.Context, id int) (*models.Task, error)                          // GET /tasks/:id
	CreateTask(ctx context.Context, task models.TaskCreate) (*models.Task, error)        // POST /tasks
	UpdateTask(ctx context.Context, id int, task models.TaskUpdate) (*models.Task, error) // PUT /tasks/:id
	DeleteTask(ctx context.Context, id int) error                                       // DELETE /tasks/:id
}

// Client defines the full REST API consumed by the console.
type Client interface {
	UserClient
	TaskClient
}
