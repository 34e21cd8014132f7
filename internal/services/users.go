package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tmx/internal/models"
)

func userPath(id int) string {
	return fmt.Sprintf("/users/%d", id)
}

// ListUsers calls GET /users.
func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doRequest(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetUser calls GET /users/:id.
func (c *HTTPClient) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodGet, userPath(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser calls POST /users.
func (c *HTTPClient) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodPost, "/users", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser calls PUT /users/:id.
func (c *HTTPClient) UpdateUser(ctx context.Context, id int, in models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodPut, userPath(id), in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser calls DELETE /users/:id. The response body is ignored.
func (c *HTTPClient) DeleteUser(ctx context.Context, id int) error {
	return c.doRequest(ctx, http.MethodDelete, userPath(id), nil, nil)
}
