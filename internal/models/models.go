// package models defines the data model for the task and user manager
package models

import "fmt"

// Keyed is implemented by entities identified by a server-assigned integer.
type Keyed interface {
	Key() int
}

var (
	_ Keyed = User{}
	_ Keyed = Task{}
)

// User is a user account as returned by the API.
//
// Password is write-only: it is sent on create and never populated on read.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func (u User) Key() int { return u.ID }

// Label renders the user the way selection controls display it.
func (u User) Label() string {
	return fmt.Sprintf("%s (%s)", u.Username, u.Email)
}

// Task is a unit of work owned by a [User].
//
// UserID 0 is the "unselected" sentinel and is never valid on create.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      int    `json:"user_id"`
}

func (t Task) Key() int { return t.ID }

// UserCreate is the POST /users body.
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate is the PUT /users/:id body. Nil fields are left untouched.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// TaskCreate is the POST /tasks body.
type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	UserID      int    `json:"user_id"`
}

// TaskUpdate is the PUT /tasks/:id body.
//
// There is no UserID: a task's owner is fixed at creation.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Ptr returns a pointer to v, for building partial update payloads.
func Ptr[T any](v T) *T {
	return &v
}
