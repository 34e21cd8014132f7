package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/repositories"
	"github.com/desertthunder/tmx/internal/shared"
)

const maxBodyBytes = 1 << 20

// UserStore is the persistence used by [UsersHandler].
type UserStore interface {
	Create(ctx context.Context, in models.UserCreate) (*models.User, error)
	Get(ctx context.Context, id int) (*models.User, error)
	Exists(ctx context.Context, id int) (bool, error)
	List(ctx context.Context, page repositories.Page) ([]models.User, error)
	Update(ctx context.Context, id int, in models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

// TaskStore is the persistence used by [TasksHandler].
type TaskStore interface {
	Create(ctx context.Context, in models.TaskCreate) (*models.Task, error)
	Get(ctx context.Context, id int) (*models.Task, error)
	List(ctx context.Context, userID int, page repositories.Page) ([]models.Task, error)
	Update(ctx context.Context, id int, in models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id int) error
}

var (
	_ UserStore = (*repositories.UserRepository)(nil)
	_ TaskStore = (*repositories.TaskRepository)(nil)
)

// NewAPI builds the router serving /users and /tasks.
func NewAPI(users UserStore, tasks TaskStore, logger *log.Logger) *MuxRouter {
	r := NewMuxRouter()
	r.Use(RequestID(), AccessLog(logger), Recover(logger))
	r.Handler(&UsersHandler{store: users, logger: logger})
	r.Handler(&TasksHandler{store: tasks, users: users, logger: logger})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON")
		return false
	}
	return true
}

// parsePage reads optional limit/offset query parameters. Invalid values are ignored.
func parsePage(r *http.Request) repositories.Page {
	var page repositories.Page
	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		page.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		page.Offset = n
	}
	return page
}

// fail writes the response for err and logs anything that is not a client error.
func fail(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeError(w, reqErr.status, reqErr.message)
	case errors.Is(err, shared.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, shared.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, shared.ErrConflict):
		writeError(w, http.StatusBadRequest, "Database integrity error")
	default:
		logger.Error("request failed", "error", err, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()))
		writeError(w, http.StatusInternalServerError, "An error occurred: "+err.Error())
	}
}

// UsersHandler serves the /users resource.
type UsersHandler struct {
	store  UserStore
	logger *log.Logger
}

func (h *UsersHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/users", h.list},
		{http.MethodPost, "/users", h.create},
		{http.MethodGet, "/users/{id:[0-9]+}", h.get},
		{http.MethodPut, "/users/{id:[0-9]+}", h.update},
		{http.MethodDelete, "/users/{id:[0-9]+}", h.delete},
	}
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context(), parsePage(r))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if !decode(w, r, &body) {
		return
	}

	if err := firstError(validateUsername(body.Username), validateEmail(body.Email)); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	in := models.UserCreate{Username: *body.Username, Email: *body.Email}
	if body.Password != nil {
		in.Password = *body.Password
	}

	user, err := h.store.Create(r.Context(), in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	user, err := h.store.Get(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)

	var in models.UserUpdate
	if !decode(w, r, &in) {
		return
	}

	var errs []*requestError
	if in.Username != nil {
		errs = append(errs, validateUsername(in.Username))
	}
	if in.Email != nil {
		errs = append(errs, validateEmail(in.Email))
	}
	if err := firstError(errs...); err != nil {
		// Unknown ids are reported before validation failures.
		if _, getErr := h.store.Get(r.Context(), id); getErr != nil {
			fail(w, r, h.logger, getErr)
			return
		}
		fail(w, r, h.logger, err)
		return
	}

	user, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	if err := h.store.Delete(r.Context(), id); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeMessage(w, "User deleted successfully.")
}

// TasksHandler serves the /tasks resource.
type TasksHandler struct {
	store  TaskStore
	users  UserStore
	logger *log.Logger
}

func (h *TasksHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/tasks", h.list},
		{http.MethodPost, "/tasks", h.create},
		{http.MethodGet, "/tasks/{id:[0-9]+}", h.get},
		{http.MethodPut, "/tasks/{id:[0-9]+}", h.update},
		{http.MethodDelete, "/tasks/{id:[0-9]+}", h.delete},
	}
}

// list accepts an optional user_id filter in addition to limit/offset.
func (h *TasksHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(r.URL.Query().Get("user_id"))

	tasks, err := h.store.List(r.Context(), userID, parsePage(r))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TasksHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		UserID      *int    `json:"user_id"`
	}
	if !decode(w, r, &body) {
		return
	}

	if err := validateTitle(body.Title); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	in := models.TaskCreate{Title: *body.Title}
	if body.Description != nil {
		in.Description = *body.Description
	}
	if body.UserID != nil {
		in.UserID = *body.UserID
	}

	exists, err := h.users.Exists(r.Context(), in.UserID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "User ID does not exist.")
		return
	}

	task, err := h.store.Create(r.Context(), in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TasksHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	task, err := h.store.Get(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) update(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)

	var in models.TaskUpdate
	if !decode(w, r, &in) {
		return
	}

	if in.Title != nil {
		if err := validateTitle(in.Title); err != nil {
			// Unknown ids are reported before validation failures.
			if _, getErr := h.store.Get(r.Context(), id); getErr != nil {
				fail(w, r, h.logger, getErr)
				return
			}
			fail(w, r, h.logger, err)
			return
		}
	}

	task, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	if err := h.store.Delete(r.Context(), id); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Task deleted successfully.")
}
