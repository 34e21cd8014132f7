package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/shared"
)

// TaskRepository persists [models.Task] records.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new, incomplete task.
//
// The owner is not checked here; callers validate user_id against [UserRepository.Exists].
func (r *TaskRepository) Create(ctx context.Context, in models.TaskCreate) (*models.Task, error) {
	query := `INSERT INTO tasks (title, description, completed, user_id) VALUES (?, ?, 0, ?)`
	result, err := r.db.ExecContext(ctx, query, in.Title, in.Description, in.UserID)
	if err != nil {
		return nil, storageError("insert task", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read task id: %w", err)
	}

	return &models.Task{
		ID:          int(id),
		Title:       in.Title,
		Description: in.Description,
		UserID:      in.UserID,
	}, nil
}

func (r *TaskRepository) Get(ctx context.Context, id int) (*models.Task, error) {
	return r.get(ctx, r.db, id)
}

func (r *TaskRepository) get(ctx context.Context, q querier, id int) (*models.Task, error) {
	query := `SELECT id, title, description, completed, user_id FROM tasks WHERE id = ?`

	task, err := scanTask(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	return task, nil
}

// List retrieves tasks in ID order. A non-zero userID restricts the result to that owner.
func (r *TaskRepository) List(ctx context.Context, userID int, page Page) ([]models.Task, error) {
	query := `SELECT id, title, description, completed, user_id FROM tasks`
	args := []any{}
	if userID != 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY id ASC`

	limit, limitArgs := page.clause()
	rows, err := r.db.QueryContext(ctx, query+limit, append(args, limitArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tasks, nil
}

// Update applies the non-nil fields of in. The owner never changes.
func (r *TaskRepository) Update(ctx context.Context, id int, in models.TaskUpdate) (*models.Task, error) {
	var updated *models.Task

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		task, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Completed != nil {
			task.Completed = *in.Completed
		}

		query := `UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`
		_, err = tx.ExecContext(ctx, query, task.Title, task.Description, task.Completed, time.Now().UTC(), id)
		if err != nil {
			return storageError("update task", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result, shared.ErrTaskNotFound, id)
}
