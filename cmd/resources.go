package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/shared"
	"github.com/urfave/cli/v3"
)

func parseID(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// optional returns a pointer to the flag value when the flag was given on the command line.
func optional(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	return models.Ptr(cmd.String(name))
}

func (r *Runner) show(cmd *cli.Command, data any, plain func()) error {
	if cmd.Bool("json") || plain == nil {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}
	plain()
	return nil
}

func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	users, err := r.client.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	return r.show(cmd, users, func() {
		r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
		for _, u := range users {
			r.writePlain("#%-4d %s\n", u.ID, u.Label())
		}
	})
}

func (r *Runner) UsersGet(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	user, err := r.client.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return r.writeJSON(user, cmd.Bool("pretty"))
}

func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	user, err := r.client.CreateUser(ctx, models.UserCreate{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", "id", user.ID)
	return r.writeJSON(user, cmd.Bool("pretty"))
}

func (r *Runner) UsersUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	in := models.UserUpdate{
		Username: optional(cmd, "username"),
		Email:    optional(cmd, "email"),
		Password: optional(cmd, "password"),
	}
	if in.Username == nil && in.Email == nil && in.Password == nil {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	user, err := r.client.UpdateUser(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return r.writeJSON(user, cmd.Bool("pretty"))
}

func (r *Runner) UsersDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	if err := r.client.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	r.logger.Info("user deleted", "id", id)
	return nil
}

func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	tasks, err := r.client.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	return r.show(cmd, tasks, func() {
		r.writePlainHeader(fmt.Sprintf("Tasks (%d)", len(tasks)))
		for _, t := range tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			r.writePlain("#%-4d [%s] %s (user #%d)\n", t.ID, mark, t.Title, t.UserID)
		}
	})
}

func (r *Runner) TasksGet(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	task, err := r.client.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return r.writeJSON(task, cmd.Bool("pretty"))
}

func (r *Runner) TasksCreate(ctx context.Context, cmd *cli.Command) error {
	userID := int(cmd.Int("user"))
	if userID <= 0 {
		return fmt.Errorf("%w: --user must be a positive user ID", shared.ErrInvalidArgument)
	}

	task, err := r.client.CreateTask(ctx, models.TaskCreate{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		UserID:      userID,
	})
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	r.logger.Info("task created", "id", task.ID, "user_id", task.UserID)
	return r.writeJSON(task, cmd.Bool("pretty"))
}

func (r *Runner) TasksUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	in := models.TaskUpdate{
		Title:       optional(cmd, "title"),
		Description: optional(cmd, "description"),
	}
	if cmd.IsSet("completed") {
		in.Completed = models.Ptr(cmd.Bool("completed"))
	}
	if in.Title == nil && in.Description == nil && in.Completed == nil {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	task, err := r.client.UpdateTask(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return r.writeJSON(task, cmd.Bool("pretty"))
}

func (r *Runner) TasksDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	if err := r.client.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}

	r.logger.Info("task deleted", "id", id)
	return nil
}
