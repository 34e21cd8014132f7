package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository persists [models.User] records.
type UserRepository struct {
	db   *sql.DB
	cost int
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost used for new password hashes.
func (r *UserRepository) WithHashCost(cost int) *UserRepository {
	r.cost = cost
	return r
}

func (r *UserRepository) hash(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// Create inserts a new user and returns it with its assigned ID. The password is hashed and never returned.
func (r *UserRepository) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	hash, err := r.hash(in.Password)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, in.Username, in.Email, hash)
	if err != nil {
		return nil, storageError("insert user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	return &models.User{ID: int(id), Username: in.Username, Email: in.Email}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return r.get(ctx, r.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *UserRepository) get(ctx context.Context, q querier, id int) (*models.User, error) {
	query := `SELECT id, username, email FROM users WHERE id = ?`

	user, err := scanUser(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// Exists reports whether a user with the given ID is stored.
func (r *UserRepository) Exists(ctx context.Context, id int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	return n > 0, nil
}

// List retrieves users in ID order.
func (r *UserRepository) List(ctx context.Context, page Page) ([]models.User, error) {
	query := `SELECT id, username, email FROM users ORDER BY id ASC`
	limit, args := page.clause()

	rows, err := r.db.QueryContext(ctx, query+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

// Update applies the non-nil fields of in and returns the stored user.
func (r *UserRepository) Update(ctx context.Context, id int, in models.UserUpdate) (*models.User, error) {
	var updated *models.User

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		user, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Username != nil {
			user.Username = *in.Username
		}
		if in.Email != nil {
			user.Email = *in.Email
		}

		query := `UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`
		args := []any{user.Username, user.Email, time.Now().UTC(), id}
		if in.Password != nil {
			hash, err := r.hash(*in.Password)
			if err != nil {
				return err
			}
			query = `UPDATE users SET username = ?, email = ?, password_hash = ?, updated_at = ? WHERE id = ?`
			args = []any{user.Username, user.Email, hash, time.Now().UTC(), id}
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return storageError("update user", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a user by ID. Tasks that reference the user are left untouched.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(result, shared.ErrUserNotFound, id)
}

// CheckPassword reports whether password matches the stored hash for the user.
func (r *UserRepository) CheckPassword(ctx context.Context, id int, password string) (bool, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = ?`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: %d", shared.ErrUserNotFound, id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	if hash == "" {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
