// Package repositories implements SQLite persistence for users and tasks.
//
// Key Implementations:
//   - [UserRepository] : User accounts with unique usernames and emails; passwords are stored as bcrypt hashes
//   - [TaskRepository] : Tasks owned by a user id
//
// Identifiers are SQLite AUTOINCREMENT integers and are never reused.
// Unique-constraint violations surface as [shared.ErrConflict]; missing rows as
// [shared.ErrUserNotFound] or [shared.ErrTaskNotFound].
//
// Tasks reference users by id only. Deleting a user leaves its tasks in place.
package repositories
