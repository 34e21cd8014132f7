// Package models defines the entities managed by the tmx console and the payloads exchanged with the API.
//
// The package contains three categories of types:
//
// 1. Entities: values returned by the API
//   - [User] : user accounts; the password is write-only and never read back
//   - [Task] : work items owned by a user through [Task.UserID]
//
// 2. Payloads: request bodies for mutations
//   - [UserCreate], [UserUpdate] : POST/PUT /users
//   - [TaskCreate], [TaskUpdate] : POST/PUT /tasks (updates never carry a user id)
//
// 3. Containers
//   - [Collection] : an immutable, ordered snapshot with CRUD helpers that return new snapshots.
//
// List views own one [Collection] each and replace it wholesale on every change,
// which keeps the mutation sites few and easy to audit.
package models
