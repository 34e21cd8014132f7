// Package server implements a development backend for the users/tasks REST API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [MuxRouter] implementation uses gorilla/mux internally for method and path-variable matching.
//
// # Handlers
//
// Resource handlers implement the [Handler] interface and return their [Route] table.
// [UsersHandler] and [TasksHandler] serve:
//
//	GET    /users          GET    /tasks
//	POST   /users          POST   /tasks
//	GET    /users/{id}     GET    /tasks/{id}
//	PUT    /users/{id}     PUT    /tasks/{id}
//	DELETE /users/{id}     DELETE /tasks/{id}
//
// Errors are returned as `{"error": "..."}` with status 400 for validation failures and integrity
// errors, and 404 for unknown ids. List endpoints accept optional limit and offset parameters.
//
// # Middleware
//
// [NewAPI] installs [RequestID], [AccessLog] and [Recover]. The request id is taken from the
// X-Request-ID header sent by the API client so both sides log the same value.
package server
