// Package services defines the [Client] interface for the users/tasks REST API and implements it over HTTP.
//
// # Client Interface
//
// [Client] combines [UserClient] and [TaskClient]. UI components depend on the narrowest interface they need,
// so tests can substitute small fakes.
//
// # HTTP Implementation
//
// [HTTPClient] sends and receives JSON against a configurable base URL:
//
//	GET    /users        GET    /tasks
//	GET    /users/:id    GET    /tasks/:id
//	POST   /users        POST   /tasks
//	PUT    /users/:id    PUT    /tasks/:id
//	DELETE /users/:id    DELETE /tasks/:id
//
// Every request carries an X-Request-ID header. An optional token-bucket limiter ([WithRateLimit]) throttles
// outgoing requests; it honors context cancellation while waiting.
//
// # Error Handling
//
// All failures wrap [shared.ErrAPIRequest]:
//   - transport and decode failures are wrapped with context
//   - non-2xx responses are returned as [*APIError], carrying the status and the backend's error message
//
// Callers in the UI do not distinguish causes; the CLI prints the message.
package services
