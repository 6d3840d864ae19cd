// Package server provides HTTP routing, middleware and the server lifecycle for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Routes are registered as method
// patterns ("GET /users/{userId}") so path values are available through [http.Request.PathValue].
// A fallback registered with [BasicRouter.NotFound] answers every request no other route matches.
//
// # Middleware
//
//   - [RequestID] tags each request with an X-Request-ID (a UUID unless the client sent one)
//   - [AccessLog] logs method, path, status, duration and request id once the handler returns
//   - [Recover] converts a handler panic into a logged 500
//
// # Lifecycle
//
// [Server] wraps [http.Server] with read/write timeouts; [Server.Run] serves until the context is
// cancelled and then shuts down gracefully.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
