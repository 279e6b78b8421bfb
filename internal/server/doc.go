// Package server exposes the client state over HTTP for debugging and scripting.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Inspector
//
// [Inspector] serves three routes:
//
//	GET  /health  → liveness probe
//	GET  /state   → JSON snapshot of the store
//	POST /actions → decode {"type": ..., "payload": ...} and put it through the engine
//
// Posting with "wait": true blocks until every task the action started has finished and
// responds with the resulting state. Without it the response is 202 Accepted.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
