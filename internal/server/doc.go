// Package server provides HTTP routing, middleware, and server lifecycle for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Routes are registered as method-qualified
// patterns ("GET /watch/{id}"), so path parameters are read with [http.Request.PathValue]. A method-less
// "/" pattern catches everything else, including known paths requested with the wrong method.
//
// # Middleware
//
// Request IDs, real client IPs, and panic recovery come from chi's middleware package and slot into the
// [Middleware] type unchanged. [Logging] writes one structured line per request.
//
// [Sessions] resolves the session cookie into a user stored on the request context, and [RequireOwner]
// turns anonymous requests away from the studio.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
