// Package server exposes the catalog gateway over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Middleware wraps the
// method filter, so CORS preflight requests are answered before a method mismatch is reported.
//
// # Routes
//
//	GET /search?query=...          tracks, [] for an empty query
//	GET /playlists/{playlistId}    [{albumCover, artist, song}], at most 25
//	PUT /play {"songId": "..."}    resolved track metadata
//	GET /health                    {"status":"ok"}
//
// Failures are reported as plain status text ("Internal Server Error", "Bad Request") and logged with the
// request id; no machine-readable error codes are returned.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
