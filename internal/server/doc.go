// Package server provides HTTP routing, middleware, and the JSON API over the movie coordinator.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers "METHOD /path" patterns on [http.ServeMux], so wildcards such as
// {id} are read with [http.Request.PathValue] and unmatched methods get 405 from the mux.
// Middleware added with [BasicRouter.Use] wraps only the routes registered after it, which is how the
// authenticated routes get [RequireSession] while /health and /api/auth/* stay public.
//
// # Middleware
//
//   - [Recovery]: gorilla/handlers panic recovery, logged through charmbracelet/log
//   - [RequestLogger]: one structured line per request
//   - [CORS]: gorilla/handlers CORS for the configured origins
//   - [Compress]: gorilla/handlers gzip/deflate
//   - [RequireSession]: 401 unless a user is logged in
//
// # Routes
//
//	GET    /health
//	POST   /api/auth/register | /api/auth/login | /api/auth/logout
//	GET    /api/auth/session
//	GET    /api/movies                 current display list and title
//	GET    /api/movies/trending?page=N
//	GET    /api/movies/search?q=&page=N
//	DELETE /api/movies/search
//	POST   /api/movies/filters?page=N  body: partial filter set, genre as id or name
//	DELETE /api/movies/filters
//	GET    /api/movies/{id}            details, credits and trailer
//	GET    /api/genres
//	GET    /api/favorites?q=           fuzzy title filter when q is set
//	POST   /api/favorites
//	DELETE /api/favorites/{id}
//
// Errors are returned as {"error": "..."}; coordinator failures carry the same message the coordinator records.
package server
