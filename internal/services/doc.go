// Package services implements the read-only client for the TMDB movie metadata API.
//
// # MovieAPI Interface
//
// [MovieAPI] is the contract the movie coordinator depends on: trending, search, discover, details, credits, videos and the genre list.
// [TMDBService] implements it over HTTP.
//
// # Authentication
//
// Requests carry the v3 api_key query parameter. When a v4 read access token is configured, an [oauth2.StaticTokenSource]
// transport sends it as a bearer token instead.
//
// # Rate Limiting
//
// A [rate.Limiter] throttles outgoing requests client-side; each request waits for a token before it is sent.
// Requests are never retried.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : neither an API key nor an access token is configured
//   - [shared.ErrNetwork] : transport failure, timeout or cancelled context
//   - [shared.ErrAPIRequest] : non-2xx response, carried by [*APIError]
//   - [shared.ErrMovieNotFound] : a 404 [*APIError] also matches this sentinel
package services
