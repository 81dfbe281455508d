// Package tasks holds the movie discovery core: the [Coordinator] that fetches, caches and filters movie lists,
// and the [SessionManager] that owns the current user.
//
// # Coordinator Operations
//
// Every list operation takes a context, returns the fetched [models.Page] and returns nil on failure after
// recording a user-facing message in [State.Error]:
//
//  1. [Coordinator.FetchTrending] : weekly trending list, cached per page
//  2. [Coordinator.SearchForMovies] : text search, cached per lowercased query and page, re-filtered locally when filters are active
//  3. [Coordinator.ApplyFilters] : discover by genre, year and rating, or local filtering of the last search
//  4. [Coordinator.ClearFilters], [Coordinator.ClearSearchResults] : reset and fall back to search or trending
//  5. [Coordinator.Initialize] : restore persisted preferences and load the first list
//
// Page 1 replaces a list; later pages append to it. [Coordinator.Display] picks the list to show:
// filtered results while filtering, else search results when non-empty, else trending.
//
// # Caching
//
// [ResponseCache] maps request keys to responses for the life of the Coordinator. There is no expiry or eviction,
// and concurrent misses for the same key each reach the network.
//
// # State Notifications
//
// Subscribers registered with [Coordinator.Subscribe] receive an [Update] after every state mutation.
// Sends use select with default so a slow subscriber never blocks an operation.
//
// # Favorites Export
//
// [Coordinator.ExportFavorites] runs a rate-limited worker pool that enriches favorites with details and posters
// and writes them with the formatter package, reporting [ProgressUpdate] values on a channel.
package tasks
