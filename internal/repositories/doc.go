// Package repositories persists reelx state in a flat key-value store.
//
// Every record lives under one string key as a whole JSON (or raw string) value, mirroring browser local storage:
//
//	users         []models.Account
//	currentUser   models.Session
//	favorites     []models.Movie
//	lastSearch    raw string
//	movieFilters  models.FilterSet
//	themeMode     "light" | "dark"
//	tmdb_api_key  raw string
//
// Key Implementations:
//   - [Store] : the key-value contract, backed by [SQLiteStore], [BoltStore] or [MemoryStore]
//   - [AccountRepository] : registered accounts and the current session
//   - [FavoritesRepository] : the favorites list, de-duplicated by movie id
//   - [PreferenceRepository] : last search, filters, theme and API key fallback
//
// Repositories log and absorb storage failures: reads fall back to defaults and writes report false.
package repositories
