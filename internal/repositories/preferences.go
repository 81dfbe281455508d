package repositories

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
)

// PreferenceRepository persists the last search, the filter set, the theme and the API key fallback.
type PreferenceRepository struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

// NewPreferenceRepository creates a [PreferenceRepository] over store.
func NewPreferenceRepository(store Store, logger *log.Logger) *PreferenceRepository {
	return &PreferenceRepository{store: store, logger: orDefault(logger), now: time.Now}
}

// SetClock replaces the clock used to compute default filters.
func (r *PreferenceRepository) SetClock(now func() time.Time) {
	r.now = now
}

// SaveLastSearch stores query verbatim.
func (r *PreferenceRepository) SaveLastSearch(query string) bool {
	return setRaw(r.store, r.logger, KeyLastSearch, query)
}

// LastSearch returns the stored query, or "".
func (r *PreferenceRepository) LastSearch() string {
	v, ok, err := r.store.Get(KeyLastSearch)
	if err != nil {
		r.logger.Warn("failed to read last search", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// ClearLastSearch removes the stored query.
func (r *PreferenceRepository) ClearLastSearch() bool {
	return deleteKey(r.store, r.logger, KeyLastSearch)
}

// SaveFilters stores filters as JSON.
func (r *PreferenceRepository) SaveFilters(filters models.FilterSet) bool {
	return setJSON(r.store, r.logger, KeyFilters, filters)
}

// Filters returns the stored filter set. Absent or malformed records yield the defaults;
// fields missing from the record keep their default values.
func (r *PreferenceRepository) Filters() models.FilterSet {
	filters := models.DefaultFilterSet(r.now())
	stored := filters
	if !getJSON(r.store, r.logger, KeyFilters, &stored) {
		return filters
	}
	return stored
}

// ClearFilters removes the stored filter set.
func (r *PreferenceRepository) ClearFilters() bool {
	return deleteKey(r.store, r.logger, KeyFilters)
}

// Theme returns the stored theme, light by default.
func (r *PreferenceRepository) Theme() models.Theme {
	v, ok, err := r.store.Get(KeyTheme)
	if err != nil || !ok {
		return models.ThemeLight
	}
	return models.ParseTheme(v)
}

// SaveTheme stores theme.
func (r *PreferenceRepository) SaveTheme(theme models.Theme) bool {
	return setRaw(r.store, r.logger, KeyTheme, string(theme))
}

// ToggleTheme flips and stores the theme, returning the new value.
func (r *PreferenceRepository) ToggleTheme() models.Theme {
	next := r.Theme().Toggle()
	r.SaveTheme(next)
	return next
}

// APIKey returns the stored API key fallback, or "".
func (r *PreferenceRepository) APIKey() string {
	v, ok, err := r.store.Get(KeyAPIKey)
	if err != nil || !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// SaveAPIKey stores key as the API key fallback.
func (r *PreferenceRepository) SaveAPIKey(key string) bool {
	return setRaw(r.store, r.logger, KeyAPIKey, strings.TrimSpace(key))
}
