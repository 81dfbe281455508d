package models

import (
	"fmt"
	"time"
)

// MinYearFrom is the default lower bound of the release year filter.
const MinYearFrom = 2000

// FilterSet narrows listings by genre, release year range and rating range.
//
// Genre holds a genre id as text; "" means any genre.
type FilterSet struct {
	Genre    string     `json:"genre"`
	YearFrom int        `json:"yearFrom"`
	YearTo   int        `json:"yearTo"`
	Rating   [2]float64 `json:"rating"`
}

// DefaultFilterSet returns the filter set that matches everything, anchored to the year of now.
func DefaultFilterSet(now time.Time) FilterSet {
	return FilterSet{Genre: "", YearFrom: MinYearFrom, YearTo: now.Year(), Rating: [2]float64{0, 10}}
}

// IsActive reports whether any field differs from [DefaultFilterSet].
func (f FilterSet) IsActive(now time.Time) bool {
	return f != DefaultFilterSet(now)
}

// MinRating is the lower bound of the rating range.
func (f FilterSet) MinRating() float64 { return f.Rating[0] }

// MaxRating is the upper bound of the rating range.
func (f FilterSet) MaxRating() float64 { return f.Rating[1] }

// Validate enforces yearFrom ≤ yearTo and 0 ≤ min ≤ max ≤ 10.
func (f FilterSet) Validate() error {
	if f.YearFrom > f.YearTo {
		return fmt.Errorf("year range %d-%d is inverted", f.YearFrom, f.YearTo)
	}
	if f.Rating[0] < 0 || f.Rating[1] > 10 || f.Rating[0] > f.Rating[1] {
		return fmt.Errorf("rating range %.1f-%.1f must satisfy 0 <= min <= max <= 10", f.Rating[0], f.Rating[1])
	}
	return nil
}

// CacheKey identifies the results of this filter set for query and page.
func (f FilterSet) CacheKey(query string, page int) string {
	key := fmt.Sprintf("filter_%s_%d_%d_%g_%g", f.Genre, f.YearFrom, f.YearTo, f.Rating[0], f.Rating[1])
	if query != "" {
		key += "_q_" + query
	}
	return fmt.Sprintf("%s_page_%d", key, page)
}

// Matches reports whether m passes the year and rating ranges.
//
// A movie without a parseable release date always passes the year check.
func (f FilterSet) Matches(m Movie) bool {
	if year, ok := m.ReleaseYear(); ok && (year < f.YearFrom || year > f.YearTo) {
		return false
	}
	return m.VoteAverage >= f.Rating[0] && m.VoteAverage <= f.Rating[1]
}
