package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultOverview replaces an empty overview when a movie is stored as a favorite.
const DefaultOverview = "No description available."

// Genre is a movie genre as listed by the metadata API.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is the summary record returned by list endpoints. Identity is ID.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview"`
	Genres      []Genre `json:"genres"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`
}

// MarshalJSON encodes a missing genre list as [] so list results and stored favorites share one shape.
func (m Movie) MarshalJSON() ([]byte, error) {
	type movie Movie
	if m.Genres == nil {
		m.Genres = []Genre{}
	}
	return json.Marshal(movie(m))
}

// Normalize fills the defaults applied to stored favorites.
func (m Movie) Normalize() Movie {
	if strings.TrimSpace(m.Overview) == "" {
		m.Overview = DefaultOverview
	}
	if m.Genres == nil {
		m.Genres = []Genre{}
	}
	return m
}

// ReleaseYear returns the year of ReleaseDate. ok is false when the date is absent or unparseable.
func (m Movie) ReleaseYear() (year int, ok bool) {
	d := strings.TrimSpace(m.ReleaseDate)
	if len(d) < 4 {
		return 0, false
	}
	if len(d) > 4 && d[4] != '-' {
		return 0, false
	}

	y, err := strconv.Atoi(d[:4])
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// PosterURL joins PosterPath onto the image base URL, or returns "" when there is no poster.
func (m Movie) PosterURL(base string) string {
	if m.PosterPath == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(m.PosterPath, "/")
}

// GenreNames returns the names of the movie's genres.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Page is one page of list results.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// HasMore reports whether pages after this one exist.
func (p *Page) HasMore() bool {
	return p != nil && p.Page < p.TotalPages
}

// Theme is the presentation mode preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the theme named s; anything but "dark" is light.
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
