package models

import (
	"fmt"
	"strings"
)

// MovieDetails is the full record served by the movie detail endpoint.
type MovieDetails struct {
	Movie
	Runtime  int        `json:"runtime"`
	Tagline  string     `json:"tagline,omitempty"`
	Status   string     `json:"status,omitempty"`
	IMDbID   string     `json:"imdb_id,omitempty"`
	Homepage string     `json:"homepage,omitempty"`
	Videos   *VideoList `json:"videos,omitempty"`
}

// CastMember is a credited actor.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// CrewMember is a credited crew role.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits lists the cast and crew of a movie.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the names of crew members with the Director job.
func (c Credits) Directors() []string {
	var names []string
	for _, m := range c.Crew {
		if m.Job == "Director" {
			names = append(names, m.Name)
		}
	}
	return names
}

// TopCast returns up to n cast members in billing order.
func (c Credits) TopCast(n int) []CastMember {
	if n < 0 || n > len(c.Cast) {
		n = len(c.Cast)
	}
	return c.Cast[:n]
}

// Video is a clip attached to a movie (trailer, teaser, featurette, ...).
type Video struct {
	ID       string `json:"id,omitempty"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList is the wrapper the API uses for video results.
type VideoList struct {
	Results []Video `json:"results"`
}

// URL returns a watch URL for YouTube and Vimeo videos, or "" for other sites.
func (v Video) URL() string {
	switch strings.ToLower(v.Site) {
	case "youtube":
		return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.Key)
	case "vimeo":
		return fmt.Sprintf("https://vimeo.com/%s", v.Key)
	default:
		return ""
	}
}

// Trailer picks the video to play: the first official YouTube trailer, else any YouTube trailer, else a YouTube teaser.
func Trailer(videos []Video) (Video, bool) {
	rules := []func(Video) bool{
		func(v Video) bool { return v.Site == "YouTube" && v.Type == "Trailer" && v.Official },
		func(v Video) bool { return v.Site == "YouTube" && v.Type == "Trailer" },
		func(v Video) bool { return v.Site == "YouTube" && v.Type == "Teaser" },
	}

	for _, match := range rules {
		for _, v := range videos {
			if match(v) {
				return v, true
			}
		}
	}
	return Video{}, false
}

// DetailView bundles everything the detail screen shows for one movie.
type DetailView struct {
	Details MovieDetails `json:"details"`
	Credits Credits      `json:"credits"`
	Videos  []Video      `json:"videos"`
	Trailer *Video       `json:"trailer,omitempty"`
}

// NewDetailView assembles a [DetailView] and selects its trailer.
func NewDetailView(details MovieDetails, credits Credits, videos []Video) *DetailView {
	if videos == nil && details.Videos != nil {
		videos = details.Videos.Results
	}

	view := &DetailView{Details: details, Credits: credits, Videos: videos}
	if t, ok := Trailer(videos); ok {
		view.Trailer = &t
	}
	return view
}
