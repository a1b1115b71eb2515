// Package domain defines the typed media records built from playlist units
// and the heuristics that classify and construct them.
package domain

// Category tags a record as a live channel or an on-demand title.
// Consumers switch on the tag, never on run-time type identity.
type Category int

const (
	// CategoryChannel is a live TV channel
	CategoryChannel Category = iota
	// CategoryMovie is an on-demand title
	CategoryMovie
)

func (c Category) String() string {
	switch c {
	case CategoryChannel:
		return "channel"
	case CategoryMovie:
		return "movie"
	default:
		return "unknown"
	}
}

// Channel is a live channel entry
type Channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Ordinal *int   `json:"ordinal,omitempty"`
	Group   string `json:"group,omitempty"`
	Logo    string `json:"logo,omitempty"`
	URL     string `json:"url"`
}

// Movie is an on-demand title entry
type Movie struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Poster         string `json:"poster,omitempty"`
	URL            string `json:"url"`
	DurationMillis *int64 `json:"duration_millis,omitempty"`
	Year           *int   `json:"year,omitempty"`
	Genre          string `json:"genre,omitempty"`
}

// Record is the tagged union over the two variants. Exactly one of Channel
// or Movie is non-nil, matching the Category tag.
type Record struct {
	Category Category
	Channel  *Channel
	Movie    *Movie
}

// DisplayName returns the record's primary display field
func (r Record) DisplayName() string {
	switch r.Category {
	case CategoryChannel:
		return r.Channel.Name
	case CategoryMovie:
		return r.Movie.Title
	default:
		return ""
	}
}
