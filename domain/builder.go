package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alorle/m3u-ingest/playlist"
)

// Validation errors raised by the entity gate
var (
	ErrMissingID   = errors.New("entity has no id")
	ErrMissingName = errors.New("entity has no display name")
	ErrMissingURL  = errors.New("entity has no stream URL")
)

const maxSlugLength = 50

var (
	// <digits><run of spaces/dots><rest>
	ordinalRegex = regexp.MustCompile(`^(\d+)[ .]+(.+)$`)

	slugStripRegex = regexp.MustCompile(`[^a-z0-9]+`)

	// Trailing "(YYYY)" release year on on-demand titles
	yearSuffixRegex = regexp.MustCompile(`^(.*\S)\s*\((19\d{2}|20\d{2})\)\s*$`)
)

// BuildRecord constructs a typed record from a tokenized playlist unit,
// classifying it and extracting the structured fields. Entities that fail
// the validation gate are not emitted; the returned error describes the
// missing field.
func BuildRecord(d playlist.Directive, url string) (Record, error) {
	category := Classify(d.GroupTitle, d.Title)

	var record Record
	switch category {
	case CategoryMovie:
		record = buildMovie(d, url)
	default:
		record = buildChannel(d, url)
	}

	if err := validate(record, url); err != nil {
		return Record{}, err
	}
	return record, nil
}

func buildChannel(d playlist.Directive, url string) Record {
	ordinal, name := SplitOrdinal(d.Title)
	return Record{
		Category: CategoryChannel,
		Channel: &Channel{
			ID:      entityID(d.TvgID, d.Title),
			Name:    name,
			Ordinal: ordinal,
			Group:   d.GroupTitle,
			Logo:    d.TvgLogo,
			URL:     url,
		},
	}
}

func buildMovie(d playlist.Directive, url string) Record {
	title, year := SplitYear(d.Title)
	return Record{
		Category: CategoryMovie,
		Movie: &Movie{
			ID:             entityID(d.TvgID, d.Title),
			Title:          title,
			Description:    d.GroupTitle,
			Poster:         d.TvgLogo,
			URL:            url,
			DurationMillis: durationMillis(d.Duration),
			Year:           year,
		},
	}
}

// SplitOrdinal extracts a leading channel ordinal from a title.
// "101. ESPN" yields (101, "ESPN"); titles without a leading number yield
// (nil, title).
func SplitOrdinal(title string) (*int, string) {
	matches := ordinalRegex.FindStringSubmatch(title)
	if matches == nil {
		return nil, title
	}

	ordinal, err := strconv.Atoi(matches[1])
	if err != nil {
		// Digit runs beyond int range fall back to the full title
		return nil, title
	}
	return &ordinal, strings.TrimSpace(matches[2])
}

// SplitYear extracts a trailing "(YYYY)" release year from an on-demand
// title. Titles without one are returned unchanged with a nil year.
func SplitYear(title string) (string, *int) {
	matches := yearSuffixRegex.FindStringSubmatch(title)
	if matches == nil {
		return title, nil
	}
	year, err := strconv.Atoi(matches[2])
	if err != nil {
		return title, nil
	}
	return matches[1], &year
}

// entityID prefers the tvg-id attribute and falls back to a slug generated
// from the title
func entityID(tvgID, title string) string {
	if tvgID != "" {
		return tvgID
	}
	return SlugID(title)
}

// SlugID generates a stable identifier from a title: lowercase, every
// maximal run outside [a-z0-9] collapsed to one underscore, trimmed, then
// truncated to 50 characters.
func SlugID(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRegex.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return slug
}

// durationMillis converts an EXTINF duration in seconds to milliseconds.
// Zero and negative durations denote live/unknown and yield nil.
func durationMillis(seconds float64) *int64 {
	if seconds <= 0 {
		return nil
	}
	millis := int64(math.Round(seconds * 1000))
	return &millis
}

// validate enforces the entity invariants: non-empty id, display field and
// stream URL
func validate(r Record, url string) error {
	var id string
	switch r.Category {
	case CategoryChannel:
		id = r.Channel.ID
	case CategoryMovie:
		id = r.Movie.ID
	}

	if id == "" {
		return fmt.Errorf("%w (%s)", ErrMissingID, r.Category)
	}
	if r.DisplayName() == "" {
		return fmt.Errorf("%w (%s)", ErrMissingName, r.Category)
	}
	if url == "" {
		return fmt.Errorf("%w (%s)", ErrMissingURL, r.Category)
	}
	return nil
}
