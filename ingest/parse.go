// Package ingest combines the transport and parsing layers into the
// playlist ingestion pipeline: fetch, tokenize, classify, build, sort.
package ingest

import (
	"sort"

	"github.com/alorle/m3u-ingest/domain"
	"github.com/alorle/m3u-ingest/metrics"
	"github.com/alorle/m3u-ingest/playlist"
)

// ParseResult is the outcome of parsing one playlist text
type ParseResult struct {
	// Channels sorted by ordinal ascending; entries without an ordinal
	// come last, ties keep input order
	Channels []domain.Channel

	// Movies sorted by title ascending (case-sensitive)
	Movies []domain.Movie

	// Errors as "line N: ..." strings in source line order. Errors from
	// some lines never discard entities built from other lines.
	Errors []string
}

// Parse turns raw playlist text into sorted channels, movies and the
// accumulated per-line errors. It is pure and deterministic: no I/O, no
// shared state, so concurrent calls are independent.
func Parse(text string) ParseResult {
	units, lineErrors := playlist.Tokenize(text)

	problems := make([]playlist.LineError, 0, len(lineErrors))
	for _, e := range lineErrors {
		problems = append(problems, e)
		metrics.RecordParseError("format")
	}

	var channels []domain.Channel
	var movies []domain.Movie

	for _, unit := range units {
		record, err := domain.BuildRecord(unit.Directive, unit.URL)
		if err != nil {
			problems = append(problems, playlist.LineError{Line: unit.Line, Message: err.Error()})
			metrics.RecordParseError("validation")
			metrics.RecordEntityDropped(err.Error())
			continue
		}

		switch record.Category {
		case domain.CategoryChannel:
			channels = append(channels, *record.Channel)
		case domain.CategoryMovie:
			movies = append(movies, *record.Movie)
		}
		metrics.RecordEntityBuilt(record.Category.String())
	}

	sortChannels(channels)
	sortMovies(movies)

	// Interleave tokenizer and validation errors back into line order
	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Line < problems[j].Line
	})

	errs := make([]string, 0, len(problems))
	for _, p := range problems {
		errs = append(errs, p.Error())
	}

	return ParseResult{Channels: channels, Movies: movies, Errors: errs}
}

// sortChannels orders by ordinal ascending with missing ordinals last;
// the stable sort keeps input order on ties
func sortChannels(channels []domain.Channel) {
	sort.SliceStable(channels, func(i, j int) bool {
		oi, oj := channels[i].Ordinal, channels[j].Ordinal
		switch {
		case oi == nil:
			return false
		case oj == nil:
			return true
		default:
			return *oi < *oj
		}
	})
}

func sortMovies(movies []domain.Movie) {
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].Title < movies[j].Title
	})
}
