// Package playlist splits raw M3U text into ordered (metadata, URL) units
// and parses EXTINF directive lines into structured metadata. Malformed
// input never aborts processing; it degrades to recorded per-line errors.
package playlist

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// DirectivePrefix marks an EXTINF metadata line
const DirectivePrefix = "#EXTINF:"

// ErrInvalidDirective is returned when a line does not match the minimal
// #EXTINF:<number> shape
var ErrInvalidDirective = errors.New("invalid directive format")

var (
	// Minimal shape: #EXTINF:<signed number> followed by the info segment
	extinfRegex = regexp.MustCompile(`^#EXTINF:\s*(-?\d+(?:\.\d+)?)(.*)$`)

	// key="value" attribute tokens. Values may not contain quotes; escaped
	// quotes are a known limitation of this grammar.
	attributeRegex = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9-]*)="([^"]*)"`)

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Directive holds the parsed content of an EXTINF line
type Directive struct {
	// Duration in seconds as declared by the directive. Zero or negative
	// conventionally denotes an unknown or live duration.
	Duration float64

	// Recognized attributes; empty when absent. When an attribute appears
	// more than once, the last occurrence wins.
	TvgID      string
	TvgName    string
	TvgLogo    string
	GroupTitle string

	// Title is the info segment with every recognized attribute token
	// removed and whitespace collapsed
	Title string
}

// ParseExtinf parses an EXTINF directive line.
// Returns ErrInvalidDirective when the line does not start with
// #EXTINF:<signed number>.
func ParseExtinf(line string) (Directive, error) {
	matches := extinfRegex.FindStringSubmatch(line)
	if matches == nil {
		return Directive{}, ErrInvalidDirective
	}

	duration, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return Directive{}, ErrInvalidDirective
	}

	info := matches[2]
	d := Directive{Duration: duration}

	// Order-independent linear scan; the last occurrence of a key wins
	for _, attr := range attributeRegex.FindAllStringSubmatch(info, -1) {
		key, value := attr[1], attr[2]
		switch strings.ToLower(key) {
		case "tvg-id":
			d.TvgID = value
		case "tvg-name":
			d.TvgName = value
		case "tvg-logo":
			d.TvgLogo = value
		case "group-title":
			d.GroupTitle = value
		}
	}

	d.Title = extractTitle(info)
	return d, nil
}

// recognizedKeys are the attribute keys stripped out of the title
var recognizedKeys = map[string]bool{
	"tvg-id":      true,
	"tvg-name":    true,
	"tvg-logo":    true,
	"group-title": true,
}

// extractTitle strips recognized attribute tokens and the metadata/title
// separator comma from the info segment, collapsing remaining whitespace
func extractTitle(info string) string {
	title := attributeRegex.ReplaceAllStringFunc(info, func(token string) string {
		key := strings.ToLower(token[:strings.Index(token, "=")])
		if recognizedKeys[key] {
			return ""
		}
		return token
	})
	title = strings.TrimSpace(title)
	title = strings.TrimPrefix(title, ",")
	title = whitespaceRegex.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}
