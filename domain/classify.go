package domain

import "strings"

// movieIndicators is the fixed vocabulary used to spot on-demand content.
// Matching is case-insensitive substring containment against the group
// attribute and the display title. This is a best-effort heuristic, not
// content verification; false classifications are expected and acceptable.
var movieIndicators = []string{
	"movie",
	"movies",
	"film",
	"films",
	"cinema",
	"vod",
	"on demand",
	"series",
	"tv shows",
	"shows",
}

// Classify decides whether a playlist unit is a live channel or an
// on-demand title from its group attribute and display title. Group and
// title are checked in that order, but the order does not affect the
// outcome.
func Classify(group, title string) Category {
	if containsIndicator(group) || containsIndicator(title) {
		return CategoryMovie
	}
	return CategoryChannel
}

func containsIndicator(s string) bool {
	if s == "" {
		return false
	}
	lowered := strings.ToLower(s)
	for _, indicator := range movieIndicators {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}
	return false
}
