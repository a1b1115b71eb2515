package playlist

import (
	"fmt"
	"strings"
)

// Unit is an ordered (metadata, URL) pair produced by the tokenizer
type Unit struct {
	Directive Directive
	URL       string
	Line      int // 1-based line number of the directive line
}

// LineError records a non-fatal problem tied to a source line
type LineError struct {
	Line    int
	Message string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// tokenizerState is the state of the two-state tokenizer machine
type tokenizerState int

const (
	// awaitingDirective means no metadata is pending; URL lines are stray
	awaitingDirective tokenizerState = iota
	// awaitingURL means a parsed directive is pending consumption
	awaitingURL
)

// Tokenize splits raw playlist text into ordered units plus line-indexed
// errors. It never fails: malformed lines degrade to recorded errors while
// processing continues.
//
// The machine alternates between awaiting-directive and awaiting-url. A
// second #EXTINF line arriving before a URL silently overwrites the
// unconsumed pending directive, matching how M3U consumers in the wild
// treat orphaned metadata.
func Tokenize(text string) ([]Unit, []LineError) {
	var units []Unit
	var errs []LineError

	state := awaitingDirective
	var pending Directive
	var pendingLine int

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		switch {
		case line == "":
			// Blank lines are ignored in any state

		case strings.HasPrefix(line, DirectivePrefix):
			directive, err := ParseExtinf(line)
			if err != nil {
				errs = append(errs, LineError{Line: lineNo, Message: "invalid directive format"})
				continue
			}
			pending = directive
			pendingLine = lineNo
			state = awaitingURL

		case strings.HasPrefix(line, "#"):
			// Header and comment lines (#EXTM3U, #EXTVLCOPT, ...) are ignored

		default:
			// Stream URL line
			if state != awaitingURL {
				errs = append(errs, LineError{Line: lineNo, Message: "URL without metadata"})
				continue
			}
			units = append(units, Unit{Directive: pending, URL: line, Line: pendingLine})
			pending = Directive{}
			state = awaitingDirective
		}
	}

	return units, errs
}
