package playlist

import (
	"errors"
	"testing"
)

func TestParseExtinf_MinimalDirective(t *testing.T) {
	d, err := ParseExtinf("#EXTINF:-1,CNN International")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if d.Duration != -1 {
		t.Errorf("Expected duration -1, got %v", d.Duration)
	}
	if d.Title != "CNN International" {
		t.Errorf("Expected title %q, got %q", "CNN International", d.Title)
	}
}

func TestParseExtinf_Attributes(t *testing.T) {
	line := `#EXTINF:-1 tvg-id="espn.us" tvg-name="ESPN" tvg-logo="http://logo/espn.png" group-title="Sports",101. ESPN`

	d, err := ParseExtinf(line)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if d.TvgID != "espn.us" {
		t.Errorf("Expected tvg-id %q, got %q", "espn.us", d.TvgID)
	}
	if d.TvgName != "ESPN" {
		t.Errorf("Expected tvg-name %q, got %q", "ESPN", d.TvgName)
	}
	if d.TvgLogo != "http://logo/espn.png" {
		t.Errorf("Expected tvg-logo %q, got %q", "http://logo/espn.png", d.TvgLogo)
	}
	if d.GroupTitle != "Sports" {
		t.Errorf("Expected group-title %q, got %q", "Sports", d.GroupTitle)
	}
	if d.Title != "101. ESPN" {
		t.Errorf("Expected title %q, got %q", "101. ESPN", d.Title)
	}
}

func TestParseExtinf_AttributeOrderIndependent(t *testing.T) {
	a, err := ParseExtinf(`#EXTINF:-1 tvg-id="a" group-title="News",BBC`)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	b, err := ParseExtinf(`#EXTINF:-1 group-title="News" tvg-id="a",BBC`)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if a != b {
		t.Errorf("Expected order-independent parse, got %+v vs %+v", a, b)
	}
}

func TestParseExtinf_DuplicateAttributeLastWins(t *testing.T) {
	d, err := ParseExtinf(`#EXTINF:-1 tvg-id="first" tvg-id="second",Channel`)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if d.TvgID != "second" {
		t.Errorf("Expected last occurrence to win, got tvg-id %q", d.TvgID)
	}
}

func TestParseExtinf_PositiveDuration(t *testing.T) {
	d, err := ParseExtinf(`#EXTINF:5400 group-title="Movies",Heat (1995)`)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if d.Duration != 5400 {
		t.Errorf("Expected duration 5400, got %v", d.Duration)
	}
	if d.Title != "Heat (1995)" {
		t.Errorf("Expected title %q, got %q", "Heat (1995)", d.Title)
	}
}

func TestParseExtinf_FractionalDuration(t *testing.T) {
	d, err := ParseExtinf("#EXTINF:10.5,Clip")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if d.Duration != 10.5 {
		t.Errorf("Expected duration 10.5, got %v", d.Duration)
	}
}

func TestParseExtinf_UnrecognizedAttributeKeptInTitle(t *testing.T) {
	d, err := ParseExtinf(`#EXTINF:-1 tvg-country="US" tvg-id="cnn.us",CNN`)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Only recognized tokens are stripped from the title
	if d.Title != `tvg-country="US" ,CNN` {
		t.Errorf("Expected unrecognized token kept, got title %q", d.Title)
	}
	if d.TvgID != "cnn.us" {
		t.Errorf("Expected tvg-id %q, got %q", "cnn.us", d.TvgID)
	}
}

func TestParseExtinf_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"no number", "#EXTINF:invalid line"},
		{"missing payload", "#EXTINF:"},
		{"not a directive", "http://example.com/stream"},
		{"wrong prefix", "#EXTM3U"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseExtinf(tc.line)
			if !errors.Is(err, ErrInvalidDirective) {
				t.Errorf("Expected ErrInvalidDirective, got: %v", err)
			}
		})
	}
}

func TestParseExtinf_WhitespaceCollapsedInTitle(t *testing.T) {
	d, err := ParseExtinf(`#EXTINF:-1 tvg-logo="x"   ,  Some    Channel  `)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if d.Title != "Some Channel" {
		t.Errorf("Expected collapsed title %q, got %q", "Some Channel", d.Title)
	}
}
