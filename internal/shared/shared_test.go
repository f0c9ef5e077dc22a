package shared

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "punctuation stripped and case folded",
			in:   "Hello, World!",
			want: "hello world",
		},
		{
			name: "parens and dashes",
			in:   "Song (Live) - 2004 Remaster",
			want: "song live  2004 remaster",
		},
		{
			name: "underscores survive",
			in:   "track_name",
			want: "track_name",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainsKeywordsInOrder(t *testing.T) {
	tc := []struct {
		name     string
		title    string
		keywords []string
		want     bool
	}{
		{
			name:     "in order",
			title:    "The Best Song Ever",
			keywords: []string{"the", "best", "song"},
			want:     true,
		},
		{
			name:     "out of order",
			title:    "Best The Song",
			keywords: []string{"the", "best"},
			want:     false,
		},
		{
			name:     "substring matches allowed",
			title:    "Weathered Bestiary",
			keywords: []string{"the", "best"},
			want:     true,
		},
		{
			name:     "missing keyword",
			title:    "The Song",
			keywords: []string{"the", "best"},
			want:     false,
		},
		{
			name:     "no keywords",
			title:    "Anything",
			keywords: nil,
			want:     true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsKeywordsInOrder(tt.title, tt.keywords); got != tt.want {
				t.Errorf("ContainsKeywordsInOrder(%q, %v) = %v, want %v", tt.title, tt.keywords, got, tt.want)
			}
		})
	}
}

func TestPrimaryArtist(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "single artist", in: "Radiohead", want: "Radiohead"},
		{name: "comma separated", in: "A, B, C", want: "A"},
		{name: "slash separated", in: "A/B", want: "A"},
		{name: "featuring", in: "A feat. B", want: "A"},
		{name: "ft dot", in: "A ft. B", want: "A"},
		{name: "ampersand", in: "A & B", want: "A"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryArtist(tt.in); got != tt.want {
				t.Errorf("PrimaryArtist(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleKeywords(t *testing.T) {
	got := TitleKeywords("One Two Three Four Five Six Seven")
	if len(got) != 5 || got[0] != "one" || got[4] != "five" {
		t.Errorf("TitleKeywords() = %v, want first five words", got)
	}

	if got := TitleKeywords(""); len(got) != 0 {
		t.Errorf("TitleKeywords(\"\") = %v, want empty", got)
	}
}

func TestFormatETA(t *testing.T) {
	tc := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "seconds only", in: 42 * time.Second, want: "0:42"},
		{name: "minutes", in: 3*time.Minute + 5*time.Second, want: "3:05"},
		{name: "hours", in: time.Hour + 2*time.Minute + 3*time.Second, want: "1:02:03"},
		{name: "subsecond truncated", in: 1500 * time.Millisecond, want: "0:01"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatETA(tt.in); got != tt.want {
				t.Errorf("FormatETA(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Search.DurationMin != 30 {
		t.Errorf("DurationMin = %d, want 30", cfg.Search.DurationMin)
	}
	if cfg.Search.DurationMax != 600 {
		t.Errorf("DurationMax = %d, want 600", cfg.Search.DurationMax)
	}
	if cfg.Output.TranscodeMP3 {
		t.Error("TranscodeMP3 should default to false")
	}
	if !cfg.Output.GenerateM3U {
		t.Error("GenerateM3U should default to true")
	}
	if cfg.Output.ExcludeInstrumentals {
		t.Error("ExcludeInstrumentals should default to false")
	}
	if len(cfg.Search.Variants) != 0 {
		t.Errorf("Variants should default to empty, got %v", cfg.Search.Variants)
	}
}
