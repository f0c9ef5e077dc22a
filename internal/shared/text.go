package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	punctPattern   = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	spacePattern   = regexp.MustCompile(`\s+`)
	artistSplitter = regexp.MustCompile(`(?i)[,/&]| feat\.| ft\.`)
)

// Normalize lowercases text and strips every character that is not a word
// character or whitespace. "Hello, World!" becomes "hello world".
func Normalize(text string) string {
	return punctPattern.ReplaceAllString(strings.ToLower(text), "")
}

// SanitizeTerm strips punctuation from a query term while preserving case.
func SanitizeTerm(text string) string {
	return punctPattern.ReplaceAllString(text, "")
}

// CollapseSpaces trims a string and folds runs of whitespace into single spaces.
func CollapseSpaces(text string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// PrimaryArtist extracts the first artist from a multi-artist field,
// splitting on commas, slashes, ampersands and featuring markers.
func PrimaryArtist(raw string) string {
	return strings.TrimSpace(artistSplitter.Split(raw, 2)[0])
}

// ContainsKeywordsInOrder reports whether every keyword appears in the
// normalized candidate title, each match starting at or after the end of the
// previous one. This is loose order-preserving containment, not phrase
// matching: keywords may be substrings of larger words.
func ContainsKeywordsInOrder(candidateTitle string, keywords []string) bool {
	txt := Normalize(candidateTitle)
	pos := 0
	for _, kw := range keywords {
		idx := strings.Index(txt[pos:], kw)
		if idx < 0 {
			return false
		}
		pos += idx + len(kw)
	}
	return true
}

// TitleKeywords returns up to the first five normalized words of a title,
// the prefix tier-2 matching compares against.
func TitleKeywords(title string) []string {
	words := strings.Fields(Normalize(title))
	if len(words) > 5 {
		words = words[:5]
	}
	return words
}

// FormatETA renders a remaining-time estimate the way a playlist progress
// line displays it, truncated to whole seconds.
func FormatETA(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDuration renders a track duration in seconds as M:SS or H:MM:SS.
func FormatDuration(seconds int) string {
	return FormatETA(time.Duration(seconds) * time.Second)
}
