package match

import (
	"math"
	"strings"

	"github.com/desertthunder/trackdown/internal/shared"
)

// Score ranks a deep-tier candidate against the expected title. A candidate
// whose normalized title starts with the normalized expected title scores
// 100, anything else 80; the absolute duration delta in seconds is then
// subtracted when the source duration is known. Callers compare with a
// strict greater-than scan so earlier candidates win ties.
func Score(candidateTitle, expectedTitle string, durationDelta float64, durationKnown bool) float64 {
	score := 80.0
	if strings.HasPrefix(shared.Normalize(candidateTitle), shared.Normalize(expectedTitle)) {
		score = 100.0
	}
	if durationKnown {
		score -= math.Abs(durationDelta)
	}
	return score
}
