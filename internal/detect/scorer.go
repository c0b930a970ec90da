package detect

import (
	"github.com/codetrail/aiscan/internal/catalog"
	"github.com/codetrail/aiscan/pkg/models"
)

// Score combines matched signals, repository context, and diff-size
// heuristics into a clamped confidence score and its discrete level.
//
// A commit with zero generic-pattern hits is never flagged, even when a
// tool name matched through the tool table: detect first, then attribute.
func Score(cat *catalog.Catalog, patterns, tools []string, hasAgentsFile bool, linesAdded, linesDeleted int) (float64, models.ConfidenceLevel) {
	if len(patterns) == 0 {
		return 0.0, models.ConfidenceNone
	}

	score := 0.0

	// Tool signatures carry the strongest evidence. No per-tool cap: a
	// commit naming two tools accumulates both halves.
	for _, tool := range tools {
		if w, ok := cat.ToolWeight(tool); ok {
			score += w * 0.5
		}
	}

	// Generic indicators that name a low-confidence category add a smaller
	// share, once per category.
	for _, id := range patterns {
		if w, ok := cat.CategoryWeight(id); ok {
			score += w * 0.3
		}
	}

	// Repository-wide context signal.
	if hasAgentsFile {
		score += 0.1
	}

	// Large unilateral additions correlate with generated code.
	if linesAdded > 100 && linesDeleted < 10 {
		score += 0.05
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}

	return score, models.LevelForScore(score)
}
