// Package insights derives human-readable observations from analysis
// results: adoption trends, dominant tools, and author concentration.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codetrail/aiscan/pkg/models"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelNotable Level = "notable"
)

// Observation is one derived statement about a repository's AI usage.
type Observation struct {
	Level       Level  `json:"level"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// trendWindow is how many trailing timeline months the trend compares
// against the months before them.
const trendWindow = 3

// Generate derives observations from a single repository analysis.
func Generate(r *models.RepoAnalysis) []Observation {
	var obs []Observation

	if r.TotalCommits == 0 {
		return obs
	}

	if o, ok := adoptionTrend(r.Timeline); ok {
		obs = append(obs, o)
	}
	if o, ok := dominantTool(r.ToolStats); ok {
		obs = append(obs, o)
	}
	if o, ok := heavyAdopters(r.AuthorStats); ok {
		obs = append(obs, o)
	}
	if len(r.AgentsFiles) > 0 {
		obs = append(obs, Observation{
			Level:       LevelInfo,
			Category:    "agents-files",
			Description: fmt.Sprintf("%d agent instruction file(s) present in the working tree", len(r.AgentsFiles)),
		})
	}

	return obs
}

// adoptionTrend compares the AI share of the trailing months against the
// earlier months. The timeline arrives sorted ascending by month.
func adoptionTrend(timeline []models.TimelineEntry) (Observation, bool) {
	if len(timeline) < trendWindow+1 {
		return Observation{}, false
	}

	split := len(timeline) - trendWindow
	earlier := aiShare(timeline[:split])
	recent := aiShare(timeline[split:])

	switch {
	case recent >= earlier+10:
		return Observation{
			Level:       LevelNotable,
			Category:    "adoption-trend",
			Description: fmt.Sprintf("AI-assisted share rising: %.1f%% over the last %d months vs %.1f%% before", recent, trendWindow, earlier),
		}, true
	case earlier >= recent+10:
		return Observation{
			Level:       LevelNotable,
			Category:    "adoption-trend",
			Description: fmt.Sprintf("AI-assisted share falling: %.1f%% over the last %d months vs %.1f%% before", recent, trendWindow, earlier),
		}, true
	}
	return Observation{}, false
}

func aiShare(entries []models.TimelineEntry) float64 {
	total, ai := 0, 0
	for _, e := range entries {
		total += e.TotalCommits
		ai += e.AICommits
	}
	return models.Percent(ai, total)
}

// dominantTool reports when one tool accounts for the clear majority of
// tool-attributed commits.
func dominantTool(tools []models.ToolStats) (Observation, bool) {
	if len(tools) < 2 {
		return Observation{}, false
	}

	total := 0
	for _, t := range tools {
		total += t.CommitCount
	}
	if total == 0 {
		return Observation{}, false
	}

	// ToolStats arrive sorted by commit count descending.
	top := tools[0]
	share := models.Percent(top.CommitCount, total)
	if share < 60 {
		return Observation{}, false
	}
	return Observation{
		Level:       LevelInfo,
		Category:    "dominant-tool",
		Description: fmt.Sprintf("%s accounts for %.1f%% of tool-attributed commits", top.Name, share),
	}, true
}

// heavyAdopters names authors whose own AI share is at least double the
// repository average, with enough commits to matter.
func heavyAdopters(authors []models.AuthorStats) (Observation, bool) {
	totalCommits, aiCommits := 0, 0
	for _, a := range authors {
		totalCommits += a.TotalCommits
		aiCommits += a.AIAssistedCommits
	}
	if totalCommits == 0 || aiCommits == 0 {
		return Observation{}, false
	}
	repoShare := float64(aiCommits) / float64(totalCommits)

	var names []string
	for _, a := range authors {
		if a.TotalCommits < 5 {
			continue
		}
		share := float64(a.AIAssistedCommits) / float64(a.TotalCommits)
		if share > 0 && share >= 2*repoShare {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return Observation{}, false
	}
	sort.Strings(names)

	return Observation{
		Level:       LevelNotable,
		Category:    "heavy-adopters",
		Description: fmt.Sprintf("authors with at least twice the repository's AI share: %s", strings.Join(names, ", ")),
	}, true
}
