package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	ghclient "github.com/codetrail/aiscan/internal/github"
)

// Filter flags shared by org and team commands.
var (
	flagFilterName      string
	flagFilterLanguage  []string
	flagFilterUpdated   string
	flagFilterSkipForks bool
)

func registerFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFilterName, "filter-name", "", "Only analyze repositories whose name matches this regex")
	cmd.Flags().StringSliceVar(&flagFilterLanguage, "filter-language", nil, "Only analyze repositories with these primary languages")
	cmd.Flags().StringVar(&flagFilterUpdated, "filter-updated", "", "Only analyze repositories updated within this window (e.g. 90d, 720h)")
	cmd.Flags().BoolVar(&flagFilterSkipForks, "filter-skip-forks", false, "Skip forked repositories")
}

// parseDuration parses a duration string like "30d" or "720h"
func parseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		var days int
		_, err := fmt.Sscanf(daysStr, "%d", &days)
		if err != nil {
			return 0, fmt.Errorf("invalid day format: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// RepoFilter applies filtering logic to repositories
type RepoFilter struct {
	NamePattern   *regexp.Regexp
	Languages     []string
	UpdatedWithin time.Duration
	SkipForks     bool
}

// NewRepoFilter creates a filter from CLI flags
func NewRepoFilter() (*RepoFilter, error) {
	filter := &RepoFilter{
		Languages: flagFilterLanguage,
		SkipForks: flagFilterSkipForks,
	}

	if flagFilterName != "" {
		pattern, err := regexp.Compile(flagFilterName)
		if err != nil {
			return nil, err
		}
		filter.NamePattern = pattern
	}

	if flagFilterUpdated != "" {
		duration, err := parseDuration(flagFilterUpdated)
		if err != nil {
			return nil, err
		}
		filter.UpdatedWithin = duration
	}

	return filter, nil
}

// Matches returns true if the repository passes all filter criteria.
// Archived repositories never match.
func (f *RepoFilter) Matches(repo ghclient.Repo) bool {
	if repo.Archived {
		return false
	}

	if f.SkipForks && repo.Fork {
		return false
	}

	if f.NamePattern != nil && !f.NamePattern.MatchString(repo.Name) {
		return false
	}

	if len(f.Languages) > 0 && !f.matchesLanguage(repo.Language) {
		return false
	}

	if f.UpdatedWithin > 0 && repo.UpdatedAt.Before(time.Now().Add(-f.UpdatedWithin)) {
		return false
	}

	return true
}

func (f *RepoFilter) matchesLanguage(lang string) bool {
	for _, want := range f.Languages {
		if strings.EqualFold(want, lang) {
			return true
		}
	}
	return false
}

// FilterStats tracks filtering statistics
type FilterStats struct {
	Total        int
	Archived     int
	Forks        int
	NameFiltered int
	LangFiltered int
	DateFiltered int
	Passed       int
}

// FilterRepositories applies filters and returns surviving repositories
// with statistics.
func FilterRepositories(repos []ghclient.Repo, filter *RepoFilter) ([]ghclient.Repo, *FilterStats) {
	stats := &FilterStats{
		Total: len(repos),
	}

	var kept []ghclient.Repo

	for _, r := range repos {
		if r.Archived {
			stats.Archived++
			continue
		}

		if r.Fork {
			stats.Forks++
			if filter.SkipForks {
				continue
			}
		}

		if filter.NamePattern != nil && !filter.NamePattern.MatchString(r.Name) {
			stats.NameFiltered++
			continue
		}

		if len(filter.Languages) > 0 && !filter.matchesLanguage(r.Language) {
			stats.LangFiltered++
			continue
		}

		if filter.UpdatedWithin > 0 && r.UpdatedAt.Before(time.Now().Add(-filter.UpdatedWithin)) {
			stats.DateFiltered++
			continue
		}

		stats.Passed++
		kept = append(kept, r)
	}

	return kept, stats
}
