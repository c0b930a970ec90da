package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/codetrail/aiscan/internal/errs"
	"github.com/codetrail/aiscan/pkg/models"
)

// Target names one repository in a batch.
type Target struct {
	Name          string
	CloneURL      string
	DefaultBranch string
}

// Progress is invoked as repositories complete. Calls are serialized; no
// locking is needed in the callback.
type Progress func(completed, total int, current string)

// BatchOptions configures a multi-repository run.
type BatchOptions struct {
	Branch       string
	Since        time.Time
	Until        time.Time
	Token        string
	CloneTimeout time.Duration
	// Concurrency bounds simultaneous walks; clones are disk- and
	// network-heavy, so keep this modest. Values below 1 mean 1.
	Concurrency int
	OnProgress  Progress
}

// AnalyzeAll walks every target and merges the results. One repository's
// failure is recorded and skipped, never fatal to its siblings; only a
// batch where every repository failed returns an error.
func (w *Walker) AnalyzeAll(ctx context.Context, targets []Target, opts BatchOptions) (*models.MultiRepoAnalysis, error) {
	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		results   []models.RepoAnalysis
		failures  []models.RepoFailure
		completed int
	)

	for _, target := range targets {
		wg.Add(1)
		go func(target Target) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			branch := opts.Branch
			if branch == "" {
				branch = target.DefaultBranch
			}

			result, err := w.Run(ctx, WalkOptions{
				RepoPath:     target.CloneURL,
				Branch:       branch,
				Since:        opts.Since,
				Until:        opts.Until,
				Token:        opts.Token,
				CloneTimeout: opts.CloneTimeout,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, models.RepoFailure{RepoName: target.Name, Error: err.Error()})
			} else {
				results = append(results, *result)
			}
			completed++
			if opts.OnProgress != nil {
				opts.OnProgress(completed, len(targets), target.Name)
			}
		}(target)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	multi := mergeResults(results, failures)
	if len(targets) > 0 && len(results) == 0 {
		return multi, errs.New(errs.PartialBatchFailure, "all %d repositories failed to analyze", len(targets))
	}
	return multi, nil
}

func mergeResults(results []models.RepoAnalysis, failures []models.RepoFailure) *models.MultiRepoAnalysis {
	// Fan-in order is nondeterministic; keep the final list stable.
	sort.Slice(results, func(i, j int) bool {
		return results[i].RepoName < results[j].RepoName
	})
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].RepoName < failures[j].RepoName
	})

	allTools := map[string]bool{}
	allAuthors := map[string]bool{}
	aiAuthors := map[string]bool{}
	totalCommits := 0
	totalAICommits := 0

	for _, r := range results {
		totalCommits += r.TotalCommits
		totalAICommits += r.AIAssistedCommits
		for _, tool := range r.ToolsDetected {
			allTools[tool] = true
		}
		for _, author := range r.AuthorStats {
			allAuthors[author.Name] = true
			if author.AIAssistedCommits > 0 {
				aiAuthors[author.Name] = true
			}
		}
	}

	return &models.MultiRepoAnalysis{
		AnalyzedAt:          time.Now(),
		Repos:               results,
		TotalRepos:          len(results),
		TotalCommits:        totalCommits,
		TotalAICommits:      totalAICommits,
		OverallAIPercentage: models.Percent(totalAICommits, totalCommits),
		AllToolsDetected:    sortedKeys(allTools),
		AllAuthors:          len(allAuthors),
		AIAuthors:           len(aiAuthors),
		SkippedRepos:        len(failures),
		Failures:            failures,
	}
}
