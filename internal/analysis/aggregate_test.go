package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codetrail/aiscan/internal/catalog"
	"github.com/codetrail/aiscan/internal/errs"
	"github.com/codetrail/aiscan/internal/gitrepo"
)

func batchTargets() []Target {
	return []Target{
		{Name: "alpha", CloneURL: "https://github.com/acme/alpha.git", DefaultBranch: "main"},
		{Name: "beta", CloneURL: "https://github.com/acme/beta.git", DefaultBranch: "main"},
		{Name: "gamma", CloneURL: "https://github.com/acme/gamma.git", DefaultBranch: "main"},
	}
}

// batchMock wires a mock git client where every clone succeeds except the
// named repository.
func batchMock(failing string) *gitrepo.MockClient {
	git := new(gitrepo.MockClient)
	git.On("Clone", mock.Anything, mock.MatchedBy(func(url string) bool {
		return failing != "" && gitrepo.RepoName(url) == failing
	}), mock.Anything).Return(errors.New("connection reset"))
	git.On("Clone", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	git.On("Checkout", mock.Anything, mock.Anything, "main").Return(nil)
	git.On("CurrentBranch", mock.Anything, mock.Anything).Return("main", nil)
	git.On("Log", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(testCommits(), nil)
	return git
}

func TestAnalyzeAllPartialFailure(t *testing.T) {
	walker := NewWalker(batchMock("beta"), catalog.Default())

	multi, err := walker.AnalyzeAll(context.Background(), batchTargets(), BatchOptions{Concurrency: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, multi.TotalRepos)
	assert.Equal(t, 1, multi.SkippedRepos)
	require.Len(t, multi.Failures, 1)
	assert.Equal(t, "beta", multi.Failures[0].RepoName)
	assert.Contains(t, multi.Failures[0].Error, "connection reset")

	// The two surviving walks each saw 10 commits, 3 flagged.
	assert.Equal(t, 20, multi.TotalCommits)
	assert.Equal(t, 6, multi.TotalAICommits)
	assert.Equal(t, 30.0, multi.OverallAIPercentage)
	assert.Equal(t, []string{"GitHub Copilot"}, multi.AllToolsDetected)
	assert.Equal(t, 2, multi.AllAuthors)
	assert.Equal(t, 1, multi.AIAuthors)
}

func TestAnalyzeAllAllFailed(t *testing.T) {
	git := new(gitrepo.MockClient)
	git.On("Clone", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("auth required"))

	walker := NewWalker(git, catalog.Default())
	multi, err := walker.AnalyzeAll(context.Background(), batchTargets(), BatchOptions{Concurrency: 2})
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.PartialBatchFailure))
	require.NotNil(t, multi)
	assert.Equal(t, 0, multi.TotalRepos)
	assert.Equal(t, 3, multi.SkippedRepos)
}

func TestAnalyzeAllProgressSerialized(t *testing.T) {
	walker := NewWalker(batchMock(""), catalog.Default())

	var mu sync.Mutex
	var seen []int
	multi, err := walker.AnalyzeAll(context.Background(), batchTargets(), BatchOptions{
		Concurrency: 3,
		OnProgress: func(completed, total int, current string) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			assert.NotEmpty(t, current)
			seen = append(seen, completed)
		},
	})
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, 3, multi.TotalRepos)

	// Results are stable regardless of completion order.
	names := make([]string, 0, len(multi.Repos))
	for _, r := range multi.Repos {
		names = append(names, r.RepoName)
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestAnalyzeAllCancelled(t *testing.T) {
	walker := NewWalker(batchMock(""), catalog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := walker.AnalyzeAll(ctx, batchTargets(), BatchOptions{Concurrency: 1})
	require.ErrorIs(t, err, context.Canceled)
}
