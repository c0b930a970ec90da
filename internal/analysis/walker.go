// Package analysis walks repository history and folds per-commit
// detections into repository- and organization-level statistics.
package analysis

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/codetrail/aiscan/internal/catalog"
	"github.com/codetrail/aiscan/internal/detect"
	"github.com/codetrail/aiscan/internal/errs"
	"github.com/codetrail/aiscan/internal/gitrepo"
	"github.com/codetrail/aiscan/pkg/models"
)

const maxDetectionMessage = 500

// WalkOptions configures one repository walk.
type WalkOptions struct {
	// RepoPath is a local filesystem path or a remote URL.
	RepoPath string
	// Branch is checked out best-effort; on failure the walk continues on
	// the current branch and records a warning.
	Branch string
	// Since/Until bound the commit window when non-zero.
	Since time.Time
	Until time.Time
	// Token is embedded into HTTPS GitHub clone URLs for private repos.
	Token string
	// CloneTimeout bounds the remote fetch; zero means no extra deadline.
	CloneTimeout time.Duration
}

// Walker runs the detection pipeline over one repository's history.
type Walker struct {
	git gitrepo.Client
	cat *catalog.Catalog
}

// NewWalker creates a walker using the given git client and pattern
// catalog. The catalog is shared read-only; walkers are safe to run
// concurrently against different repositories.
func NewWalker(git gitrepo.Client, cat *catalog.Catalog) *Walker {
	return &Walker{git: git, cat: cat}
}

// Run opens the repository, iterates its history newest first, and
// assembles the complete RepoAnalysis. Any ephemeral clone directory is
// removed on every exit path.
func (w *Walker) Run(ctx context.Context, opts WalkOptions) (*models.RepoAnalysis, error) {
	localPath := opts.RepoPath
	var warnings []string

	if gitrepo.IsRemoteURL(opts.RepoPath) {
		tempDir, err := os.MkdirTemp("", "aiscan-*")
		if err != nil {
			return nil, errs.Wrap(errs.CloneFailure, err, "creating working area")
		}
		defer func() { _ = os.RemoveAll(tempDir) }()

		cloneCtx := ctx
		if opts.CloneTimeout > 0 {
			var cancel context.CancelFunc
			cloneCtx, cancel = context.WithTimeout(ctx, opts.CloneTimeout)
			defer cancel()
		}
		cloneURL := gitrepo.AuthenticatedURL(opts.RepoPath, opts.Token)
		if err := w.git.Clone(cloneCtx, cloneURL, tempDir); err != nil {
			return nil, errs.Wrap(errs.CloneFailure, err, "cloning %s", opts.RepoPath)
		}
		localPath = tempDir
	} else if !w.git.IsRepository(ctx, localPath) {
		return nil, errs.New(errs.InvalidRepository, "not a git repository: %s", localPath)
	}

	if opts.Branch != "" {
		if err := w.git.Checkout(ctx, localPath, opts.Branch); err != nil {
			// Deliberate leniency: an unresolvable branch does not abort
			// the walk, but the fallback is reported, never silent.
			warnings = append(warnings, fmt.Sprintf("branch %q not found, analyzing current branch", opts.Branch))
		}
	}

	branch, err := w.git.CurrentBranch(ctx, localPath)
	if err != nil {
		branch = "HEAD"
	}

	// Agent-description files are located once, before iterating: their
	// presence bonus is global to the repository.
	agentsFiles, agentsWarnings := DiscoverAgentsFiles(localPath, w.cat)
	warnings = append(warnings, agentsWarnings...)
	hasAgentsFile := len(agentsFiles) > 0

	commits, err := w.git.Log(ctx, localPath, opts.Since, opts.Until)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidRepository, err, "reading history of %s", opts.RepoPath)
	}

	acc := newAccumulator()
	for _, commit := range commits {
		// Cancellation is observed between commits so one huge repository
		// can be aborted promptly.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acc.fold(w.cat, commit, hasAgentsFile)
	}

	result := acc.finalize()
	result.RepoName = gitrepo.RepoName(opts.RepoPath)
	result.RepoPath = opts.RepoPath
	result.Branch = branch
	result.AnalyzedAt = time.Now()
	result.AgentsFiles = agentsFiles
	result.Warnings = warnings
	if !opts.Since.IsZero() {
		since := opts.Since
		result.SinceDate = &since
	}
	if !opts.Until.IsZero() {
		until := opts.Until
		result.UntilDate = &until
	}

	// Tools mentioned only in agent-description files still surface at the
	// repository level.
	result.ToolsDetected = unionSorted(result.ToolsDetected, agentsToolMentions(agentsFiles))

	return result, nil
}

// accumulator carries the running per-author, per-tool, and per-month
// state for one walk.
type accumulator struct {
	totalCommits int
	aiCommits    int

	commitsByAuthor   map[string]int
	aiCommitsByAuthor map[string]int
	toolsByAuthor     map[string]map[string]bool
	emailByAuthor     map[string]string
	firstAIByAuthor   map[string]time.Time
	lastAIByAuthor    map[string]time.Time

	timeline    map[string]*models.TimelineEntry
	toolDates   map[string][]time.Time
	allTools    map[string]bool
	detections  []models.Detection
	highCount   int
	mediumCount int
	lowCount    int
	totalScore  float64
}

func newAccumulator() *accumulator {
	return &accumulator{
		commitsByAuthor:   map[string]int{},
		aiCommitsByAuthor: map[string]int{},
		toolsByAuthor:     map[string]map[string]bool{},
		emailByAuthor:     map[string]string{},
		firstAIByAuthor:   map[string]time.Time{},
		lastAIByAuthor:    map[string]time.Time{},
		timeline:          map[string]*models.TimelineEntry{},
		toolDates:         map[string][]time.Time{},
		allTools:          map[string]bool{},
	}
}

func (a *accumulator) fold(cat *catalog.Catalog, commit gitrepo.Commit, hasAgentsFile bool) {
	a.totalCommits++
	a.commitsByAuthor[commit.Author]++
	if _, ok := a.emailByAuthor[commit.Author]; !ok {
		a.emailByAuthor[commit.Author] = commit.Email
	}

	monthKey := commit.When.Format("2006-01")
	entry, ok := a.timeline[monthKey]
	if !ok {
		entry = &models.TimelineEntry{Date: monthKey, Tools: map[string]int{}}
		a.timeline[monthKey] = entry
	}
	entry.TotalCommits++

	scan := detect.ScanMessage(cat, commit.Message)
	if !scan.Flagged() {
		return
	}

	a.aiCommits++
	a.aiCommitsByAuthor[commit.Author]++
	entry.AICommits++

	score, level := detect.Score(cat, scan.Patterns, scan.Tools, hasAgentsFile, commit.LinesAdded, commit.LinesDeleted)
	a.totalScore += score
	switch level {
	case models.ConfidenceHigh:
		a.highCount++
	case models.ConfidenceMedium:
		a.mediumCount++
	case models.ConfidenceLow:
		a.lowCount++
	}

	for _, tool := range scan.Tools {
		a.allTools[tool] = true
		entry.Tools[tool]++
		a.toolDates[tool] = append(a.toolDates[tool], commit.When)
		if a.toolsByAuthor[commit.Author] == nil {
			a.toolsByAuthor[commit.Author] = map[string]bool{}
		}
		a.toolsByAuthor[commit.Author][tool] = true
	}

	if first, ok := a.firstAIByAuthor[commit.Author]; !ok || commit.When.Before(first) {
		a.firstAIByAuthor[commit.Author] = commit.When
	}
	if last, ok := a.lastAIByAuthor[commit.Author]; !ok || commit.When.After(last) {
		a.lastAIByAuthor[commit.Author] = commit.When
	}

	a.detections = append(a.detections, buildDetection(commit, scan, score, level))
}

func buildDetection(commit gitrepo.Commit, scan detect.ScanResult, score float64, level models.ConfidenceLevel) models.Detection {
	message := detect.TruncateRunes(commit.Message, maxDetectionMessage)

	patternValue := float64(len(scan.Patterns)) * 0.3
	if patternValue > 1.0 {
		patternValue = 1.0
	}
	preview := scan.Patterns
	if len(preview) > 3 {
		preview = preview[:3]
	}
	signals := []models.Signal{{
		Name:   "pattern_match",
		Value:  patternValue,
		Weight: 1.0,
		Reason: fmt.Sprintf("matched patterns: %s", strings.Join(preview, ", ")),
		Source: "commit_message",
	}}
	if len(scan.Tools) > 0 {
		signals = append(signals, models.Signal{
			Name:   "tool_detected",
			Value:  0.8,
			Weight: 1.0,
			Reason: fmt.Sprintf("tools detected: %s", strings.Join(scan.Tools, ", ")),
			Source: "commit_message",
		})
	}

	return models.Detection{
		CommitHash:      commit.Hash,
		Author:          commit.Author,
		AuthorEmail:     commit.Email,
		Date:            commit.When,
		Message:         message,
		ToolsDetected:   scan.Tools,
		PatternsMatched: scan.Patterns,
		Signals:         signals,
		ConfidenceScore: score,
		ConfidenceLevel: level,
		FilesChanged:    commit.FilesChanged,
		LinesAdded:      commit.LinesAdded,
		LinesDeleted:    commit.LinesDeleted,
	}
}

func (a *accumulator) finalize() *models.RepoAnalysis {
	result := &models.RepoAnalysis{
		TotalCommits:          a.totalCommits,
		AIAssistedCommits:     a.aiCommits,
		AIPercentage:          models.Percent(a.aiCommits, a.totalCommits),
		TotalAuthors:          len(a.commitsByAuthor),
		AIAuthors:             len(a.aiCommitsByAuthor),
		ToolsDetected:         sortedKeys(a.allTools),
		Detections:            a.detections,
		HighConfidenceCount:   a.highCount,
		MediumConfidenceCount: a.mediumCount,
		LowConfidenceCount:    a.lowCount,
	}
	if a.aiCommits > 0 {
		result.AverageConfidence = models.Round3(a.totalScore / float64(a.aiCommits))
	}

	for author, total := range a.commitsByAuthor {
		stats := models.AuthorStats{
			Name:              author,
			Email:             a.emailByAuthor[author],
			TotalCommits:      total,
			AIAssistedCommits: a.aiCommitsByAuthor[author],
			AIPercentage:      models.Percent(a.aiCommitsByAuthor[author], total),
			ToolsUsed:         sortedKeys(a.toolsByAuthor[author]),
		}
		if first, ok := a.firstAIByAuthor[author]; ok {
			firstCopy, lastCopy := first, a.lastAIByAuthor[author]
			stats.FirstAICommit = &firstCopy
			stats.LastAICommit = &lastCopy
		}
		result.AuthorStats = append(result.AuthorStats, stats)
	}
	sort.Slice(result.AuthorStats, func(i, j int) bool {
		if result.AuthorStats[i].TotalCommits != result.AuthorStats[j].TotalCommits {
			return result.AuthorStats[i].TotalCommits > result.AuthorStats[j].TotalCommits
		}
		return result.AuthorStats[i].Name < result.AuthorStats[j].Name
	})

	for tool := range a.allTools {
		dates := a.toolDates[tool]
		authorCount := 0
		for _, tools := range a.toolsByAuthor {
			if tools[tool] {
				authorCount++
			}
		}
		stats := models.ToolStats{
			Name:        tool,
			CommitCount: len(dates),
			AuthorCount: authorCount,
		}
		if len(dates) > 0 {
			first, last := dates[0], dates[0]
			for _, d := range dates[1:] {
				if d.Before(first) {
					first = d
				}
				if d.After(last) {
					last = d
				}
			}
			stats.FirstSeen = &first
			stats.LastSeen = &last
		}
		result.ToolStats = append(result.ToolStats, stats)
	}
	sort.Slice(result.ToolStats, func(i, j int) bool {
		if result.ToolStats[i].CommitCount != result.ToolStats[j].CommitCount {
			return result.ToolStats[i].CommitCount > result.ToolStats[j].CommitCount
		}
		return result.ToolStats[i].Name < result.ToolStats[j].Name
	})

	for _, entry := range a.timeline {
		entry.AIPercentage = models.Percent(entry.AICommits, entry.TotalCommits)
		result.Timeline = append(result.Timeline, *entry)
	}
	sort.Slice(result.Timeline, func(i, j int) bool {
		return result.Timeline[i].Date < result.Timeline[j].Date
	})

	return result
}

func agentsToolMentions(files []models.AgentsFileInfo) []string {
	var tools []string
	for _, f := range files {
		tools = append(tools, f.ToolsMentioned...)
	}
	return tools
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unionSorted(lists ...[]string) []string {
	set := map[string]bool{}
	for _, list := range lists {
		for _, item := range list {
			set[item] = true
		}
	}
	return sortedKeys(set)
}
