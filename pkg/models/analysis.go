package models

import (
	"math"
	"time"
)

// ConfidenceLevel is the discrete bucket derived from a confidence score.
type ConfidenceLevel string

const (
	ConfidenceNone   ConfidenceLevel = "none"
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// LevelForScore maps a confidence score to its discrete level.
// Thresholds are exact: >=0.7 high, >=0.4 medium, >0 low, else none.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 0.7:
		return ConfidenceHigh
	case score >= 0.4:
		return ConfidenceMedium
	case score > 0:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// Signal is one named observation that contributed to a detection's score.
type Signal struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`  // 0..1
	Weight float64 `json:"weight"` // >=0
	Reason string  `json:"reason"`
	Source string  `json:"source"` // which scanner produced it
}

// Detection is the per-commit record of matched AI-usage evidence.
// Immutable after creation; owned by the RepoAnalysis that produced it.
type Detection struct {
	CommitHash      string          `json:"commit_hash"`
	Author          string          `json:"author"`
	AuthorEmail     string          `json:"author_email"`
	Date            time.Time       `json:"date"`
	Message         string          `json:"message"` // truncated to 500 chars
	ToolsDetected   []string        `json:"tools_detected"`
	PatternsMatched []string        `json:"patterns_matched"`
	Signals         []Signal        `json:"signals"`
	ConfidenceScore float64         `json:"confidence_score"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	FilesChanged    int             `json:"files_changed"`
	LinesAdded      int             `json:"lines_added"`
	LinesDeleted    int             `json:"lines_deleted"`
}

// AgentsFileInfo describes one agent-description file found in a working tree.
type AgentsFileInfo struct {
	Path           string   `json:"path"`
	Content        string   `json:"content"` // capped at 5000 chars
	ToolsMentioned []string `json:"tools_mentioned"`
}

// AuthorStats is a per-author rollup, recomputed from detections at the end
// of a walk.
type AuthorStats struct {
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	TotalCommits      int        `json:"total_commits"`
	AIAssistedCommits int        `json:"ai_assisted_commits"`
	AIPercentage      float64    `json:"ai_percentage"`
	ToolsUsed         []string   `json:"tools_used"`
	FirstAICommit     *time.Time `json:"first_ai_commit,omitempty"`
	LastAICommit      *time.Time `json:"last_ai_commit,omitempty"`
}

// ToolStats is a per-tool rollup.
type ToolStats struct {
	Name        string     `json:"name"`
	CommitCount int        `json:"commit_count"`
	AuthorCount int        `json:"author_count"`
	FirstSeen   *time.Time `json:"first_seen,omitempty"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
}

// TimelineEntry covers one calendar month, keyed YYYY-MM.
type TimelineEntry struct {
	Date         string         `json:"date"`
	TotalCommits int            `json:"total_commits"`
	AICommits    int            `json:"ai_commits"`
	AIPercentage float64        `json:"ai_percentage"`
	Tools        map[string]int `json:"tools"`
}

// RepoAnalysis is the complete result for one repository walk.
type RepoAnalysis struct {
	RepoName   string     `json:"repo_name"`
	RepoPath   string     `json:"repo_path"`
	Branch     string     `json:"branch"`
	AnalyzedAt time.Time  `json:"analyzed_at"`
	SinceDate  *time.Time `json:"since_date,omitempty"`
	UntilDate  *time.Time `json:"until_date,omitempty"`

	TotalCommits      int      `json:"total_commits"`
	AIAssistedCommits int      `json:"ai_assisted_commits"`
	AIPercentage      float64  `json:"ai_percentage"`
	TotalAuthors      int      `json:"total_authors"`
	AIAuthors         int      `json:"ai_authors"`
	ToolsDetected     []string `json:"tools_detected"`

	Detections  []Detection      `json:"detections"`
	AgentsFiles []AgentsFileInfo `json:"agents_files"`
	AuthorStats []AuthorStats    `json:"author_stats"`
	ToolStats   []ToolStats      `json:"tool_stats"`
	Timeline    []TimelineEntry  `json:"timeline"`

	HighConfidenceCount   int     `json:"high_confidence_count"`
	MediumConfidenceCount int     `json:"medium_confidence_count"`
	LowConfidenceCount    int     `json:"low_confidence_count"`
	AverageConfidence     float64 `json:"average_confidence"`

	// Warnings records non-fatal deviations during the walk, e.g. a
	// requested branch that could not be checked out.
	Warnings []string `json:"warnings,omitempty"`
}

// RepoFailure records one repository that could not be analyzed in a batch.
type RepoFailure struct {
	RepoName string `json:"repo_name"`
	Error    string `json:"error"`
}

// MultiRepoAnalysis aggregates results across repositories.
type MultiRepoAnalysis struct {
	AnalyzedAt time.Time      `json:"analyzed_at"`
	Repos      []RepoAnalysis `json:"repos"`

	TotalRepos          int      `json:"total_repos"`
	TotalCommits        int      `json:"total_commits"`
	TotalAICommits      int      `json:"total_ai_commits"`
	OverallAIPercentage float64  `json:"overall_ai_percentage"`
	AllToolsDetected    []string `json:"all_tools_detected"`
	AllAuthors          int      `json:"all_authors"`
	AIAuthors           int      `json:"ai_authors"`

	// Repositories that failed are skipped, never silently dropped.
	SkippedRepos int           `json:"skipped_repos"`
	Failures     []RepoFailure `json:"failures,omitempty"`
}

// Analysis is the closed union over single- and multi-repository results.
// Renderers and exporters switch on the concrete type; the sealed marker
// keeps the set of cases fixed at compile time.
type Analysis interface {
	isAnalysis()
}

func (*RepoAnalysis) isAnalysis()      {}
func (*MultiRepoAnalysis) isAnalysis() {}

// Percent returns part/total*100 rounded to two decimals, and 0 when total
// is zero.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}

// Round3 rounds to three decimals; used for average confidence.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
