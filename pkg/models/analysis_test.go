package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  ConfidenceLevel
	}{
		{"zero is none", 0, ConfidenceNone},
		{"negative is none", -0.1, ConfidenceNone},
		{"barely positive is low", 0.01, ConfidenceLow},
		{"just under medium", 0.39, ConfidenceLow},
		{"medium boundary", 0.4, ConfidenceMedium},
		{"just under high", 0.69, ConfidenceMedium},
		{"high boundary", 0.7, ConfidenceHigh},
		{"clamped max", 1.0, ConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForScore(tt.score))
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		part, total int
		want        float64
	}{
		{"zero total", 3, 0, 0},
		{"zero part", 0, 10, 0},
		{"simple half", 5, 10, 50},
		{"rounds to two decimals", 1, 3, 33.33},
		{"rounds up", 2, 3, 66.67},
		{"full", 7, 7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percent(tt.part, tt.total), 1e-9)
		})
	}
}

func TestRound3(t *testing.T) {
	assert.InDelta(t, 0.333, Round3(1.0/3.0), 1e-9)
	assert.InDelta(t, 0.667, Round3(2.0/3.0), 1e-9)
	assert.InDelta(t, -0.125, Round3(-0.1254), 1e-9)
	assert.InDelta(t, 0.0, Round3(0), 1e-9)
}

func TestRepoAnalysisJSONRoundTrip(t *testing.T) {
	first := time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)
	in := RepoAnalysis{
		RepoName:          "widget",
		Branch:            "main",
		TotalCommits:      12,
		AIAssistedCommits: 4,
		AIPercentage:      33.33,
		AverageConfidence: 0.52,
		ToolsDetected:     []string{"Claude", "GitHub Copilot"},
		AgentsFiles: []AgentsFileInfo{{
			Path:           "CLAUDE.md",
			ToolsMentioned: []string{"Claude"},
		}},
		Detections: []Detection{{
			CommitHash:      "abc123",
			Author:          "Ada",
			AuthorEmail:     "ada@example.com",
			Date:            first,
			ConfidenceScore: 0.85,
			ConfidenceLevel: ConfidenceHigh,
			ToolsDetected:   []string{"Claude"},
		}},
		AuthorStats: []AuthorStats{{
			Name:              "Ada",
			Email:             "ada@example.com",
			TotalCommits:      12,
			AIAssistedCommits: 4,
			AIPercentage:      33.33,
			ToolsUsed:         []string{"Claude"},
			FirstAICommit:     &first,
			LastAICommit:      &first,
		}},
		Warnings: []string{"shallow clone detected"},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out RepoAnalysis
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMultiRepoAnalysisJSONRoundTrip(t *testing.T) {
	in := MultiRepoAnalysis{
		TotalRepos:          3,
		SkippedRepos:        1,
		TotalCommits:        40,
		TotalAICommits:      10,
		OverallAIPercentage: 25,
		Failures:            []RepoFailure{{RepoName: "gone", Error: "clone failed"}},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out MultiRepoAnalysis
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
