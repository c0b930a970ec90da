// Package baseline stores point-in-time snapshots of repository analyses
// so later runs can be compared against them.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/codetrail/aiscan/pkg/models"
)

// Snapshot captures the comparable portion of a repository analysis.
type Snapshot struct {
	Name              string    `json:"name"`
	CreatedAt         time.Time `json:"created_at"`
	RepoName          string    `json:"repo_name"`
	Branch            string    `json:"branch"`
	TotalCommits      int       `json:"total_commits"`
	AIAssistedCommits int       `json:"ai_assisted_commits"`
	AIPercentage      float64   `json:"ai_percentage"`
	AverageConfidence float64   `json:"average_confidence"`
	ToolsDetected     []string  `json:"tools_detected"`
}

// Delta is the difference between a stored snapshot and a fresh analysis.
type Delta struct {
	Baseline          Snapshot `json:"baseline"`
	CommitsDelta      int      `json:"commits_delta"`
	AICommitsDelta    int      `json:"ai_commits_delta"`
	AIPercentageDelta float64  `json:"ai_percentage_delta"`
	NewTools          []string `json:"new_tools,omitempty"`
	DroppedTools      []string `json:"dropped_tools,omitempty"`
}

// Store reads and writes snapshots in a directory, one JSON file each.
type Store struct {
	dir string
}

// NewStore opens a snapshot store at dir; empty means ~/.aiscan/baselines.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".aiscan", "baselines")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create baseline directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Capture builds a snapshot from an analysis result.
func Capture(name string, r *models.RepoAnalysis) Snapshot {
	return Snapshot{
		Name:              name,
		CreatedAt:         time.Now(),
		RepoName:          r.RepoName,
		Branch:            r.Branch,
		TotalCommits:      r.TotalCommits,
		AIAssistedCommits: r.AIAssistedCommits,
		AIPercentage:      r.AIPercentage,
		AverageConfidence: r.AverageConfidence,
		ToolsDetected:     r.ToolsDetected,
	}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, sanitize(name)+".json")
}

// sanitize keeps snapshot names filesystem-safe.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}

// Save persists a snapshot, overwriting any previous one of the same name.
func (s *Store) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path(snap.Name), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot by name.
func (s *Store) Load(name string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("baseline %q not found", name)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %q: %w", name, err)
	}
	return &snap, nil
}

// List returns stored snapshot names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a snapshot by name.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("baseline %q not found", name)
		}
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Compare diffs a fresh analysis against a stored snapshot.
func Compare(base Snapshot, current *models.RepoAnalysis) Delta {
	return Delta{
		Baseline:          base,
		CommitsDelta:      current.TotalCommits - base.TotalCommits,
		AICommitsDelta:    current.AIAssistedCommits - base.AIAssistedCommits,
		AIPercentageDelta: models.Round3(current.AIPercentage - base.AIPercentage),
		NewTools:          diffTools(current.ToolsDetected, base.ToolsDetected),
		DroppedTools:      diffTools(base.ToolsDetected, current.ToolsDetected),
	}
}

// diffTools returns members of a that are absent from b, sorted.
func diffTools(a, b []string) []string {
	seen := map[string]bool{}
	for _, t := range b {
		seen[t] = true
	}
	var out []string
	for _, t := range a {
		if !seen[t] {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
