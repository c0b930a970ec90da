package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetrail/aiscan/pkg/models"
)

func sampleAnalysis() *models.RepoAnalysis {
	return &models.RepoAnalysis{
		RepoName:          "widget",
		Branch:            "main",
		TotalCommits:      100,
		AIAssistedCommits: 20,
		AIPercentage:      20.0,
		AverageConfidence: 0.45,
		ToolsDetected:     []string{"GitHub Copilot"},
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snap := Capture("q1", sampleAnalysis())
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load("q1")
	require.NoError(t, err)
	assert.Equal(t, "q1", loaded.Name)
	assert.Equal(t, "widget", loaded.RepoName)
	assert.Equal(t, 100, loaded.TotalCommits)
	assert.Equal(t, 20.0, loaded.AIPercentage)
	assert.Equal(t, []string{"GitHub Copilot"}, loaded.ToolsDetected)
}

func TestStoreLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope" not found`)
}

func TestStoreListAndDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(Capture("beta", sampleAnalysis())))
	require.NoError(t, store.Save(Capture("alpha", sampleAnalysis())))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	require.NoError(t, store.Delete("alpha"))
	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, names)
}

func TestSanitizedNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snap := Capture("release/2024 q1", sampleAnalysis())
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load("release/2024 q1")
	require.NoError(t, err)
	assert.Equal(t, "release/2024 q1", loaded.Name)
}

func TestCompare(t *testing.T) {
	base := Capture("before", sampleAnalysis())

	current := sampleAnalysis()
	current.TotalCommits = 150
	current.AIAssistedCommits = 45
	current.AIPercentage = 30.0
	current.ToolsDetected = []string{"Claude", "GitHub Copilot"}

	delta := Compare(base, current)
	assert.Equal(t, 50, delta.CommitsDelta)
	assert.Equal(t, 25, delta.AICommitsDelta)
	assert.Equal(t, 10.0, delta.AIPercentageDelta)
	assert.Equal(t, []string{"Claude"}, delta.NewTools)
	assert.Empty(t, delta.DroppedTools)
}
