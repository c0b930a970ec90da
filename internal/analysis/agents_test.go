package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetrail/aiscan/internal/catalog"
)

func TestDiscoverAgentsFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "hooks"), 0755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "Agents.md"), []byte("Cursor does the boilerplate."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", ".agents.md"), []byte("notes"), 0644))
	// Anything under version-control metadata is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "hooks", "agents.md"), []byte("claude"), 0644))
	// Similar names that are not agent-description files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "agents.txt"), []byte("claude"), 0644))

	files, warnings := DiscoverAgentsFiles(root, catalog.Default())
	assert.Empty(t, warnings)
	require.Len(t, files, 2)

	paths := []string{files[0].Path, files[1].Path}
	assert.Contains(t, paths, "Agents.md")
	assert.Contains(t, paths, filepath.Join("docs", ".agents.md"))

	for _, f := range files {
		if f.Path == "Agents.md" {
			assert.Equal(t, []string{"Cursor"}, f.ToolsMentioned)
		}
	}
}

func TestDiscoverAgentsFilesEmptyTree(t *testing.T) {
	files, warnings := DiscoverAgentsFiles(t.TempDir(), catalog.Default())
	assert.Empty(t, files)
	assert.Empty(t, warnings)
}
