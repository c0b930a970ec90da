package analysis

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/codetrail/aiscan/internal/catalog"
	"github.com/codetrail/aiscan/internal/detect"
	"github.com/codetrail/aiscan/pkg/models"
)

// agentsFileNames are the agent-description file names, matched
// case-insensitively anywhere in the working tree.
var agentsFileNames = map[string]bool{
	"agents.md":  true,
	"agent.md":   true,
	".agents.md": true,
}

// DiscoverAgentsFiles walks the working tree looking for agent-description
// documents, skipping version-control metadata. Unreadable files are
// skipped and reported as warnings rather than failing the walk.
func DiscoverAgentsFiles(root string, cat *catalog.Catalog) ([]models.AgentsFileInfo, []string) {
	var files []models.AgentsFileInfo
	var warnings []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !agentsFileNames[strings.ToLower(d.Name())] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("unreadable agents file %s: %v", path, err))
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}

		kept, tools := detect.ScanAgentsContent(cat, string(content))
		files = append(files, models.AgentsFileInfo{
			Path:           relPath,
			Content:        kept,
			ToolsMentioned: tools,
		})
		return nil
	})

	return files, warnings
}
