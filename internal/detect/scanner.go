// Package detect turns commit text into matched signals and signals into a
// bounded confidence score. Everything here is pure: no shared mutable
// state, safe to run across commits in parallel.
package detect

import (
	"github.com/codetrail/aiscan/internal/catalog"
)

// MaxAgentsContent caps how much of an agent-description file is scanned
// and retained, bounding memory for pathological files.
const MaxAgentsContent = 5000

// ScanResult holds the raw pattern evidence for one commit message.
type ScanResult struct {
	Patterns []string // generic rule identifiers, catalog order
	Tools    []string // distinct canonical tool names, catalog order
}

// Flagged reports whether the commit carries any AI evidence at all.
func (r ScanResult) Flagged() bool {
	return len(r.Patterns) > 0 || len(r.Tools) > 0
}

// ScanMessage matches one commit's message text against the catalog.
func ScanMessage(cat *catalog.Catalog, message string) ScanResult {
	return ScanResult{
		Patterns: cat.MatchGeneric(message),
		Tools:    cat.MatchTools(message),
	}
}

// ScanAgentsContent extracts tool mentions from agent-description file
// content. The caller receives the possibly truncated content back so the
// retained record matches what was scanned.
func ScanAgentsContent(cat *catalog.Catalog, content string) (string, []string) {
	content = TruncateRunes(content, MaxAgentsContent)
	return content, cat.MatchTools(content)
}

// TruncateRunes caps s at n characters, never splitting a multi-byte rune.
func TruncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
