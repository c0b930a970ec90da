package detect

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/codetrail/aiscan/internal/catalog"
)

func TestScanMessage(t *testing.T) {
	cat := catalog.Default()

	res := ScanMessage(cat, "feat: add retry logic\n\nCo-authored-by: Copilot <copilot@github.com>")
	assert.True(t, res.Flagged())
	assert.Contains(t, res.Patterns, "copilot")
	assert.Contains(t, res.Patterns, "copilot-coauthor")
	assert.Equal(t, []string{"GitHub Copilot"}, res.Tools)

	res = ScanMessage(cat, "fix: handle nil pointer in config loader")
	assert.False(t, res.Flagged())
	assert.Empty(t, res.Patterns)
	assert.Empty(t, res.Tools)
}

func TestScanAgentsContentTruncates(t *testing.T) {
	cat := catalog.Default()

	content := "We use Claude for reviews.\n" + strings.Repeat("x", MaxAgentsContent)
	kept, tools := ScanAgentsContent(cat, content)
	assert.Len(t, kept, MaxAgentsContent)
	assert.Equal(t, []string{"Claude"}, tools)

	// A mention past the cap is not scanned.
	content = strings.Repeat("x", MaxAgentsContent) + " cursor"
	_, tools = ScanAgentsContent(cat, content)
	assert.Empty(t, tools)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 10))
	assert.Equal(t, "abc", TruncateRunes("abcdef", 3))
	assert.Equal(t, "", TruncateRunes("abc", 0))

	// Multi-byte runes are kept whole, never split mid-sequence.
	s := strings.Repeat("é", 6)
	got := TruncateRunes(s, 4)
	assert.Equal(t, strings.Repeat("é", 4), got)
	assert.True(t, utf8.ValidString(got))
}

func TestScanAgentsContentRuneBoundary(t *testing.T) {
	cat := catalog.Default()

	content := strings.Repeat("é", MaxAgentsContent+10)
	kept, _ := ScanAgentsContent(cat, content)
	assert.Equal(t, MaxAgentsContent, utf8.RuneCountInString(kept))
	assert.True(t, utf8.ValidString(kept))
}
