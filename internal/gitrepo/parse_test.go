package gitrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(hash, author, email, ts, body, numstat string) string {
	return "\x1e" + hash + "\x1f" + author + "\x1f" + email + "\x1f" + ts + "\x1f" + body + "\x1f" + numstat
}

func TestParseLog(t *testing.T) {
	out := record("abc123", "Ada", "ada@example.com", "1706745600",
		"feat: add scanner\n\nGenerated by Copilot\n",
		"\n10\t2\tscanner.go\n120\t0\tcatalog.go\n") +
		record("def456", "Grace", "grace@example.com", "1704067200",
			"fix typo\n", "\n1\t1\tREADME.md\n")

	commits, err := ParseLog(out)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	first := commits[0]
	assert.Equal(t, "abc123", first.Hash)
	assert.Equal(t, "Ada", first.Author)
	assert.Equal(t, "ada@example.com", first.Email)
	assert.Equal(t, time.Unix(1706745600, 0), first.When)
	assert.Equal(t, "feat: add scanner\n\nGenerated by Copilot", first.Message)
	assert.Equal(t, 2, first.FilesChanged)
	assert.Equal(t, 130, first.LinesAdded)
	assert.Equal(t, 2, first.LinesDeleted)

	assert.Equal(t, "def456", commits[1].Hash)
	assert.Equal(t, 1, commits[1].FilesChanged)
}

func TestParseLogBinaryFiles(t *testing.T) {
	out := record("abc", "Ada", "a@x", "1700000000", "add logo\n", "\n-\t-\tlogo.png\n3\t0\tmain.go\n")

	commits, err := ParseLog(out)
	require.NoError(t, err)
	require.Len(t, commits, 1)

	// Binary files count toward files changed but not line totals.
	assert.Equal(t, 2, commits[0].FilesChanged)
	assert.Equal(t, 3, commits[0].LinesAdded)
	assert.Equal(t, 0, commits[0].LinesDeleted)
}

func TestParseLogEmptyAndMalformed(t *testing.T) {
	commits, err := ParseLog("")
	require.NoError(t, err)
	assert.Empty(t, commits)

	// Records missing fields are skipped, not fatal.
	commits, err = ParseLog("\x1egarbage-without-separators")
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestParseLogTabInMessageBody(t *testing.T) {
	// A tab-bearing body line must not be mistaken for numstat because the
	// body sits before the trailing unit separator.
	out := record("abc", "Ada", "a@x", "1700000000", "table:\n1\t2\t3 alignment fix\n", "\n5\t1\ttable.go\n")

	commits, err := ParseLog(out)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, 1, commits[0].FilesChanged)
	assert.Equal(t, 5, commits[0].LinesAdded)
	assert.Contains(t, commits[0].Message, "alignment fix")
}

func TestIsRemoteURL(t *testing.T) {
	tests := []struct {
		path   string
		remote bool
	}{
		{"https://github.com/acme/widgets.git", true},
		{"http://git.internal/widgets", true},
		{"git@github.com:acme/widgets.git", true},
		{"ssh://git@host/widgets", true},
		{"/home/dev/widgets", false},
		{"./widgets", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.remote, IsRemoteURL(tt.path), tt.path)
	}
}

func TestAuthenticatedURL(t *testing.T) {
	got := AuthenticatedURL("https://github.com/acme/widgets.git", "tok123")
	assert.Equal(t, "https://tok123@github.com/acme/widgets.git", got)

	// Non-GitHub and SSH URLs pass through.
	assert.Equal(t, "https://gitlab.com/acme/w.git", AuthenticatedURL("https://gitlab.com/acme/w.git", "tok"))
	assert.Equal(t, "git@github.com:acme/w.git", AuthenticatedURL("git@github.com:acme/w.git", "tok"))
	assert.Equal(t, "https://github.com/acme/w.git", AuthenticatedURL("https://github.com/acme/w.git", ""))
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		path string
		name string
	}{
		{"https://github.com/acme/widgets.git", "widgets"},
		{"https://github.com/acme/widgets/", "widgets"},
		{"git@github.com:acme/widgets.git", "widgets"},
		{"/home/dev/projects/widgets", "widgets"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, RepoName(tt.path), tt.path)
	}
}
