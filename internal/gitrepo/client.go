// Package gitrepo wraps the local git binary behind a small interface so
// the walker can be tested without a real repository.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Commit is one parsed history entry, with diff-size counters from numstat.
type Commit struct {
	Hash         string
	Author       string
	Email        string
	When         time.Time
	Message      string
	FilesChanged int
	LinesAdded   int
	LinesDeleted int
}

// Client defines the git operations the walker needs.
type Client interface {
	// IsRepository reports whether path is inside a git work tree.
	IsRepository(ctx context.Context, path string) bool

	// Clone fetches url into dest. The caller owns dest.
	Clone(ctx context.Context, url, dest string) error

	// Checkout switches the work tree to the named branch.
	Checkout(ctx context.Context, path, branch string) error

	// CurrentBranch returns the checked-out branch name, or "HEAD" when
	// detached.
	CurrentBranch(ctx context.Context, path string) (string, error)

	// Log streams commits newest first, bounded by the optional dates.
	Log(ctx context.Context, path string, since, until time.Time) ([]Commit, error)
}

// LocalClient implements Client by executing the local git binary.
type LocalClient struct{}

var _ Client = (*LocalClient)(nil)

// NewLocalClient creates a client backed by the git executable on PATH.
func NewLocalClient() *LocalClient {
	return &LocalClient{}
}

func (c *LocalClient) run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
	} else if err != nil {
		return nil, fmt.Errorf("git %s: %w (is git installed and in PATH?)", strings.Join(args, " "), err)
	}
	return out, nil
}

// IsRepository implements Client.
func (c *LocalClient) IsRepository(ctx context.Context, path string) bool {
	_, err := c.run(ctx, path, "rev-parse", "--git-dir")
	return err == nil
}

// Clone implements Client.
func (c *LocalClient) Clone(ctx context.Context, url, dest string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--quiet", "--", url, dest)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("git clone: %w", err)
		}
		return fmt.Errorf("git clone: %s", msg)
	}
	return nil
}

// Checkout implements Client.
func (c *LocalClient) Checkout(ctx context.Context, path, branch string) error {
	_, err := c.run(ctx, path, "checkout", "--quiet", branch)
	return err
}

// CurrentBranch implements Client.
func (c *LocalClient) CurrentBranch(ctx context.Context, path string) (string, error) {
	out, err := c.run(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Log implements Client. Commits arrive newest first; since/until are
// passed to git when non-zero so the window is applied at the source.
func (c *LocalClient) Log(ctx context.Context, path string, since, until time.Time) ([]Commit, error) {
	args := []string{
		"log",
		"--numstat",
		// Record separator, unit separators, and a trailing unit separator
		// so the full multi-line body can be split from the numstat block.
		"--pretty=format:%x1e%H%x1f%an%x1f%ae%x1f%at%x1f%B%x1f",
	}
	if !since.IsZero() {
		args = append(args, fmt.Sprintf("--since=%s", since.Format("2006-01-02")))
	}
	if !until.IsZero() {
		args = append(args, fmt.Sprintf("--until=%s", until.Format("2006-01-02")))
	}
	out, err := c.run(ctx, path, args...)
	if err != nil {
		return nil, err
	}
	return ParseLog(string(out))
}

// IsRemoteURL reports whether path names a remote repository rather than a
// filesystem location.
func IsRemoteURL(path string) bool {
	for _, prefix := range []string{"http://", "https://", "git@", "ssh://"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthenticatedURL embeds a bearer token in the user-info component of
// HTTP(S) GitHub URLs so private repositories can be fetched. Other URLs
// pass through untouched.
func AuthenticatedURL(rawURL, token string) string {
	if token == "" || !strings.Contains(rawURL, "github.com") {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return rawURL
	}
	parsed.User = url.User(token)
	return parsed.String()
}

// RepoName derives a display name from a path or clone URL.
func RepoName(path string) string {
	if IsRemoteURL(path) {
		trimmed := strings.TrimSuffix(strings.TrimRight(path, "/"), ".git")
		if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 {
			return trimmed[idx+1:]
		}
		return trimmed
	}
	return filepath.Base(filepath.Clean(path))
}
