// Package github lists organization, team, and repository metadata over
// the GitHub API. The analysis pipeline only needs repository lists to
// clone from; commit history is always read from local clones.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"golang.org/x/time/rate"

	"github.com/codetrail/aiscan/internal/cache"
	"github.com/codetrail/aiscan/internal/errs"
)

const (
	perPage        = 100
	requestTimeout = 30 * time.Second
	listingTTL     = time.Hour
)

// Team is one organization team.
type Team struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

// Repo is the subset of repository metadata the pipeline consumes.
type Repo struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	CloneURL      string    `json:"clone_url"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	Archived      bool      `json:"archived"`
	Language      string    `json:"language"`
	DefaultBranch string    `json:"default_branch"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ResolveToken attempts to find a GitHub token from:
// 1. Config file (if passed)
// 2. "gh auth token" command
// 3. GITHUB_TOKEN environment variable
func ResolveToken(configToken string) string {
	if configToken != "" {
		return configToken
	}

	// 2. Try gh CLI
	cmd := exec.Command("gh", "auth", "token")
	out, err := cmd.Output()
	if err == nil {
		token := strings.TrimSpace(string(out))
		if token != "" {
			return token
		}
	}

	// 3. Try env var
	return os.Getenv("GITHUB_TOKEN")
}

// Client wraps the GitHub API with pagination, client-side throttling, and
// a disk cache for repository listings.
type Client struct {
	client    *github.Client
	limiter   *rate.Limiter
	diskCache *cache.Cache
}

// NewClient creates a client. An empty token yields anonymous access with
// its much lower rate limits.
func NewClient(token string) *Client {
	return NewClientWithCache(token, true)
}

// NewClientWithCache creates a client with cache control.
func NewClientWithCache(token string, useCache bool) *Client {
	var ghClient *github.Client
	if token == "" {
		ghClient = github.NewClient(nil)
	} else {
		ghClient = github.NewClient(nil).WithAuthToken(token)
	}

	c := &Client{
		client: ghClient,
		// The authenticated core quota is 5000/hour; a modest client-side
		// rate leaves headroom for concurrent clones fetching over HTTPS.
		limiter: rate.NewLimiter(rate.Limit(3), 5),
	}

	if useCache {
		if cachePath, err := cache.DefaultPath(); err == nil {
			if disk, err := cache.New(cachePath, listingTTL); err == nil {
				c.diskCache = disk
			}
		}
	}

	return c
}

// GetRateLimit returns the current core rate limit status.
func (c *Client) GetRateLimit(ctx context.Context) (*github.Rate, error) {
	rates, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, err
	}
	return rates.Core, nil
}

func (c *Client) wait(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	return reqCtx, cancel, nil
}

// checkRateLimit warns when the remaining server-side quota runs low.
func checkRateLimit(resp *github.Response) {
	if resp == nil {
		return
	}
	if resp.Rate.Remaining > 0 && resp.Rate.Remaining < 50 {
		fmt.Fprintf(os.Stderr, "⚠️ GitHub rate limit low: %d/%d (resets at %s)\n",
			resp.Rate.Remaining, resp.Rate.Limit, resp.Rate.Reset)
	}
}

// translateError maps API failures onto the error kinds the CLI reports.
func translateError(err error, what string) error {
	// Rate-limit 403s come as dedicated types, not *ErrorResponse
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return errs.Wrap(errs.AuthorizationFailure, err, "rate limit exceeded listing %s (resets at %s)", what, rateErr.Rate.Reset)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return errs.Wrap(errs.AuthorizationFailure, err, "secondary rate limit hit listing %s", what)
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return errs.Wrap(errs.AuthenticationFailure, err, "invalid GitHub token")
		case http.StatusForbidden:
			return errs.Wrap(errs.AuthorizationFailure, err, "token lacks access to %s", what)
		case http.StatusNotFound:
			return errs.Wrap(errs.NotFound, err, "%s not found", what)
		}
	}
	return fmt.Errorf("github api: %s: %w", what, err)
}

// ListTeams returns all teams of an organization.
func (c *Client) ListTeams(ctx context.Context, org string) ([]Team, error) {
	var teams []Team
	opts := &github.ListOptions{PerPage: perPage}

	for {
		reqCtx, cancel, err := c.wait(ctx)
		if err != nil {
			return nil, err
		}
		page, resp, err := c.client.Teams.ListTeams(reqCtx, org, opts)
		cancel()
		if err != nil {
			return nil, translateError(err, fmt.Sprintf("organization %q", org))
		}
		checkRateLimit(resp)

		for _, t := range page {
			teams = append(teams, Team{Name: t.GetName(), Slug: t.GetSlug(), ID: t.GetID()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return teams, nil
}

// ListOrgRepos returns every repository of an organization.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]Repo, error) {
	cacheKey := fmt.Sprintf("org-repos:%s", org)
	if repos, ok := c.cachedRepos(cacheKey); ok {
		return repos, nil
	}

	var repos []Repo
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		reqCtx, cancel, err := c.wait(ctx)
		if err != nil {
			return nil, err
		}
		page, resp, err := c.client.Repositories.ListByOrg(reqCtx, org, opts)
		cancel()
		if err != nil {
			return nil, translateError(err, fmt.Sprintf("organization %q", org))
		}
		checkRateLimit(resp)

		repos = append(repos, convertRepos(page)...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.storeRepos(cacheKey, repos)
	return repos, nil
}

// ListTeamRepos returns every repository a team has access to.
func (c *Client) ListTeamRepos(ctx context.Context, org, teamSlug string) ([]Repo, error) {
	cacheKey := fmt.Sprintf("team-repos:%s/%s", org, teamSlug)
	if repos, ok := c.cachedRepos(cacheKey); ok {
		return repos, nil
	}

	var repos []Repo
	opts := &github.ListOptions{PerPage: perPage}

	for {
		reqCtx, cancel, err := c.wait(ctx)
		if err != nil {
			return nil, err
		}
		page, resp, err := c.client.Teams.ListTeamReposBySlug(reqCtx, org, teamSlug, opts)
		cancel()
		if err != nil {
			return nil, translateError(err, fmt.Sprintf("team %s/%s", org, teamSlug))
		}
		checkRateLimit(resp)

		repos = append(repos, convertRepos(page)...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.storeRepos(cacheKey, repos)
	return repos, nil
}

func convertRepos(page []*github.Repository) []Repo {
	repos := make([]Repo, 0, len(page))
	for _, r := range page {
		repos = append(repos, Repo{
			Name:          r.GetName(),
			FullName:      r.GetFullName(),
			CloneURL:      r.GetCloneURL(),
			Private:       r.GetPrivate(),
			Fork:          r.GetFork(),
			Archived:      r.GetArchived(),
			Language:      r.GetLanguage(),
			DefaultBranch: r.GetDefaultBranch(),
			UpdatedAt:     r.GetUpdatedAt().Time,
		})
	}
	return repos
}

func (c *Client) cachedRepos(key string) ([]Repo, bool) {
	if c.diskCache == nil {
		return nil, false
	}
	var repos []Repo
	if found, err := c.diskCache.Get(key, &repos); err == nil && found {
		return repos, true
	}
	return nil, false
}

func (c *Client) storeRepos(key string, repos []Repo) {
	if c.diskCache == nil {
		return
	}
	_ = c.diskCache.Set(key, repos)
}
