package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghclient "github.com/codetrail/aiscan/internal/github"
)

func TestFilterTargets(t *testing.T) {
	// getOrgRepositories-style stubbing keeps these tests off the network
	orig := getOrgRepositories
	defer func() { getOrgRepositories = orig }()

	getOrgRepositories = func(orgName string) ([]ghclient.Repo, error) {
		return []ghclient.Repo{
			{Name: "svc", FullName: "acme/svc", CloneURL: "https://github.com/acme/svc.git", DefaultBranch: "main", UpdatedAt: time.Now()},
			{Name: "old", FullName: "acme/old", CloneURL: "https://github.com/acme/old.git", Archived: true},
		}, nil
	}

	repos, err := getOrgRepositories("acme")
	require.NoError(t, err)

	targets, stats := filterTargets(repos)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Archived)
	require.Len(t, targets, 1)
	assert.Equal(t, "acme/svc", targets[0].Name)
	assert.Equal(t, "https://github.com/acme/svc.git", targets[0].CloneURL)
	assert.Equal(t, "main", targets[0].DefaultBranch)
}
