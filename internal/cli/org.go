package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codetrail/aiscan/internal/analysis"
	"github.com/codetrail/aiscan/internal/config"
	ghclient "github.com/codetrail/aiscan/internal/github"
)

var getOrgRepositories = func(orgName string) ([]ghclient.Repo, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	client, err := getClientWithToken(cfg)
	if err != nil {
		return nil, err
	}

	return client.ListOrgRepos(context.Background(), orgName)
}

var orgCmd = &cobra.Command{
	Use:   "org [organization]",
	Short: "Analyze every repository in a GitHub organization",
	Long: `Clone and scan all active repositories in a GitHub organization.
Archived repositories are always skipped; forks can be excluded with
--filter-skip-forks. Repositories that fail to clone are reported and
skipped without failing the batch.`,
	Example: `  aiscan org my-org
  aiscan org my-org --filter-language=go --since 2024-01-01
  aiscan org my-org --quiet --format=json > org-report.json`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), validateFormat),
	Run:  runOrgAnalysis,
}

func init() {
	rootCmd.AddCommand(orgCmd)
	registerAnalysisFlags(orgCmd)
	registerFilterFlags(orgCmd)
}

func runOrgAnalysis(cmd *cobra.Command, args []string) {
	orgName := args[0]

	if shouldPrintInfo() {
		fmt.Printf("Fetching repositories for organization '%s'...\n", orgName)
	}

	repos, err := getOrgRepositories(orgName)
	if err != nil {
		fmt.Printf("Error listing repositories: %v\n", err)
		os.Exit(1)
	}

	targets, stats := filterTargets(repos)
	printFilterStats(stats)

	if len(targets) == 0 {
		fmt.Println("No active repositories found to analyze.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	token := resolveToken(cfg)
	runBatch(cfg, token, targets)
}

// filterTargets applies the repository filters and converts survivors to
// batch targets.
func filterTargets(repos []ghclient.Repo) ([]analysis.Target, *FilterStats) {
	filter, err := NewRepoFilter()
	if err != nil {
		fmt.Printf("Error creating filter: %v\n", err)
		os.Exit(1)
	}

	kept, stats := FilterRepositories(repos, filter)
	targets := make([]analysis.Target, 0, len(kept))
	for _, r := range kept {
		targets = append(targets, analysis.Target{
			Name:          r.FullName,
			CloneURL:      r.CloneURL,
			DefaultBranch: r.DefaultBranch,
		})
	}
	return targets, stats
}

func printFilterStats(stats *FilterStats) {
	if !shouldPrintInfo() {
		return
	}
	fmt.Printf("found %d total repositories\n", stats.Total)
	if stats.Archived > 0 {
		fmt.Printf("  %d archived (skipped)\n", stats.Archived)
	}
	if stats.Forks > 0 && !flagFilterSkipForks {
		fmt.Printf("  %d forks (included)\n", stats.Forks)
	} else if flagFilterSkipForks && stats.Forks > 0 {
		fmt.Printf("  %d forks (filtered)\n", stats.Forks)
	}
	if stats.NameFiltered > 0 {
		fmt.Printf("  %d filtered by name pattern\n", stats.NameFiltered)
	}
	if stats.LangFiltered > 0 {
		fmt.Printf("  %d filtered by language\n", stats.LangFiltered)
	}
	if stats.DateFiltered > 0 {
		fmt.Printf("  %d filtered by update date\n", stats.DateFiltered)
	}
	fmt.Printf("analyzing %d repositories\n", stats.Passed)
}
