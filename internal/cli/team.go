package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codetrail/aiscan/internal/config"
	ghclient "github.com/codetrail/aiscan/internal/github"
)

var getTeamRepositories = func(org, teamSlug string) ([]ghclient.Repo, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	client, err := getClientWithToken(cfg)
	if err != nil {
		return nil, err
	}

	return client.ListTeamRepos(context.Background(), org, teamSlug)
}

var getTeams = func(org string) ([]ghclient.Team, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	client, err := getClientWithToken(cfg)
	if err != nil {
		return nil, err
	}

	return client.ListTeams(context.Background(), org)
}

var teamCmd = &cobra.Command{
	Use:   "team [organization] [team-slug]",
	Short: "Analyze the repositories a team has access to",
	Long: `Clone and scan every repository accessible to a team within an
organization. Use 'aiscan teams <organization>' to list team slugs.`,
	Example: `  aiscan team my-org platform
  aiscan team my-org platform --filter-skip-forks --format=csv`,
	Args: cobra.MatchAll(cobra.ExactArgs(2), validateFormat),
	Run:  runTeamAnalysis,
}

var teamsCmd = &cobra.Command{
	Use:     "teams [organization]",
	Short:   "List the teams of an organization",
	Example: "  aiscan teams my-org",
	Args:    cobra.ExactArgs(1),
	Run:     runListTeams,
}

func init() {
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(teamsCmd)
	registerAnalysisFlags(teamCmd)
	registerFilterFlags(teamCmd)
}

func runTeamAnalysis(cmd *cobra.Command, args []string) {
	org, teamSlug := args[0], args[1]

	if shouldPrintInfo() {
		fmt.Printf("Fetching repositories for team '%s/%s'...\n", org, teamSlug)
	}

	repos, err := getTeamRepositories(org, teamSlug)
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

func runListTeams(cmd *cobra.Command, args []string) {
	org := args[0]

	teams, err := getTeams(org)
	if err != nil {
		fmt.Printf("Error listing teams: %v\n", err)
		os.Exit(1)
	}

	if len(teams) == 0 {
		fmt.Printf("No teams found in organization '%s'.\n", org)
		return
	}

	fmt.Printf("Teams in '%s':\n", org)
	for _, t := range teams {
		fmt.Printf("  %-30s %s\n", t.Slug, t.Name)
	}
}
