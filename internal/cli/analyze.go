package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/codetrail/aiscan/internal/analysis"
	"github.com/codetrail/aiscan/internal/config"
	"github.com/codetrail/aiscan/pkg/baseline"
	"github.com/codetrail/aiscan/pkg/models"
)

var flagSaveBaseline string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path-or-url]",
	Short: "Analyze a repository for AI-assisted commits",
	Long: `Walk the commit history of a local repository or a clone URL and
estimate how much of the work was AI-assisted. Remote URLs are cloned to a
temporary directory that is removed afterwards.`,
	Example: `  aiscan analyze
  aiscan analyze ./path/to/repo --since 2024-01-01
  aiscan analyze https://github.com/owner/repo.git --format=json > report.json
  aiscan analyze . --details --fail-above=50`,
	Args: cobra.MatchAll(cobra.MaximumNArgs(1), validateFormat),
	Run:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	registerAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&flagSaveBaseline, "save-baseline", "", "Save the result as a named baseline for later comparison")
}

// analyzeOne walks a single repository using the shared flag set.
func analyzeOne(cfg *config.Config, repoPath string) (*models.RepoAnalysis, error) {
	since, err := parseDateFlag("since", flagSince)
	if err != nil {
		return nil, err
	}
	until, err := parseDateFlag("until", flagUntil)
	if err != nil {
		return nil, err
	}

	walker, err := newWalker(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Tokens are optional for single-repo runs; private clones need one.
	token := resolveToken(cfg)

	return walker.Run(ctx, analysis.WalkOptions{
		RepoPath:     repoPath,
		Branch:       flagBranch,
		Since:        since,
		Until:        until,
		Token:        token,
		CloneTimeout: time.Duration(cfg.Scan.CloneTimeout),
	})
}

func runAnalyze(cmd *cobra.Command, args []string) {
	repoPath := "."
	if len(args) == 1 {
		repoPath = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagBranch == "" {
		flagBranch = cfg.Scan.Branch
	}

	if shouldPrintVerbose() {
		fmt.Printf("Analyzing %s...\n", repoPath)
	}

	result, err := analyzeOne(cfg, repoPath)
	if err != nil {
		fmt.Printf("Error running analysis: %v\n", err)
		os.Exit(1)
	}

	if err := renderAnalysis(result); err != nil {
		fmt.Printf("Error rendering report: %v\n", err)
	}

	if flagSaveBaseline != "" {
		store, err := baseline.NewStore("")
		if err != nil {
			fmt.Printf("Error opening baseline store: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(baseline.Capture(flagSaveBaseline, result)); err != nil {
			fmt.Printf("Error saving baseline: %v\n", err)
			os.Exit(1)
		}
		if shouldPrintInfo() {
			fmt.Printf("✅ Baseline %q saved.\n", flagSaveBaseline)
		}
	}

	checkFailAbove(result.AIPercentage)
}
