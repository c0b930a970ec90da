package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codetrail/aiscan/internal/config"
	"github.com/codetrail/aiscan/pkg/baseline"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage and compare saved analysis baselines",
	Long: `Save analysis snapshots as named baselines and compare later runs
against them to track AI-usage drift over time.

Create a baseline with 'aiscan analyze --save-baseline <name>'.`,
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved baselines",
	Run:   runBaselineList,
}

var baselineDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a saved baseline",
	Args:  cobra.ExactArgs(1),
	Run:   runBaselineDelete,
}

var baselineCompareCmd = &cobra.Command{
	Use:   "compare [name] [path-or-url]",
	Short: "Compare a repository against a saved baseline",
	Long: `Re-analyze a repository and report how AI usage has shifted since the
named baseline was captured. The path defaults to the current directory.`,
	Example: `  aiscan baseline compare release-1.0
  aiscan baseline compare release-1.0 ~/src/widget --format=json`,
	Args: cobra.MatchAll(cobra.RangeArgs(1, 2), func(cmd *cobra.Command, args []string) error {
		if flagFormat != "" && flagFormat != "text" && flagFormat != "json" {
			return fmt.Errorf("invalid format: %s (must be text or json)", flagFormat)
		}
		return nil
	}),
	Run: runBaselineCompare,
}

func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineDeleteCmd)
	baselineCmd.AddCommand(baselineCompareCmd)

	baselineCompareCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format (text, json)")
	baselineCompareCmd.Flags().StringVar(&flagBranch, "branch", "", "Branch to analyze (default: repository default branch)")
	baselineCompareCmd.Flags().StringVar(&flagSince, "since", "", "Only scan commits after this date (YYYY-MM-DD)")
	baselineCompareCmd.Flags().StringVar(&flagUntil, "until", "", "Only scan commits before this date (YYYY-MM-DD)")
}

func newBaselineStore() *baseline.Store {
	store, err := baseline.NewStore("")
	if err != nil {
		fmt.Printf("Error opening baseline store: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runBaselineList(cmd *cobra.Command, args []string) {
	store := newBaselineStore()

	names, err := store.List()
	if err != nil {
		fmt.Printf("Error listing baselines: %v\n", err)
		os.Exit(1)
	}

	if len(names) == 0 {
		fmt.Println("No baselines saved. Create one with 'aiscan analyze --save-baseline <name>'.")
		return
	}

	for _, name := range names {
		snap, err := store.Load(name)
		if err != nil {
			fmt.Printf("  %-25s (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("  %-25s %s  %s  %.2f%% AI\n",
			name, snap.CreatedAt.Format("2006-01-02"), snap.RepoName, snap.AIPercentage)
	}
}

func runBaselineDelete(cmd *cobra.Command, args []string) {
	store := newBaselineStore()

	if err := store.Delete(args[0]); err != nil {
		fmt.Printf("Error deleting baseline: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Baseline %q deleted.\n", args[0])
}

func runBaselineCompare(cmd *cobra.Command, args []string) {
	name := args[0]
	repoPath := "."
	if len(args) == 2 {
		repoPath = args[1]
	}

	store := newBaselineStore()
	snap, err := store.Load(name)
	if err != nil {
		fmt.Printf("Error loading baseline: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagBranch == "" {
		flagBranch = cfg.Scan.Branch
	}

	result, err := analyzeOne(cfg, repoPath)
	if err != nil {
		fmt.Printf("Error analyzing repository: %v\n", err)
		os.Exit(1)
	}

	delta := baseline.Compare(*snap, result)

	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(delta); err != nil {
			fmt.Printf("Error encoding delta: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printDelta(snap, result.AIPercentage, delta)
}

func printDelta(snap *baseline.Snapshot, currentPct float64, delta baseline.Delta) {
	fmt.Printf("Baseline %q (%s, captured %s)\n",
		snap.Name, snap.RepoName, snap.CreatedAt.Format("2006-01-02"))
	fmt.Println()
	fmt.Printf("  Commits:    %+d\n", delta.CommitsDelta)
	fmt.Printf("  AI commits: %+d\n", delta.AICommitsDelta)
	fmt.Printf("  AI share:   %.2f%% → %.2f%% (%s)\n",
		snap.AIPercentage, currentPct, colorizeDelta(delta.AIPercentageDelta))
	if len(delta.NewTools) > 0 {
		fmt.Printf("  New tools:     %s\n", strings.Join(delta.NewTools, ", "))
	}
	if len(delta.DroppedTools) > 0 {
		fmt.Printf("  Dropped tools: %s\n", strings.Join(delta.DroppedTools, ", "))
	}
}

// colorizeDelta renders a percentage-point shift with a sign and color.
// Rising AI share is highlighted, not judged.
func colorizeDelta(d float64) string {
	s := fmt.Sprintf("%+.2f pts", d)
	switch {
	case flagNoColor || d == 0:
		return s
	case d > 0:
		return color.New(color.FgYellow).Sprint(s)
	default:
		return color.New(color.FgCyan).Sprint(s)
	}
}
