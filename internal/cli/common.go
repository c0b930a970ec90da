package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/codetrail/aiscan/internal/analysis"
	"github.com/codetrail/aiscan/internal/catalog"
	"github.com/codetrail/aiscan/internal/config"
	"github.com/codetrail/aiscan/internal/gitrepo"
	ghclient "github.com/codetrail/aiscan/internal/github"
	"github.com/codetrail/aiscan/internal/report"
	"github.com/codetrail/aiscan/pkg/models"
)

// Flags shared by the analysis commands.
var (
	flagFormat    string
	flagOutput    string
	flagBranch    string
	flagSince     string
	flagUntil     string
	flagToken     string
	flagDetails   bool
	flagNoColor   bool
	flagFailAbove float64
)

const dateLayout = "2006-01-02"

func registerAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format (text, json, csv)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "csv"}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the report to a file instead of stdout (.json/.csv extensions pick the format)")
	cmd.Flags().StringVarP(&flagBranch, "branch", "b", "", "Branch to analyze (default: current or repository default)")
	cmd.Flags().StringVarP(&flagSince, "since", "s", "", "Only analyze commits on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flagUntil, "until", "u", "", "Only analyze commits on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagToken, "token", "", "GitHub token override (else config file, gh CLI, GITHUB_TOKEN)")
	cmd.Flags().BoolVar(&flagDetails, "details", false, "Include the per-commit detection listing in text output")
	cmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	cmd.Flags().Float64Var(&flagFailAbove, "fail-above", 0, "Exit with code 1 if the AI-assisted percentage exceeds this value")
}

// validateFormat is shared Args-validation for commands carrying --format.
func validateFormat(cmd *cobra.Command, args []string) error {
	switch flagFormat {
	case "", "text", "json", "csv":
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be text, json, or csv)", flagFormat)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n⚠️  Received interrupt signal. Cancelling analysis...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// parseDateFlag parses a YYYY-MM-DD flag value; empty means unset.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s value %q: use YYYY-MM-DD", name, value)
	}
	return t, nil
}

// newWalker builds the analysis walker with the configured pattern catalog.
func newWalker(cfg *config.Config) (*analysis.Walker, error) {
	cat, err := catalog.Load(cfg.Patterns.ExtraTools)
	if err != nil {
		return nil, fmt.Errorf("error loading pattern catalog: %w", err)
	}
	return analysis.NewWalker(gitrepo.NewLocalClient(), cat), nil
}

// resolveToken applies the flag override before the usual token chain.
func resolveToken(cfg *config.Config) string {
	if flagToken != "" {
		return flagToken
	}
	return ghclient.ResolveToken(cfg.Global.GitHubToken)
}

// getClientWithToken initializes a GitHub client with token resolution.
// Returns an error if no valid token is found.
func getClientWithToken(cfg *config.Config) (*ghclient.Client, error) {
	token := resolveToken(cfg)
	if token == "" {
		return nil, fmt.Errorf("no GitHub token found. Please run 'aiscan auth login' to log in")
	}
	return ghclient.NewClient(token), nil
}

// outputFormat picks the render format. A .json or .csv --output extension
// wins only when --format is still the default.
func outputFormat() report.Format {
	if flagOutput != "" && (flagFormat == "" || flagFormat == "text") {
		switch strings.ToLower(filepath.Ext(flagOutput)) {
		case ".json":
			return report.FormatJSON
		case ".csv":
			return report.FormatCSV
		}
	}
	return report.Format(flagFormat)
}

// renderAnalysis writes the result to stdout or the --output file.
func renderAnalysis(a models.Analysis) error {
	var out io.Writer = os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("error creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	renderer := report.NewRenderer(outputFormat())
	if err := renderer.RenderWithOptions(a, out, report.RenderOptions{
		ShowDetections: flagDetails,
		NoColor:        flagNoColor || flagOutput != "",
	}); err != nil {
		return err
	}

	if flagOutput != "" && shouldPrintInfo() {
		fmt.Printf("✅ Report written to %s\n", flagOutput)
	}
	return nil
}

// checkFailAbove exits non-zero when the AI share breaches the threshold.
func checkFailAbove(percentage float64) {
	if flagFailAbove > 0 && percentage > flagFailAbove {
		fmt.Printf("\n❌ Failure: AI-assisted percentage (%.2f%%) exceeds threshold (%.2f%%).\n", percentage, flagFailAbove)
		os.Exit(1)
	}
}

// newProgressBar builds the batch progress bar, or nil in quiet mode.
func newProgressBar(total int) *progressbar.ProgressBar {
	if !shouldPrintInfo() {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Analyzing repositories"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("repos"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// batchOptions assembles the multi-repository walk options from flags and
// config. The caller owns the returned progress bar lifecycle via OnProgress.
func batchOptions(cfg *config.Config, token string, total int) (analysis.BatchOptions, *progressbar.ProgressBar, error) {
	since, err := parseDateFlag("since", flagSince)
	if err != nil {
		return analysis.BatchOptions{}, nil, err
	}
	until, err := parseDateFlag("until", flagUntil)
	if err != nil {
		return analysis.BatchOptions{}, nil, err
	}

	bar := newProgressBar(total)
	opts := analysis.BatchOptions{
		Branch:       flagBranch,
		Since:        since,
		Until:        until,
		Token:        token,
		CloneTimeout: time.Duration(cfg.Scan.CloneTimeout),
		Concurrency:  cfg.Global.Concurrency,
		OnProgress: func(completed, total int, current string) {
			if bar != nil {
				_ = bar.Add(1)
			} else if shouldPrintVerbose() {
				fmt.Printf("✓ Completed %s (%d/%d repositories)\n", current, completed, total)
			}
		},
	}
	return opts, bar, nil
}

// runBatch analyzes the targets and renders the merged result.
func runBatch(cfg *config.Config, token string, targets []analysis.Target) {
	ctx, cancel := signalContext()
	defer cancel()

	opts, bar, err := batchOptions(cfg, token, len(targets))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	walker, err := newWalker(cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if shouldPrintInfo() {
		fmt.Printf("Queueing %d repositories (concurrency: %d)...\n", len(targets), opts.Concurrency)
	}

	multi, err := walker.AnalyzeAll(ctx, targets, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		if multi != nil && multi.SkippedRepos > 0 {
			for _, f := range multi.Failures {
				fmt.Fprintf(os.Stderr, "  - %s: %s\n", f.RepoName, f.Error)
			}
		}
		fmt.Printf("Error running analysis: %v\n", err)
		os.Exit(1)
	}

	if err := renderAnalysis(multi); err != nil {
		fmt.Printf("Error rendering report: %v\n", err)
	}

	checkFailAbove(multi.OverallAIPercentage)
}
