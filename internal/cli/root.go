package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codetrail/aiscan/internal/config"
)

// Version can be set via build flags: -ldflags "-X 'github.com/codetrail/aiscan/internal/cli.Version=v1.0.0'"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "aiscan",
	Short: "Estimate AI-assisted development from git history",
	Long: `aiscan walks git commit history looking for the footprints AI coding
assistants leave behind: attribution trailers, co-author lines, tool
mentions, and agent instruction files. It scores each flagged commit and
rolls the evidence up per author, per tool, and per month.`,
	Version:          Version,
	PersistentPreRun: checkAndInitConfig,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Global output flags
var (
	flagQuiet   bool
	flagVerbose bool
)

func shouldPrintInfo() bool {
	return !flagQuiet
}

func shouldPrintVerbose() bool {
	return flagVerbose && !flagQuiet
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkAndInitConfig(cmd *cobra.Command, args []string) {
	// Skip for commands that manage config or don't need it
	for c := cmd; c != nil; c = c.Parent() {
		if c == initCmd || c == configCmd || c == authCmd {
			return
		}
	}
	if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
		return
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		// Can't resolve path, probably can't save either. Ignore.
		return
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if shouldPrintInfo() {
			fmt.Printf("ℹ️  Config not found at %s. Initializing default configuration...\n", configPath)
		}
		if err := createDefaultConfig(configPath); err != nil {
			fmt.Printf("⚠️  Failed to auto-create config: %v\n", err)
		} else if shouldPrintInfo() {
			fmt.Println("✅ Config created.")
		}
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress and informational output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print per-repository progress details")
}
