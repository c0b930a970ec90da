package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codetrail/aiscan/internal/config"
)

const defaultConfig = `# aiscan Configuration

# Global settings
global:
  concurrency: 4 # Max concurrent repository analyses in batch mode
  # github_token: "YOUR_TOKEN" # Optional: store a token here (not recommended for shared machines)

# Scan settings
scan:
  clone_timeout: "5m" # Maximum time to clone a single repository
  # branch: "main"    # Default branch to analyze (empty = repository default)

# Detection patterns
patterns:
  # Extend the built-in tool catalog with in-house assistants:
  # extra_tools:
  #   - name: "HouseBot"
  #     patterns: ["housebot", "generated by housebot"]
  #     weight: 0.7
  extra_tools: []
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Creates a default configuration file (config.yaml) in your user configuration directory if it doesn't exist.
Use this to set batch concurrency, a clone timeout, or extra detection patterns.

Note: 'aiscan analyze', 'org', etc. will automatically create this file if it's missing.
'aiscan init' is useful if you want to inspect or customize the config before running any analysis.`,
	Run: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// createDefaultConfig writes the default configuration to the specified path
func createDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

func runInit(cmd *cobra.Command, args []string) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Printf("Error getting config path: %v\n", err)
		os.Exit(1)
	}

	// Check if file already exists to prevent overwriting
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("⚠️  Checking %s... already exists.\n", configPath)
		fmt.Println("Aborting to prevent overwrite. Delete the existing file first if you want to regenerate it.")
		return
	}

	if err := createDefaultConfig(configPath); err != nil {
		fmt.Printf("❌ Error creating config file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Successfully created %s\n", configPath)
	fmt.Println("You can now edit this file to tune concurrency and detection patterns.")
}
