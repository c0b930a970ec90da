package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codetrail/aiscan/internal/config"
	ghclient "github.com/codetrail/aiscan/internal/github"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with GitHub",
	Long: `Log in to GitHub to raise API rate limits and clone private repositories.
Authentication reuses GitHub CLI ('gh') credentials when available, or
securely prompts for a Personal Access Token (PAT). The token is saved to
the configuration file for future use.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to GitHub",
	Run:   runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status",
	Run:   runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored GitHub token",
	Run:   runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

// validateToken checks a token with an API call.
// This is a variable to allow mocking in tests.
var validateToken = func(token string) error {
	client := ghclient.NewClient(token)
	_, err := client.GetRateLimit(context.Background())
	return err
}

func checkGhCLIToken() bool {
	return exec.Command("gh", "auth", "token").Run() == nil
}

func runAuthLogin(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("⚠️  Error loading config: %v\n", err)
		cfg = &config.Config{}
	}

	if token := ghclient.ResolveToken(cfg.Global.GitHubToken); token != "" {
		fmt.Println("✅ You are already authenticated.")
		if !promptYesNo("Do you want to change your authentication?") {
			fmt.Println("No changes made.")
			return
		}
		fmt.Println()
	}

	// Prefer gh CLI credentials when available
	if _, err := exec.LookPath("gh"); err == nil && checkGhCLIToken() {
		fmt.Println("Detected GitHub CLI (gh) with stored credentials.")
		if promptYesNo("Use the GitHub CLI token? (Recommended)") {
			out, err := exec.Command("gh", "auth", "token").Output()
			if err != nil {
				fmt.Printf("❌ Failed to retrieve token: %v\n", err)
				return
			}
			saveToken(cfg, strings.TrimSpace(string(out)))
			return
		}
		fmt.Println()
	}

	loginWithToken(cfg)
}

func loginWithToken(cfg *config.Config) {
	fmt.Println("Please generate a Personal Access Token (PAT) with 'repo' scope.")
	fmt.Println("Generate one here: https://github.com/settings/tokens/new?scopes=repo&description=aiscan")
	fmt.Print("\nPaste your token: ")

	byteToken, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		// Fall back to a plain read when no terminal is attached
		reader := bufio.NewReader(os.Stdin)
		line, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Println("❌ Failed to read token from standard input.")
			return
		}
		byteToken = []byte(line)
	}

	token := strings.TrimSpace(string(byteToken))
	if token == "" {
		fmt.Println("❌ Empty token provided.")
		return
	}

	saveToken(cfg, token)
}

func saveToken(cfg *config.Config, token string) {
	fmt.Println("Validating token...")
	if err := validateToken(token); err != nil {
		fmt.Printf("❌ Token validation failed: %v\n", err)
		fmt.Println("The token may be invalid or expired. Please check and try again.")
		return
	}

	fmt.Println("✅ Token validated successfully!")
	fmt.Println("⚠️  The token is stored in plain text in the configuration file.")
	if !promptYesNo("Save it there?") {
		fmt.Println("Token not stored. Use GITHUB_TOKEN or 'gh auth login' instead.")
		return
	}

	cfg.Global.GitHubToken = token
	if err := saveConfig(cfg); err != nil {
		fmt.Printf("❌ Failed to save config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Token saved to configuration file.")
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	token := ghclient.ResolveToken(cfg.Global.GitHubToken)
	if token == "" {
		fmt.Println("❌ Not authenticated")
		fmt.Println("\nRun 'aiscan auth login' to log in.")
		os.Exit(1)
	}

	if err := validateToken(token); err != nil {
		fmt.Println("❌ Token is invalid or expired")
		fmt.Printf("   Error: %v\n", err)
		fmt.Println("\nRun 'aiscan auth login' to log in again.")
		os.Exit(1)
	}

	fmt.Println("✅ Authenticated")

	client := ghclient.NewClient(token)
	if limits, err := client.GetRateLimit(context.Background()); err == nil {
		fmt.Printf("   Rate limit: %d/%d remaining\n", limits.Remaining, limits.Limit)
		if !limits.Reset.IsZero() {
			fmt.Printf("   Resets at: %s\n", limits.Reset.Format(time.RFC3339))
		}
	}

	if cfg.Global.GitHubToken != "" {
		fmt.Println("   Token source: config file")
	} else {
		fmt.Println("   Token source: environment or gh CLI")
	}
}

func runAuthLogout(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Global.GitHubToken == "" {
		fmt.Println("No token stored in the configuration file.")
	} else {
		cfg.Global.GitHubToken = ""
		if err := saveConfig(cfg); err != nil {
			fmt.Printf("❌ Failed to save config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Removed token from config file.")
	}

	if os.Getenv("GITHUB_TOKEN") != "" {
		fmt.Println("⚠️  GITHUB_TOKEN is set in your current session. Run: unset GITHUB_TOKEN")
	}
	if checkGhCLIToken() {
		fmt.Println("⚠️  GitHub CLI (gh) is authenticated. To log out, run: gh auth logout")
	}
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [Y/n]: ", question)
	text, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	text = strings.TrimSpace(strings.ToLower(text))
	return text == "" || text == "y" || text == "yes"
}
