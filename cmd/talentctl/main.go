// Package main provides the entry point for the talentctl recruiter client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/config"
	"github.com/jonathan/talentalign/internal/logging"
)

var (
	configPath  string
	verbose     bool
	apiURLFlag  string
	profileFlag string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "talentctl",
	Short: "TalentAlign recruiter client",
	Long: "talentctl scores resumes against job descriptions and saved role profiles using the " +
		"TalentAlign analysis service, and keeps a local history of recent analyses.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Analysis service base URL (overrides config and TALENTALIGN_API_URL)")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Local profile name; each profile has its own token and history")
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if apiURLFlag != "" {
		loaded.APIURL = apiURLFlag
	}
	if profileFlag != "" {
		loaded.Profile = profileFlag
	}

	level := loaded.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Init(level, loaded.LogFormat, cmd.ErrOrStderr())
	cfg = loaded
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
