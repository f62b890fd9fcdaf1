// Package main provides the CLI entry point for ghostpathd, the GhostPath
// idea-refinement agent server (spec §1/§4).
//
// # Basic Usage
//
// Start the server:
//
//	ghostpathd serve --config ghostpath.yaml
//
// # Environment Variables
//
// Configuration can be provided via environment variables layered on top
// of the YAML file (see internal/config):
//
//   - DATABASE_URL: Postgres connection string
//   - ANTHROPIC_API_KEY: Anthropic API key
//   - GHOSTPATH_JWT_SECRET: bearer-token signing secret (unset disables auth)
//   - GHOSTPATH_CORS_ORIGINS: comma-separated allowed browser origins
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ghostpathd",
		Short: "GhostPath - semi-autonomous idea refinement agent",
		Long: `GhostPath drives an LLM through premise generation, obviousness
testing, and round-by-round user scoring until the user picks a winning
premise and the agent resolves it into a final spec document.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildServeCmd(),
		buildHealthcheckCmd(),
		buildConfigCmd(),
	)

	return rootCmd
}
