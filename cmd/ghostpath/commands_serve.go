package main

import (
	"github.com/spf13/cobra"
)

// buildServeCmd creates the "serve" command that starts the session API
// server. This is the primary command for running ghostpathd in
// production.
func buildServeCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GhostPath session API server",
		Long: `Start the GhostPath session API server.

The server will:
1. Load configuration from the specified file (or ghostpath.yaml)
2. Open the Postgres connection pool
3. Construct the Anthropic client and the shared agent-loop runner
4. Start the HTTP server for the session API and SSE event stream

Graceful shutdown is handled on SIGINT/SIGTERM signals.`,
		Example: `  # Start with default config
  ghostpathd serve

  # Start with custom config
  ghostpathd serve --config /etc/ghostpath/production.yaml

  # Start with debug logging
  ghostpathd serve --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, debug)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ghostpath.yaml", "Path to YAML configuration file")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging (verbose output)")

	return cmd
}

// buildHealthcheckCmd creates a "healthcheck" command suited to container
// liveness/readiness probes that would rather exec a binary than curl.
func buildHealthcheckCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe a running server's /api/v1/health/ready endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://127.0.0.1:8080", "Base URL of the running server")
	return cmd
}
