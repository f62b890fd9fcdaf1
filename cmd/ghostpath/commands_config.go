package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghostpath/sessionrt/internal/config"
)

// buildConfigCmd creates the "config" command group for inspecting and
// validating ghostpathd's configuration file.
func buildConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate the ghostpathd configuration",
	}
	cmd.AddCommand(buildConfigSchemaCmd(), buildConfigValidateCmd())
	return cmd
}

// buildConfigSchemaCmd prints the JSON Schema for Config, generated via
// reflection, so an operator can validate a YAML file against it in an
// editor or CI step before deploying.
func buildConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.JSONSchema()
			if err != nil {
				return fmt.Errorf("failed to generate config schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return nil
		},
	}
}

// buildConfigValidateCmd loads and validates a config file without
// starting the server.
func buildConfigValidateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "ghostpath.yaml", "Path to YAML configuration file")
	return cmd
}
