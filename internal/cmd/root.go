package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Terminal client for the dashboard REST API",
	Long: `dashboard is a terminal client for the dashboard REST API.

It keeps a single authenticated session that is refreshed silently before the
access token expires, and lists projects, tasks and inventory items with
paging, sorting, filtering and search.

Settings come from environment variables, optionally layered over a YAML file
passed with --config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by main.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment variables take precedence)")
}
