// Package cli implements the hrportal commands.
package cli

import (
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "hrportal",
	Short: "HR portal API in front of the HR backend",
	Long: `hrportal serves the role-aware HR portal API. It authenticates users
against the HR backend, evaluates permissions locally and aggregates payroll
and headcount views.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
