// Package main provides the entry point for the sprintfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/cmd/sprintfang/commands"
	"github.com/Sumatoshi-tech/sprintfang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "sprintfang",
		Short: "Sprintfang - sprint metrics dashboard",
		Long: `Sprintfang renders sprint burn-up and earned value dashboards from a
precomputed metrics document.

Commands:
  serve     HTTP dashboard server
  render    One-shot static HTML rendering
  validate  Validate a metrics document
  summary   Per-sprint summary metrics
  mcp       MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands.
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewSummaryCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "sprintfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
