// Package main provides the entry point for the cantus CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cantus/cmd/cantus/commands"
	"github.com/Sumatoshi-tech/cantus/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cantus",
		Short: "Cantus score engine - notation trees, spanners and LilyPond output",
		Long: `Cantus builds score trees from JSON descriptors, checks their
well-formedness and renders them as LilyPond source.

Commands:
  render    Render a score descriptor as LilyPond source
  validate  Run well-formedness checks on a score descriptor
  inspect   Summarize a score descriptor's structure and timing
  plot      Chart a score's leaf durations over time
  diff      Compare the rendered output of two score descriptors
  new       Scaffold a score descriptor interactively`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to config file (default: .cantus.yaml in CWD or $HOME)")

	// Add commands.
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewDiffCommand())
	rootCmd.AddCommand(commands.NewNewCommand())
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
			fmt.Fprintf(os.Stdout, "cantus %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
