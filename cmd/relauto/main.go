// Command relauto is the CLI front end for the relational
// automated-feature-engineering pipeline orchestrator: CSV inspection
// utilities, plus fit/transform/score/sql/watch subcommands driving
// pipeline.Orchestrator.
package main

import (
	"fmt"
	"os"

	"github.com/relauto/engine/cmd/relauto/commands"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "relauto",
		Short:   "relauto - relational automated-feature-engineering pipeline CLI",
		Long:    "relauto inspects tabular data files and runs fingerprint-cached fit/transform/score pipelines over a star/snowflake schema.",
		Version: version,
	}

	rootCmd.AddCommand(commands.InfoCmd())
	rootCmd.AddCommand(commands.HeadCmd())
	rootCmd.AddCommand(commands.TailCmd())
	rootCmd.AddCommand(commands.DescribeCmd())
	rootCmd.AddCommand(commands.ConvertCmd())
	rootCmd.AddCommand(commands.FilterCmd())
	rootCmd.AddCommand(commands.SelectCmd())

	rootCmd.AddCommand(commands.FitCmd())
	rootCmd.AddCommand(commands.TransformCmd())
	rootCmd.AddCommand(commands.ScoreCmd())
	rootCmd.AddCommand(commands.SQLCmd())
	rootCmd.AddCommand(commands.WatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
