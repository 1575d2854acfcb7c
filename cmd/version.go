package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/usblord/internal/progress"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "usblord", version)
		fmt.Fprintln(out, "progress format", progress.RecordVersion)
	},
}
