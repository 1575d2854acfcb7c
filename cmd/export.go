package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/usblord/internal/progress"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write saved progress to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, cmd.ErrOrStderr(), true)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if !s.manager.Load(ctx) {
			return progress.ErrNoProgress
		}
		path, err := s.manager.Export(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress exported to", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", "", "Directory to write the export into (default: export_dir setting)")
}
