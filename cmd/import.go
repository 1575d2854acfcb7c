package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace saved progress with a previously exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		s, err := openSession(cmd, cmd.ErrOrStderr(), true)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.manager.Import(cmd.Context(), data); err != nil {
			return err
		}
		st := s.manager.State().Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "Progress imported: protocol %03d, chapter %02d, %d access points.\n",
			st.Question, st.Chapter, st.Score)
		return nil
	},
}
