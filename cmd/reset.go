package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/usblord/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		s, err := openSession(cmd, cmd.ErrOrStderr(), true)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		tok := s.manager.RequestReset()
		if !yes {
			fmt.Fprintln(out, progress.ResetWarning)
			fmt.Fprint(out, "[y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				s.manager.CancelReset()
				fmt.Fprintln(out, "Reset cancelled.")
				return nil
			}
		}

		if err := s.manager.ConfirmReset(cmd.Context(), tok); err != nil {
			if errors.Is(err, progress.ErrResetNotPersisted) {
				fmt.Fprintln(out, "Progress reset, but the saved copy could not be deleted.")
			}
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintln(out, "All progress deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
