package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var attemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "List recent answer submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openSession(cmd, cmd.ErrOrStderr(), true)
		if err != nil {
			return err
		}
		defer s.Close()

		attempts, err := s.db.AttemptRepo().RecentAttempts(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-8s  %-16s  %6s  %s\n",
			"ID", "Timestamp", "Protocol", "Outcome", "Chars", "Session")
		fmt.Fprintln(out, strings.Repeat("─", 86))
		for _, a := range attempts {
			fmt.Fprintf(out, "%-5d  %-19s  %-8s  %-16s  %6d  %s\n",
				a.ID,
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%03d", a.Question),
				a.Outcome,
				a.CodeLength,
				a.SessionID,
			)
		}
		return nil
	},
}

func init() {
	attemptsCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show (0 for all)")
}
