package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/ui/components"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show saved progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, cmd.ErrOrStderr(), true)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if !s.manager.Load(cmd.Context()) {
			fmt.Fprintln(out, "No saved progress found.")
			return nil
		}

		st := s.manager.State().Stats()
		title := "(not authored)"
		if ch, ok := s.bank.Chapter(st.Chapter); ok {
			title = ch.Title
		}
		pct := st.Completed * 100 / st.Total

		fmt.Fprintf(out, "Protocol:   %03d / %d\n", st.Question, bank.TotalQuestions)
		fmt.Fprintf(out, "Chapter:    %02d / %02d  %s\n", st.Chapter, bank.MaxChapters, title)
		fmt.Fprintf(out, "Access:     %04d\n", st.Score)
		fmt.Fprintf(out, "Completed:  %d / %d (%d%%)\n", st.Completed, st.Total, pct)
		fmt.Fprintf(out, "Started:    %s\n", s.manager.State().StartTime().Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "Runtime:    %d minutes\n", int(time.Since(s.manager.State().StartTime()).Minutes()))

		bar := components.BarFill(st.Completed, st.Total)
		width := 40
		filled := int(bar * float64(width) / 100)
		fmt.Fprintf(out, "[%s%s]\n", strings.Repeat("█", filled), strings.Repeat("░", width-filled))
		return nil
	},
}
