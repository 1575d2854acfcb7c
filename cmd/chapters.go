package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/usblord/internal/bank"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the authored chapters and their questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("questions")

		b, err := bank.Default()
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s  %-44s  %-10s  %s\n", "Ch", "Title", "Character", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		for _, ch := range b.Chapters() {
			title := ch.Title
			if len(title) > 44 {
				title = title[:41] + "..."
			}
			first := ch.FirstQuestion()
			fmt.Fprintf(out, "%02d    %-44s  %-10s  %03d-%03d\n",
				ch.Number, title, ch.Character, first, first+len(ch.Questions)-1)

			if verbose {
				for i, q := range ch.Questions {
					fmt.Fprintf(out, "        %03d  %s\n", first+i, q.Title)
				}
			}
		}

		fmt.Fprintf(out, "\n%d of %d questions authored\n", b.AuthoredQuestions(), bank.TotalQuestions)
		return nil
	},
}

func init() {
	chaptersCmd.Flags().BoolP("questions", "q", false, "Also list each chapter's questions")
}
