package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/coach"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Try a single question outside the tutorial (progress untouched)",
	Long: `Show one question, read an answer from stdin and check it.

Saved progress is never read or written. Useful for checking authored
questions and their acceptance rules. End the answer with an empty line.
When a coach provider is configured a wrong answer also gets a nudge.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntP("question", "q", 0, "Global question number (required)")
	previewCmd.Flags().Bool("coach", true, "Ask the coach for a nudge after a wrong answer")
	_ = previewCmd.MarkFlagRequired("question")
}

func runPreview(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("question")
	useCoach, _ := cmd.Flags().GetBool("coach")

	s, err := openSession(cmd, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	ch, q, ok := s.bank.Question(bank.ChapterOf(n), n)
	if !ok {
		return fmt.Errorf("question %d is not authored", n)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "── Chapter %02d: %s ──\n", ch.Number, ch.Title)
	fmt.Fprintf(out, "PROTOCOL %03d: %s\n\n", n, q.Title)
	fmt.Fprintln(out, q.Text)
	if q.Hint != "" {
		fmt.Fprintf(out, "\n💡 SYSTEM HINT: %s\n", q.Hint)
	}
	fmt.Fprintln(out, "\nYour answer (finish with an empty line):")

	code, err := readAnswer(bufio.NewScanner(cmd.InOrStdin()))
	if err != nil {
		return fmt.Errorf("read answer: %w", err)
	}
	if strings.TrimSpace(code) == "" {
		fmt.Fprintln(out, "(skipped)")
		return nil
	}

	if q.Accepts(code) {
		fmt.Fprintln(out, "\033[32m✅ PROTOCOL CONFIRMED\033[0m")
		return nil
	}
	fmt.Fprintln(out, "\033[31m❌ VALIDATION FAILED\033[0m")
	fmt.Fprintf(out, "Expected: %s\n", q.Solution)

	if !useCoach || !s.cfg.Coach.Enabled {
		return nil
	}
	provider, err := s.coachProvider(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "(coach unavailable:", err, ")")
		return nil
	}
	c := coach.NewService(provider, coach.DefaultConfig(), s.logger)
	nudge, err := c.Ask(cmd.Context(), coach.Input{Number: n, Question: q, Code: code})
	if err != nil {
		fmt.Fprintln(out, "(coach failed:", err, ")")
		return nil
	}
	fmt.Fprintf(out, "\n🤖 %s\n", nudge)
	return nil
}

// readAnswer collects lines until an empty line or end of input.
func readAnswer(sc *bufio.Scanner) (string, error) {
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), sc.Err()
}
