package bank

import (
	"fmt"
	"strings"
)

// validateChapters performs all structural checks on chapters, which must
// already be sorted by number. Returns a combined error describing all
// problems found, or nil if valid.
func validateChapters(chapters []Chapter) error {
	var errs []string

	if len(chapters) == 0 {
		errs = append(errs, "bank has no chapters")
	}
	if len(chapters) > MaxChapters {
		errs = append(errs, fmt.Sprintf("bank has %d chapters, at most %d fit in %d questions",
			len(chapters), MaxChapters, TotalQuestions))
	}

	// Chapters are numbered 1..n with no gaps.
	for i, ch := range chapters {
		if ch.Number != i+1 {
			errs = append(errs, fmt.Sprintf("chapter numbering not contiguous: found %d at position %d", ch.Number, i+1))
			break
		}
	}

	ids := make(map[string]bool)
	for _, ch := range chapters {
		if strings.TrimSpace(ch.Title) == "" {
			errs = append(errs, fmt.Sprintf("chapter %d has no title", ch.Number))
		}
		if len(ch.Questions) != ChapterSize {
			errs = append(errs, fmt.Sprintf("chapter %d has %d questions, want %d",
				ch.Number, len(ch.Questions), ChapterSize))
		}
		for i, q := range ch.Questions {
			if q.ID == "" {
				errs = append(errs, fmt.Sprintf("chapter %d question %d has no ID", ch.Number, i+1))
				continue
			}
			if ids[q.ID] {
				errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
			}
			ids[q.ID] = true
			if strings.TrimSpace(q.Title) == "" {
				errs = append(errs, fmt.Sprintf("question %q has no title", q.ID))
			}
			if q.Test.Tag() == "" {
				errs = append(errs, fmt.Sprintf("question %q has no acceptance rule", q.ID))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("question bank validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
