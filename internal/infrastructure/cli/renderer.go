package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/mastopoll/internal/domain"
)

// RenderRunReport prints the outcome of a pass in a plain, ASCII-only format.
func RenderRunReport(out io.Writer, report domain.RunReport) {
	fmt.Fprintf(out, "History: %d polls\n", report.History)
	for _, attempt := range report.Attempts {
		fmt.Fprintf(out, "#%d %-8s %s", attempt.Number, strings.ToUpper(attempt.Outcome.String()), attempt.Candidate.Question)
		if attempt.Scores.Local != nil {
			fmt.Fprintf(out, " local=%.3f", *attempt.Scores.Local)
		}
		if attempt.Scores.Remote != nil {
			fmt.Fprintf(out, " remote=%.3f", *attempt.Scores.Remote)
		}
		if attempt.Reason != domain.RejectNone {
			fmt.Fprintf(out, " (%s: %s)", attempt.Reason, attempt.Detail)
		}
		fmt.Fprintln(out)
	}

	switch report.Status {
	case domain.RunStatusPublished:
		fmt.Fprintln(out, "\nPublished:")
		renderCandidate(out, report.Candidate)
		if report.Published != nil && report.Published.URL != "" {
			fmt.Fprintf(out, "  %s\n", report.Published.URL)
		}
	case domain.RunStatusDryRun:
		fmt.Fprintln(out, "\nAccepted (dry run, not published):")
		renderCandidate(out, report.Candidate)
	case domain.RunStatusExhausted:
		fmt.Fprintf(out, "\nNo novel poll after %d attempts; nothing published.\n", len(report.Attempts))
	}
}

func renderCandidate(out io.Writer, c *domain.Candidate) {
	if c == nil {
		return
	}
	fmt.Fprintf(out, "  %s\n", c.Question)
	for _, answer := range c.Answers {
		fmt.Fprintf(out, "   - %s\n", answer)
	}
}
